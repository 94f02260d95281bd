package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/consensuslabs/pavilion-comments/internal/comment"
	"github.com/consensuslabs/pavilion-comments/internal/comment/commenttest"
	apperrors "github.com/consensuslabs/pavilion-comments/internal/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DSNEnv names the variable holding a disposable test database
const DSNEnv = "PAVILION_TEST_POSTGRES_DSN"

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv(DSNEnv)
	if dsn == "" {
		t.Skipf("%s not set, skipping PostgreSQL integration test", DSNEnv)
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&CommentRecord{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestCommentRepositoryContract(t *testing.T) {
	db := openTestDB(t)
	commenttest.RepositoryContract(t, func(t *testing.T) comment.Repository {
		return NewCommentRepository(db)
	})
}

func TestDeleteThread(t *testing.T) {
	db := openTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	top := &comment.Comment{ID: uuid.New(), Content: "top", VideoID: uuid.New(), OwnerID: uuid.New(), CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Insert(ctx, top))
	for i := 0; i < 3; i++ {
		pid := top.ID
		require.NoError(t, repo.Insert(ctx, &comment.Comment{ID: uuid.New(), Content: "reply", OwnerID: uuid.New(), ParentID: &pid, CreatedAt: now, UpdatedAt: now}))
	}

	removed, err := repo.DeleteThread(ctx, top.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	_, err = repo.FindByID(ctx, top.ID)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = repo.DeleteThread(ctx, top.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestOrderClause(t *testing.T) {
	assert.Equal(t, "created_at DESC, id DESC", orderClause(comment.ListOptions{}))
	assert.Equal(t, "updated_at ASC, id ASC", orderClause(comment.ListOptions{SortField: comment.SortByUpdatedAt, SortOrder: comment.SortAsc}))
}
