package mongo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/consensuslabs/pavilion-comments/internal/comment"
	"github.com/consensuslabs/pavilion-comments/internal/comment/commenttest"
	"github.com/consensuslabs/pavilion-comments/internal/config"
	"github.com/consensuslabs/pavilion-comments/testhelper"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

// URIEnv names the variable holding a disposable test database URI
const URIEnv = "PAVILION_TEST_MONGO_URI"

func TestCommentRepositoryContract(t *testing.T) {
	uri := os.Getenv(URIEnv)
	if uri == "" {
		t.Skipf("%s not set, skipping MongoDB integration test", URIEnv)
	}

	ctx := context.Background()
	m, err := New(ctx, config.MongoConfig{URI: uri, Collection: "comments_test"}, testhelper.NewTestLogger(false))
	require.NoError(t, err)
	t.Cleanup(func() { m.Close(context.Background()) })

	commenttest.RepositoryContract(t, func(t *testing.T) comment.Repository {
		return m.Comments()
	})
}

func TestDocumentMapping(t *testing.T) {
	now := time.Date(2024, 2, 3, 4, 5, 6, 7_000_000, time.UTC)
	top := &comment.Comment{ID: uuid.New(), Content: "top", VideoID: uuid.New(), OwnerID: uuid.New(), CreatedAt: now, UpdatedAt: now}

	doc := toDocument(top)
	assert.Equal(t, top.VideoID.String(), doc.VideoID)
	assert.Empty(t, doc.ParentID)
	back, err := doc.toComment()
	require.NoError(t, err)
	assert.Equal(t, *top, back)

	pid := top.ID
	reply := &comment.Comment{ID: uuid.New(), Content: "reply", VideoID: top.VideoID, OwnerID: uuid.New(), ParentID: &pid, CreatedAt: now, UpdatedAt: now}
	doc = toDocument(reply)
	assert.Empty(t, doc.VideoID)
	back, err = doc.toComment()
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, back.VideoID)
	assert.Equal(t, pid, *back.ParentID)
}

func TestSortSpec(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}, sortSpec(comment.ListOptions{}))
	assert.Equal(t, bson.D{{Key: "updated_at", Value: 1}, {Key: "_id", Value: 1}},
		sortSpec(comment.ListOptions{SortField: comment.SortByUpdatedAt, SortOrder: comment.SortAsc}))
}

func TestDatabaseFromURI(t *testing.T) {
	assert.Equal(t, "comments", databaseFromURI("mongodb://localhost:27017/comments"))
	assert.Equal(t, defaultDBName, databaseFromURI("mongodb://localhost:27017"))
}
