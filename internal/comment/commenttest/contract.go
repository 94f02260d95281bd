// Package commenttest holds a behavioural test suite every comment backend
// must pass.
package commenttest

import (
	"context"
	"testing"
	"time"

	"github.com/consensuslabs/pavilion-comments/internal/comment"
	apperrors "github.com/consensuslabs/pavilion-comments/internal/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RepositoryContract runs the backend suite against repositories built by
// newRepo. Each subtest gets a fresh repository; backends sharing one
// database should isolate by using fresh video ids, which the suite does.
func RepositoryContract(t *testing.T, newRepo func(t *testing.T) comment.Repository) {
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	record := func(videoID uuid.UUID, parentID *uuid.UUID, offset time.Duration) *comment.Comment {
		c := &comment.Comment{
			ID:        uuid.New(),
			Content:   "content",
			VideoID:   videoID,
			OwnerID:   uuid.New(),
			ParentID:  parentID,
			CreatedAt: base.Add(offset),
			UpdatedAt: base.Add(offset),
		}
		if parentID != nil {
			c.VideoID = uuid.Nil
		}
		return c
	}

	opts := func(page, size int, field comment.SortField, order comment.SortOrder) comment.ListOptions {
		return comment.ListOptions{Page: page, PageSize: size, SortField: field, SortOrder: order}
	}

	t.Run("insert and find", func(t *testing.T) {
		repo := newRepo(t)
		top := record(uuid.New(), nil, 0)
		require.NoError(t, repo.Insert(ctx, top))
		reply := record(uuid.Nil, &top.ID, time.Second)
		require.NoError(t, repo.Insert(ctx, reply))

		got, err := repo.FindByID(ctx, top.ID)
		require.NoError(t, err)
		assert.Equal(t, top.Content, got.Content)
		assert.Equal(t, top.VideoID, got.VideoID)
		assert.Equal(t, top.OwnerID, got.OwnerID)
		assert.Nil(t, got.ParentID)
		assert.True(t, top.CreatedAt.Equal(got.CreatedAt))

		got, err = repo.FindByID(ctx, reply.ID)
		require.NoError(t, err)
		require.NotNil(t, got.ParentID)
		assert.Equal(t, top.ID, *got.ParentID)
		assert.Equal(t, uuid.Nil, got.VideoID)
	})

	t.Run("missing records", func(t *testing.T) {
		repo := newRepo(t)
		id := uuid.New()

		_, err := repo.FindByID(ctx, id)
		assert.True(t, apperrors.IsNotFound(err))
		assert.True(t, apperrors.IsNotFound(repo.UpdateContent(ctx, id, "x", base)))
		assert.True(t, apperrors.IsNotFound(repo.Delete(ctx, id)))
	})

	t.Run("update content", func(t *testing.T) {
		repo := newRepo(t)
		c := record(uuid.New(), nil, 0)
		require.NoError(t, repo.Insert(ctx, c))

		later := base.Add(time.Hour)
		require.NoError(t, repo.UpdateContent(ctx, c.ID, "edited", later))

		got, err := repo.FindByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "edited", got.Content)
		assert.True(t, later.Equal(got.UpdatedAt))
		assert.True(t, base.Equal(got.CreatedAt))
	})

	t.Run("delete does not cascade", func(t *testing.T) {
		repo := newRepo(t)
		top := record(uuid.New(), nil, 0)
		reply := record(uuid.Nil, &top.ID, time.Second)
		require.NoError(t, repo.Insert(ctx, top))
		require.NoError(t, repo.Insert(ctx, reply))

		require.NoError(t, repo.Delete(ctx, top.ID))

		_, err := repo.FindByID(ctx, reply.ID)
		assert.NoError(t, err)
		ids, err := repo.ReplyIDs(ctx, top.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{reply.ID}, ids)
	})

	t.Run("list top level filters and orders", func(t *testing.T) {
		repo := newRepo(t)
		videoID := uuid.New()
		var tops []*comment.Comment
		for i := 0; i < 5; i++ {
			c := record(videoID, nil, time.Duration(i)*time.Minute)
			require.NoError(t, repo.Insert(ctx, c))
			tops = append(tops, c)
		}
		require.NoError(t, repo.Insert(ctx, record(uuid.New(), nil, 0)))
		require.NoError(t, repo.Insert(ctx, record(uuid.Nil, &tops[0].ID, time.Hour)))

		got, total, err := repo.ListTopLevel(ctx, videoID, opts(1, 2, comment.SortByCreatedAt, comment.SortDesc))
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		require.Len(t, got, 2)
		assert.Equal(t, tops[4].ID, got[0].ID)
		assert.Equal(t, tops[3].ID, got[1].ID)

		got, _, err = repo.ListTopLevel(ctx, videoID, opts(3, 2, comment.SortByCreatedAt, comment.SortDesc))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, tops[0].ID, got[0].ID)

		got, _, err = repo.ListTopLevel(ctx, videoID, opts(1, 10, comment.SortByCreatedAt, comment.SortAsc))
		require.NoError(t, err)
		require.Len(t, got, 5)
		assert.Equal(t, tops[0].ID, got[0].ID)

		got, _, err = repo.ListTopLevel(ctx, videoID, opts(4, 2, comment.SortByCreatedAt, comment.SortDesc))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("sort by updatedAt", func(t *testing.T) {
		repo := newRepo(t)
		videoID := uuid.New()
		older := record(videoID, nil, 0)
		newer := record(videoID, nil, time.Minute)
		require.NoError(t, repo.Insert(ctx, older))
		require.NoError(t, repo.Insert(ctx, newer))
		require.NoError(t, repo.UpdateContent(ctx, older.ID, "bumped", base.Add(time.Hour)))

		got, _, err := repo.ListTopLevel(ctx, videoID, opts(1, 10, comment.SortByUpdatedAt, comment.SortDesc))
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, older.ID, got[0].ID)
	})

	t.Run("ties are broken by id", func(t *testing.T) {
		repo := newRepo(t)
		videoID := uuid.New()
		for i := 0; i < 6; i++ {
			require.NoError(t, repo.Insert(ctx, record(videoID, nil, 0)))
		}

		var seen []uuid.UUID
		for page := 1; page <= 3; page++ {
			got, _, err := repo.ListTopLevel(ctx, videoID, opts(page, 2, comment.SortByCreatedAt, comment.SortDesc))
			require.NoError(t, err)
			for _, c := range got {
				seen = append(seen, c.ID)
			}
		}
		require.Len(t, seen, 6)
		unique := map[uuid.UUID]bool{}
		for _, id := range seen {
			unique[id] = true
		}
		assert.Len(t, unique, 6)
	})

	t.Run("list replies", func(t *testing.T) {
		repo := newRepo(t)
		top := record(uuid.New(), nil, 0)
		other := record(uuid.New(), nil, 0)
		require.NoError(t, repo.Insert(ctx, top))
		require.NoError(t, repo.Insert(ctx, other))
		var replies []*comment.Comment
		for i := 0; i < 3; i++ {
			r := record(uuid.Nil, &top.ID, time.Duration(i+1)*time.Second)
			require.NoError(t, repo.Insert(ctx, r))
			replies = append(replies, r)
		}
		require.NoError(t, repo.Insert(ctx, record(uuid.Nil, &other.ID, time.Second)))

		got, total, err := repo.ListReplies(ctx, top.ID, opts(1, 10, comment.SortByCreatedAt, comment.SortAsc))
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, got, 3)
		for i := range replies {
			assert.Equal(t, replies[i].ID, got[i].ID)
		}

		ids, err := repo.ReplyIDs(ctx, top.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []uuid.UUID{replies[0].ID, replies[1].ID, replies[2].ID}, ids)
	})

	t.Run("list all", func(t *testing.T) {
		repo := newRepo(t)
		top := record(uuid.New(), nil, 0)
		require.NoError(t, repo.Insert(ctx, top))
		require.NoError(t, repo.Insert(ctx, record(uuid.Nil, &top.ID, time.Second)))

		_, total, err := repo.ListAll(ctx, opts(1, 10, comment.SortByCreatedAt, comment.SortDesc))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, total, int64(2))
	})
}
