// Package memory is a process-local comment backend for tests and
// single-node development.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/consensuslabs/pavilion-comments/internal/comment"
	apperrors "github.com/consensuslabs/pavilion-comments/internal/errors"
	"github.com/google/uuid"
)

// CommentRepository keeps comments in a map guarded by a RWMutex
type CommentRepository struct {
	mu       sync.RWMutex
	comments map[uuid.UUID]comment.Comment
}

var _ comment.Repository = (*CommentRepository)(nil)

// NewCommentRepository creates an empty repository
func NewCommentRepository() *CommentRepository {
	return &CommentRepository{comments: make(map[uuid.UUID]comment.Comment)}
}

// Insert stores a copy of c
func (r *CommentRepository) Insert(ctx context.Context, c *comment.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comments[c.ID] = clone(*c)
	return nil
}

// FindByID returns a copy of the stored comment
func (r *CommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*comment.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.comments[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("comment", id.String())
	}
	out := clone(c)
	return &out, nil
}

// UpdateContent replaces content and updatedAt
func (r *CommentRepository) UpdateContent(ctx context.Context, id uuid.UUID, content string, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return apperrors.NewNotFoundError("comment", id.String())
	}
	c.Content = content
	c.UpdatedAt = updatedAt
	r.comments[id] = c
	return nil
}

// Delete removes a single comment
func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[id]; !ok {
		return apperrors.NewNotFoundError("comment", id.String())
	}
	delete(r.comments, id)
	return nil
}

// ListTopLevel implements comment.Repository
func (r *CommentRepository) ListTopLevel(ctx context.Context, videoID uuid.UUID, opts comment.ListOptions) ([]comment.Comment, int64, error) {
	return r.list(opts, func(c *comment.Comment) bool {
		return !c.IsReply() && c.VideoID == videoID
	})
}

// ListReplies implements comment.Repository
func (r *CommentRepository) ListReplies(ctx context.Context, parentID uuid.UUID, opts comment.ListOptions) ([]comment.Comment, int64, error) {
	return r.list(opts, func(c *comment.Comment) bool {
		return c.IsReply() && *c.ParentID == parentID
	})
}

// ListAll implements comment.Repository
func (r *CommentRepository) ListAll(ctx context.Context, opts comment.ListOptions) ([]comment.Comment, int64, error) {
	return r.list(opts, func(*comment.Comment) bool { return true })
}

// ReplyIDs implements comment.Repository
func (r *CommentRepository) ReplyIDs(ctx context.Context, parentID uuid.UUID) ([]uuid.UUID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var ids []uuid.UUID
	for id, c := range r.comments {
		if c.IsReply() && *c.ParentID == parentID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Transactional returns a view of r that also implements
// comment.ThreadDeleter, deleting whole threads under a single lock
func (r *CommentRepository) Transactional() *TransactionalRepository {
	return &TransactionalRepository{CommentRepository: r}
}

// TransactionalRepository is a CommentRepository with atomic thread deletes
type TransactionalRepository struct {
	*CommentRepository
}

var _ comment.ThreadDeleter = (*TransactionalRepository)(nil)

// DeleteThread removes a top-level comment and its replies atomically
func (r *TransactionalRepository) DeleteThread(ctx context.Context, id uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[id]; !ok {
		return 0, apperrors.NewNotFoundError("comment", id.String())
	}
	removed := 0
	for replyID, c := range r.comments {
		if c.IsReply() && *c.ParentID == id {
			delete(r.comments, replyID)
			removed++
		}
	}
	delete(r.comments, id)
	return removed, nil
}

// Len reports the number of stored records
func (r *CommentRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.comments)
}

func (r *CommentRepository) list(opts comment.ListOptions, keep func(*comment.Comment) bool) ([]comment.Comment, int64, error) {
	r.mu.RLock()
	matched := make([]comment.Comment, 0)
	for _, c := range r.comments {
		if keep(&c) {
			matched = append(matched, clone(c))
		}
	}
	r.mu.RUnlock()

	comment.SortComments(matched, opts.SortField, opts.SortOrder)
	return comment.PageSlice(matched, opts), int64(len(matched)), nil
}

func clone(c comment.Comment) comment.Comment {
	if c.ParentID != nil {
		pid := *c.ParentID
		c.ParentID = &pid
	}
	return c
}
