package comment

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/consensuslabs/pavilion-comments/internal/errors"
	"github.com/google/uuid"
)

// Store is the single owner of comment records. It wraps a backend
// Repository with the record-level guarantees every backend shares.
type Store struct {
	repo Repository
	now  func() time.Time
}

// NewStore creates a Store over the given backend
func NewStore(repo Repository) *Store {
	return &Store{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// timestamp is truncated to milliseconds, the coarsest precision among
// the supported backends, so values round-trip identically everywhere.
func (s *Store) timestamp() time.Time {
	return s.now().Truncate(time.Millisecond)
}

// Create persists a new comment. Existence of the video or parent must have
// been checked by the caller. For replies videoID is the parent's video and
// is only echoed back, never stored.
func (s *Store) Create(ctx context.Context, content string, videoID, ownerID uuid.UUID, parentID *uuid.UUID) (*Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("content", apperrors.ErrMsgContentEmpty)
	}

	now := s.timestamp()
	record := &Comment{
		ID:        uuid.New(),
		Content:   content,
		VideoID:   videoID,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if parentID != nil {
		pid := *parentID
		record.ParentID = &pid
		record.VideoID = uuid.Nil
	}

	if err := s.repo.Insert(ctx, record); err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}

	created := *record
	created.VideoID = videoID
	return &created, nil
}

// GetByID loads a comment. Replies come back carrying their parent's video id.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*Comment, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.IsReply() {
		parent, err := s.repo.FindByID(ctx, *c.ParentID)
		if err != nil && !apperrors.IsNotFound(err) {
			return nil, err
		}
		// an orphaned reply keeps a zero video id
		if parent != nil {
			c.VideoID = parent.VideoID
		}
	}
	return c, nil
}

// UpdateContent replaces a comment's content and bumps UpdatedAt.
// Concurrent edits are last-writer-wins.
func (s *Store) UpdateContent(ctx context.Context, id uuid.UUID, content string) (*Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("content", apperrors.ErrMsgContentEmpty)
	}

	c, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.timestamp()
	if err := s.repo.UpdateContent(ctx, id, content, now); err != nil {
		return nil, err
	}
	c.Content = content
	c.UpdatedAt = now
	return c, nil
}

// DeleteByID removes a single record. It never cascades.
func (s *Store) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// ListTopLevelByVideo pages the top-level comments of a video
func (s *Store) ListTopLevelByVideo(ctx context.Context, videoID uuid.UUID, opts ListOptions) (*Page, error) {
	comments, total, err := s.repo.ListTopLevel(ctx, videoID, opts)
	if err != nil {
		return nil, fmt.Errorf("list comments for video %s: %w", videoID, err)
	}
	return newPage(comments, total, opts), nil
}

// ListRepliesByParent pages the replies of a top-level comment
func (s *Store) ListRepliesByParent(ctx context.Context, parent *Comment, opts ListOptions) (*Page, error) {
	comments, total, err := s.repo.ListReplies(ctx, parent.ID, opts)
	if err != nil {
		return nil, fmt.Errorf("list replies for comment %s: %w", parent.ID, err)
	}
	for i := range comments {
		comments[i].VideoID = parent.VideoID
	}
	return newPage(comments, total, opts), nil
}

// ListAll pages every comment regardless of video or thread
func (s *Store) ListAll(ctx context.Context, opts ListOptions) (*Page, error) {
	comments, total, err := s.repo.ListAll(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	videos := make(map[uuid.UUID]uuid.UUID)
	for i := range comments {
		if !comments[i].IsReply() {
			continue
		}
		pid := *comments[i].ParentID
		videoID, ok := videos[pid]
		if !ok {
			parent, err := s.repo.FindByID(ctx, pid)
			if err != nil && !apperrors.IsNotFound(err) {
				return nil, err
			}
			if parent != nil {
				videoID = parent.VideoID
			}
			videos[pid] = videoID
		}
		comments[i].VideoID = videoID
	}
	return newPage(comments, total, opts), nil
}

// ReplyIDs enumerates the ids of a comment's direct replies
func (s *Store) ReplyIDs(ctx context.Context, parentID uuid.UUID) ([]uuid.UUID, error) {
	return s.repo.ReplyIDs(ctx, parentID)
}

func (s *Store) threadDeleter() (ThreadDeleter, bool) {
	td, ok := s.repo.(ThreadDeleter)
	return td, ok
}
