package comment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository is implemented by every comment storage backend. Backends deal
// in persistence only: content rules, thread shape and ownership are checked
// before a call reaches them. Absent records are reported with
// errors.NotFoundError. Replies are stored without a video id and are
// returned with a zero VideoID.
type Repository interface {
	Insert(ctx context.Context, comment *Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*Comment, error)
	UpdateContent(ctx context.Context, id uuid.UUID, content string, updatedAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error

	ListTopLevel(ctx context.Context, videoID uuid.UUID, opts ListOptions) ([]Comment, int64, error)
	ListReplies(ctx context.Context, parentID uuid.UUID, opts ListOptions) ([]Comment, int64, error)
	ListAll(ctx context.Context, opts ListOptions) ([]Comment, int64, error)
	ReplyIDs(ctx context.Context, parentID uuid.UUID) ([]uuid.UUID, error)
}

// ThreadDeleter is implemented by backends that can remove a top-level
// comment and all of its replies in one transaction. It returns the number
// of replies removed, or a NotFoundError when the top-level record is absent.
type ThreadDeleter interface {
	DeleteThread(ctx context.Context, id uuid.UUID) (int, error)
}

// VideoOracle answers whether a video exists
type VideoOracle interface {
	Exists(ctx context.Context, videoID uuid.UUID) (bool, error)
}
