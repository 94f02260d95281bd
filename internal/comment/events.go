package comment

import (
	"context"
	"time"
)

// EventPublisher announces comment lifecycle changes to downstream
// consumers. Publishing is best-effort and never fails the request.
type EventPublisher interface {
	PublishCommentCreated(ctx context.Context, comment *Comment) error
	PublishCommentReplied(ctx context.Context, reply, parent *Comment) error
	PublishCommentUpdated(ctx context.Context, comment *Comment) error
	// PublishCommentDeleted announces a removal. repliesRemoved counts the
	// replies deleted with a top-level comment and is zero for a reply.
	PublishCommentDeleted(ctx context.Context, comment *Comment, repliesRemoved int) error
}

// Recorder observes the outcome of each service operation
type Recorder interface {
	ObserveOperation(operation string, err error, elapsed time.Duration)
}

type nopPublisher struct{}

func (nopPublisher) PublishCommentCreated(context.Context, *Comment) error { return nil }
func (nopPublisher) PublishCommentReplied(context.Context, *Comment, *Comment) error { return nil }
func (nopPublisher) PublishCommentUpdated(context.Context, *Comment) error { return nil }
func (nopPublisher) PublishCommentDeleted(context.Context, *Comment, int) error { return nil }

type nopRecorder struct{}

func (nopRecorder) ObserveOperation(string, error, time.Duration) {}
