package producer

import (
	"context"
	"fmt"

	"github.com/apache/pulsar-client-go/pulsar"
	"github.com/consensuslabs/pavilion-comments/internal/comment"
	"github.com/consensuslabs/pavilion-comments/internal/logger"
	"github.com/consensuslabs/pavilion-comments/internal/notification/types"
	"github.com/consensuslabs/pavilion-comments/internal/notification/util"
	"github.com/google/uuid"
)

// maxEventContentLength bounds the content preview carried in an event
const maxEventContentLength = 200

// CommentProducer publishes comment lifecycle events to Pulsar
type CommentProducer struct {
	*BaseProducer
}

var _ comment.EventPublisher = (*CommentProducer)(nil)

// NewCommentProducer creates a new comment producer on topic
func NewCommentProducer(client pulsar.Client, topic string, log logger.Logger) (*CommentProducer, error) {
	base, err := NewBaseProducer(client, topic, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create base producer: %w", err)
	}
	return &CommentProducer{BaseProducer: base}, nil
}

// PublishCommentCreated announces a new top-level comment
func (p *CommentProducer) PublishCommentCreated(ctx context.Context, c *comment.Comment) error {
	return p.Publish(ctx, newEvent(types.CommentCreated, c))
}

// PublishCommentReplied announces a reply; the parent's owner is the recipient
func (p *CommentProducer) PublishCommentReplied(ctx context.Context, reply, parent *comment.Comment) error {
	event := newEvent(types.CommentReplied, reply)
	if parent != nil {
		event.VideoID = parent.VideoID
		owner := parent.OwnerID
		event.ParentOwnerID = &owner
	}
	return p.Publish(ctx, event)
}

// PublishCommentUpdated announces an edit
func (p *CommentProducer) PublishCommentUpdated(ctx context.Context, c *comment.Comment) error {
	return p.Publish(ctx, newEvent(types.CommentUpdated, c))
}

// PublishCommentDeleted announces a removal along with the replies that went
// with it
func (p *CommentProducer) PublishCommentDeleted(ctx context.Context, c *comment.Comment, repliesRemoved int) error {
	event := newEvent(types.CommentDeleted, c)
	event.Content = ""
	event.RepliesRemoved = repliesRemoved
	return p.Publish(ctx, event)
}

func newEvent(eventType types.EventType, c *comment.Comment) types.CommentEvent {
	event := types.CommentEvent{
		BaseEvent: types.BaseEvent{Type: eventType},
		CommentID: c.ID,
		UserID:    c.OwnerID,
		VideoID:   c.VideoID,
		Content:   util.TruncateContent(c.Content, maxEventContentLength),
	}
	if c.ParentID != nil {
		parentID := *c.ParentID
		event.ParentID = &parentID
	}
	return event
}

// Publish sends a comment event keyed by comment id
func (p *CommentProducer) Publish(ctx context.Context, event types.CommentEvent) error {
	event.ID = util.GenerateEventID(event.ID)
	event.CreatedAt = util.GenerateEventTime(event.CreatedAt)

	properties := map[string]string{
		"event_type": string(event.Type),
		"user_id":    event.UserID.String(),
		"video_id":   event.VideoID.String(),
		"comment_id": event.CommentID.String(),
	}
	if event.ParentID != nil && *event.ParentID != uuid.Nil {
		properties["parent_id"] = event.ParentID.String()
	}

	msg, err := util.CreateProducerMessage(event, event.CommentID.String(), properties, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create producer message: %w", err)
	}

	if _, err := p.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	p.logger.LogInfo("Published comment event", map[string]interface{}{
		"event_id":   event.ID,
		"event_type": event.Type,
		"comment_id": event.CommentID,
		"video_id":   event.VideoID,
	})
	return nil
}
