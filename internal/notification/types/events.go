package types

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of notification event
type EventType string

const (
	CommentCreated EventType = "COMMENT_CREATED"
	CommentReplied EventType = "COMMENT_REPLIED"
	CommentUpdated EventType = "COMMENT_UPDATED"
	CommentDeleted EventType = "COMMENT_DELETED"
)

// BaseEvent contains common fields for all event types
type BaseEvent struct {
	ID        uuid.UUID `json:"id"`
	Type      EventType `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

// CommentEvent represents a comment-related notification event. For replies
// ParentOwnerID is the user to notify. A deleted top-level comment carries
// the number of replies removed with it in RepliesRemoved.
type CommentEvent struct {
	BaseEvent
	CommentID      uuid.UUID  `json:"commentId"`
	UserID         uuid.UUID  `json:"userId"`
	VideoID        uuid.UUID  `json:"videoId"`
	ParentID       *uuid.UUID `json:"parentId,omitempty"`
	ParentOwnerID  *uuid.UUID `json:"parentOwnerId,omitempty"`
	Content        string     `json:"content,omitempty"`
	RepliesRemoved int        `json:"repliesRemoved,omitempty"`
}
