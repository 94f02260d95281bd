package comment

import (
	"context"
	"fmt"

	apperrors "github.com/consensuslabs/pavilion-comments/internal/errors"
	"github.com/consensuslabs/pavilion-comments/internal/logger"
	"github.com/google/uuid"
)

// Coordinator deletes comments together with whatever must go with them
type Coordinator struct {
	store  *Store
	guard  Guard
	logger logger.Logger
}

// NewCoordinator creates a new cascade delete coordinator
func NewCoordinator(store *Store, guard Guard, log logger.Logger) *Coordinator {
	return &Coordinator{
		store:  store,
		guard:  guard,
		logger: log.WithFields(map[string]interface{}{"component": "cascade"}),
	}
}

// DeleteTopLevelComment removes a top-level comment and its replies. It
// returns the deleted record and the number of replies removed with it.
//
// On backends without ThreadDeleter the cascade is not atomic: a failure
// part way through can leave some replies removed and the comment in place.
// Success is reported only after the top-level record is gone. A second
// enumeration after that removes replies that raced in during the cascade.
func (c *Coordinator) DeleteTopLevelComment(ctx context.Context, id, principal uuid.UUID) (*Comment, int, error) {
	target, err := c.store.GetByID(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	if target.IsReply() {
		return nil, 0, apperrors.NewInvariantViolation(apperrors.ErrMsgNotTopLevel)
	}
	if err := c.guard.AuthorizeMutation(target, principal); err != nil {
		return nil, 0, err
	}

	if td, ok := c.store.threadDeleter(); ok {
		removed, err := td.DeleteThread(ctx, id)
		if err != nil {
			return nil, 0, fmt.Errorf("delete thread %s: %w", id, err)
		}
		c.logger.LogDebug("Thread deleted", map[string]interface{}{
			"commentID": id.String(),
			"replies":   removed,
		})
		return target, removed, nil
	}

	removed, err := c.deleteReplies(ctx, id)
	if err != nil {
		return nil, 0, fmt.Errorf("cascade replies of %s after removing %d: %w", id, removed, err)
	}

	if err := c.store.DeleteByID(ctx, id); err != nil {
		return nil, 0, err
	}

	swept, err := c.deleteReplies(ctx, id)
	if err != nil {
		c.logger.LogWarn("Secondary reply sweep failed", map[string]interface{}{
			"commentID": id.String(),
			"error":     err.Error(),
		})
	} else if swept > 0 {
		c.logger.LogInfo("Secondary sweep removed late replies", map[string]interface{}{
			"commentID": id.String(),
			"replies":   swept,
		})
	}

	c.logger.LogDebug("Thread deleted", map[string]interface{}{
		"commentID": id.String(),
		"replies":   removed + swept,
	})
	return target, removed + swept, nil
}

// deleteReplies removes every current reply of parentID. Replies deleted
// concurrently by someone else are skipped.
func (c *Coordinator) deleteReplies(ctx context.Context, parentID uuid.UUID) (int, error) {
	ids, err := c.store.ReplyIDs(ctx, parentID)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, replyID := range ids {
		if err := c.store.DeleteByID(ctx, replyID); err != nil {
			if apperrors.IsNotFound(err) {
				continue
			}
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// DeleteReply removes a single reply after checking it belongs to parentID
func (c *Coordinator) DeleteReply(ctx context.Context, parentID, replyID, principal uuid.UUID) (*Comment, error) {
	reply, err := c.loadReply(ctx, parentID, replyID)
	if err != nil {
		return nil, err
	}
	if err := c.guard.AuthorizeMutation(reply, principal); err != nil {
		return nil, err
	}
	if err := c.store.DeleteByID(ctx, replyID); err != nil {
		return nil, err
	}
	return reply, nil
}

// loadReply fetches replyID and verifies it is a reply of parentID
func (c *Coordinator) loadReply(ctx context.Context, parentID, replyID uuid.UUID) (*Comment, error) {
	reply, err := c.store.GetByID(ctx, replyID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFoundError("reply", replyID.String())
		}
		return nil, err
	}
	if !reply.IsReply() || *reply.ParentID != parentID {
		return nil, apperrors.NewInvariantViolation(apperrors.ErrMsgReplyParent)
	}
	return reply, nil
}
