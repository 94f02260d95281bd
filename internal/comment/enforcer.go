package comment

import (
	"context"
	"html"
	"strings"
	"unicode/utf8"

	apperrors "github.com/consensuslabs/pavilion-comments/internal/errors"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// DefaultMaxContentLength is used when no positive limit is configured
const DefaultMaxContentLength = 5000

// Enforcer validates content and thread shape before any create or update
type Enforcer struct {
	store     *Store
	videos    VideoOracle
	policy    *bluemonday.Policy
	maxLength int
}

// NewEnforcer creates an Enforcer. maxLength is measured in runes.
func NewEnforcer(store *Store, videos VideoOracle, maxLength int) *Enforcer {
	if maxLength <= 0 {
		maxLength = DefaultMaxContentLength
	}
	return &Enforcer{
		store:     store,
		videos:    videos,
		policy:    bluemonday.StrictPolicy(),
		maxLength: maxLength,
	}
}

// NormalizeContent strips markup and surrounding whitespace. Comments are
// plain text; the sanitizer's entity escaping is undone so "Tom & Jerry"
// is stored as typed.
func (e *Enforcer) NormalizeContent(raw string) (string, error) {
	content := strings.TrimSpace(html.UnescapeString(e.policy.Sanitize(raw)))
	if content == "" {
		return "", apperrors.NewValidationError("content", apperrors.ErrMsgContentEmpty)
	}
	if utf8.RuneCountInString(content) > e.maxLength {
		return "", apperrors.NewValidationError("content", apperrors.ErrMsgContentTooLong)
	}
	return content, nil
}

// CheckTopLevel verifies the target video exists
func (e *Enforcer) CheckTopLevel(ctx context.Context, videoID uuid.UUID) error {
	exists, err := e.videos.Exists(ctx, videoID)
	if err != nil {
		return apperrors.NewDependencyError("video", apperrors.ErrMsgVideoLookup, err)
	}
	if !exists {
		return apperrors.NewNotFoundError("video", videoID.String())
	}
	return nil
}

// CheckReplyTarget resolves the parent of a new reply. Only top-level
// comments accept replies.
func (e *Enforcer) CheckReplyTarget(ctx context.Context, parentID uuid.UUID) (*Comment, error) {
	parent, err := e.store.GetByID(ctx, parentID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFoundError("parent comment", parentID.String())
		}
		return nil, err
	}
	if parent.IsReply() {
		return nil, apperrors.NewInvariantViolation(apperrors.ErrMsgReplyToReply)
	}
	return parent, nil
}
