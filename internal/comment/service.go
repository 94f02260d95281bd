package comment

import (
	"context"
	"time"

	apperrors "github.com/consensuslabs/pavilion-comments/internal/errors"
	"github.com/consensuslabs/pavilion-comments/internal/logger"
	"github.com/google/uuid"
)

// Operation names reported to the Recorder
const (
	OpCreateComment = "create_comment"
	OpListComments  = "list_comments"
	OpGetComment    = "get_comment"
	OpEditComment   = "edit_comment"
	OpDeleteComment = "delete_comment"
	OpCreateReply   = "create_reply"
	OpListReplies   = "list_replies"
	OpEditReply     = "edit_reply"
	OpDeleteReply   = "delete_reply"
	OpListAll       = "list_all"
)

// Config holds the tunables of the comment engine
type Config struct {
	MaxContentLength int
	DefaultPageSize  int
	MaxPageSize      int
}

func (c Config) withDefaults() Config {
	if c.MaxContentLength <= 0 {
		c.MaxContentLength = DefaultMaxContentLength
	}
	if c.MaxPageSize <= 0 {
		c.MaxPageSize = maxPageSize
	}
	if c.DefaultPageSize <= 0 {
		c.DefaultPageSize = defaultPageSize
	}
	if c.DefaultPageSize > c.MaxPageSize {
		c.DefaultPageSize = c.MaxPageSize
	}
	return c
}

// Service is the comment engine as seen by transports. A uuid.Nil principal
// is anonymous.
type Service interface {
	CreateComment(ctx context.Context, videoID, principal uuid.UUID, content string) (*EnrichedComment, error)
	ListVideoComments(ctx context.Context, videoID uuid.UUID, opts ListOptions) (*EnrichedPage, error)
	GetComment(ctx context.Context, id uuid.UUID) (*EnrichedComment, error)
	EditComment(ctx context.Context, id, principal uuid.UUID, content string) (*EnrichedComment, error)
	DeleteComment(ctx context.Context, id, principal uuid.UUID) error

	CreateReply(ctx context.Context, parentID, principal uuid.UUID, content string) (*EnrichedComment, error)
	ListReplies(ctx context.Context, parentID uuid.UUID, opts ListOptions) (*EnrichedPage, error)
	EditReply(ctx context.Context, parentID, replyID, principal uuid.UUID, content string) (*EnrichedComment, error)
	DeleteReply(ctx context.Context, parentID, replyID, principal uuid.UUID) (*Comment, error)

	ListAll(ctx context.Context, opts ListOptions) (*EnrichedPage, error)
}

// Option customizes a service
type Option func(*serviceImpl)

// WithEventPublisher sets the publisher notified after successful mutations
func WithEventPublisher(p EventPublisher) Option {
	return func(s *serviceImpl) { s.events = p }
}

// WithRecorder sets the operation recorder
func WithRecorder(r Recorder) Option {
	return func(s *serviceImpl) { s.recorder = r }
}

type serviceImpl struct {
	store       *Store
	enforcer    *Enforcer
	guard       Guard
	coordinator *Coordinator
	composer    *Composer
	events      EventPublisher
	recorder    Recorder
	logger      logger.Logger
}

// NewService wires the comment engine over a storage backend
func NewService(repo Repository, videos VideoOracle, profiles ProfileDirectory, cfg Config, log logger.Logger, opts ...Option) Service {
	cfg = cfg.withDefaults()
	store := NewStore(repo)
	s := &serviceImpl{
		store:       store,
		enforcer:    NewEnforcer(store, videos, cfg.MaxContentLength),
		coordinator: NewCoordinator(store, Guard{}, log),
		composer:    NewComposer(store, profiles),
		events:      nopPublisher{},
		recorder:    nopRecorder{},
		logger:      log.WithFields(map[string]interface{}{"component": "comment"}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *serviceImpl) observe(op string, start time.Time, err error) {
	s.recorder.ObserveOperation(op, err, time.Since(start))
}

// published logs a failed best-effort publish
func (s *serviceImpl) published(event string, id uuid.UUID, err error) {
	if err != nil {
		s.logger.LogWarn("Failed to publish comment event", map[string]interface{}{
			"event":     event,
			"commentID": id.String(),
			"error":     err.Error(),
		})
	}
}

func (s *serviceImpl) CreateComment(ctx context.Context, videoID, principal uuid.UUID, content string) (result *EnrichedComment, err error) {
	defer func(start time.Time) { s.observe(OpCreateComment, start, err) }(time.Now())

	if principal == uuid.Nil {
		return nil, apperrors.NewForbiddenError(apperrors.ErrMsgNotOwner)
	}
	content, err = s.enforcer.NormalizeContent(content)
	if err != nil {
		return nil, err
	}
	if err = s.enforcer.CheckTopLevel(ctx, videoID); err != nil {
		return nil, err
	}

	created, err := s.store.Create(ctx, content, videoID, principal, nil)
	if err != nil {
		return nil, err
	}
	s.logger.LogInfo("Comment created", map[string]interface{}{
		"commentID": created.ID.String(),
		"videoID":   videoID.String(),
		"userID":    principal.String(),
	})
	s.published("COMMENT_CREATED", created.ID, s.events.PublishCommentCreated(ctx, created))

	return s.composer.EnrichOne(ctx, created)
}

func (s *serviceImpl) ListVideoComments(ctx context.Context, videoID uuid.UUID, opts ListOptions) (page *EnrichedPage, err error) {
	defer func(start time.Time) { s.observe(OpListComments, start, err) }(time.Now())

	if err = s.enforcer.CheckTopLevel(ctx, videoID); err != nil {
		return nil, err
	}
	return s.composer.TopLevelPage(ctx, videoID, opts)
}

func (s *serviceImpl) GetComment(ctx context.Context, id uuid.UUID) (result *EnrichedComment, err error) {
	defer func(start time.Time) { s.observe(OpGetComment, start, err) }(time.Now())

	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.composer.EnrichOne(ctx, c)
}

func (s *serviceImpl) EditComment(ctx context.Context, id, principal uuid.UUID, content string) (result *EnrichedComment, err error) {
	defer func(start time.Time) { s.observe(OpEditComment, start, err) }(time.Now())

	content, err = s.enforcer.NormalizeContent(content)
	if err != nil {
		return nil, err
	}
	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, existing, principal, content)
}

func (s *serviceImpl) update(ctx context.Context, existing *Comment, principal uuid.UUID, content string) (*EnrichedComment, error) {
	if err := s.guard.AuthorizeMutation(existing, principal); err != nil {
		return nil, err
	}
	updated, err := s.store.UpdateContent(ctx, existing.ID, content)
	if err != nil {
		return nil, err
	}
	s.published("COMMENT_UPDATED", updated.ID, s.events.PublishCommentUpdated(ctx, updated))
	return s.composer.EnrichOne(ctx, updated)
}

func (s *serviceImpl) DeleteComment(ctx context.Context, id, principal uuid.UUID) (err error) {
	defer func(start time.Time) { s.observe(OpDeleteComment, start, err) }(time.Now())

	deleted, replies, err := s.coordinator.DeleteTopLevelComment(ctx, id, principal)
	if err != nil {
		return err
	}
	s.logger.LogInfo("Comment deleted", map[string]interface{}{
		"commentID": id.String(),
		"userID":    principal.String(),
		"replies":   replies,
	})
	s.published("COMMENT_DELETED", id, s.events.PublishCommentDeleted(ctx, deleted, replies))
	return nil
}

func (s *serviceImpl) CreateReply(ctx context.Context, parentID, principal uuid.UUID, content string) (result *EnrichedComment, err error) {
	defer func(start time.Time) { s.observe(OpCreateReply, start, err) }(time.Now())

	if principal == uuid.Nil {
		return nil, apperrors.NewForbiddenError(apperrors.ErrMsgNotOwner)
	}
	content, err = s.enforcer.NormalizeContent(content)
	if err != nil {
		return nil, err
	}
	parent, err := s.enforcer.CheckReplyTarget(ctx, parentID)
	if err != nil {
		return nil, err
	}

	reply, err := s.store.Create(ctx, content, parent.VideoID, principal, &parent.ID)
	if err != nil {
		return nil, err
	}
	s.logger.LogInfo("Reply created", map[string]interface{}{
		"commentID": reply.ID.String(),
		"parentID":  parent.ID.String(),
		"userID":    principal.String(),
	})
	s.published("COMMENT_REPLIED", reply.ID, s.events.PublishCommentReplied(ctx, reply, parent))

	return s.composer.EnrichOne(ctx, reply)
}

func (s *serviceImpl) ListReplies(ctx context.Context, parentID uuid.UUID, opts ListOptions) (page *EnrichedPage, err error) {
	defer func(start time.Time) { s.observe(OpListReplies, start, err) }(time.Now())

	parent, err := s.store.GetByID(ctx, parentID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFoundError("parent comment", parentID.String())
		}
		return nil, err
	}
	return s.composer.RepliesPage(ctx, parent, opts)
}

func (s *serviceImpl) EditReply(ctx context.Context, parentID, replyID, principal uuid.UUID, content string) (result *EnrichedComment, err error) {
	defer func(start time.Time) { s.observe(OpEditReply, start, err) }(time.Now())

	content, err = s.enforcer.NormalizeContent(content)
	if err != nil {
		return nil, err
	}
	reply, err := s.coordinator.loadReply(ctx, parentID, replyID)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, reply, principal, content)
}

func (s *serviceImpl) DeleteReply(ctx context.Context, parentID, replyID, principal uuid.UUID) (deleted *Comment, err error) {
	defer func(start time.Time) { s.observe(OpDeleteReply, start, err) }(time.Now())

	deleted, err = s.coordinator.DeleteReply(ctx, parentID, replyID, principal)
	if err != nil {
		return nil, err
	}
	s.logger.LogInfo("Reply deleted", map[string]interface{}{
		"commentID": replyID.String(),
		"parentID":  parentID.String(),
		"userID":    principal.String(),
	})
	s.published("COMMENT_DELETED", replyID, s.events.PublishCommentDeleted(ctx, deleted, 0))
	return deleted, nil
}

func (s *serviceImpl) ListAll(ctx context.Context, opts ListOptions) (page *EnrichedPage, err error) {
	defer func(start time.Time) { s.observe(OpListAll, start, err) }(time.Now())

	return s.composer.AllPage(ctx, opts)
}
