// Package postgres stores comments in PostgreSQL through gorm.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/consensuslabs/pavilion-comments/internal/comment"
	apperrors "github.com/consensuslabs/pavilion-comments/internal/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommentRecord is the row layout of the comments table. Replies have a
// NULL video_id.
type CommentRecord struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Content   string     `gorm:"type:text;not null"`
	VideoID   *uuid.UUID `gorm:"type:uuid;index:idx_comments_video_created,priority:1"`
	OwnerID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	ParentID  *uuid.UUID `gorm:"type:uuid;index:idx_comments_parent_created,priority:1"`
	CreatedAt time.Time  `gorm:"not null;autoCreateTime:false;index:idx_comments_video_created,priority:2;index:idx_comments_parent_created,priority:2"`
	UpdatedAt time.Time  `gorm:"not null;autoUpdateTime:false"`
}

// TableName specifies the table name for CommentRecord
func (CommentRecord) TableName() string {
	return "comments"
}

func toRecord(c *comment.Comment) *CommentRecord {
	r := &CommentRecord{
		ID:        c.ID,
		Content:   c.Content,
		OwnerID:   c.OwnerID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.ParentID != nil {
		pid := *c.ParentID
		r.ParentID = &pid
	} else {
		vid := c.VideoID
		r.VideoID = &vid
	}
	return r
}

func (r *CommentRecord) toComment() comment.Comment {
	c := comment.Comment{
		ID:        r.ID,
		Content:   r.Content,
		OwnerID:   r.OwnerID,
		ParentID:  r.ParentID,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
	if r.VideoID != nil && r.ParentID == nil {
		c.VideoID = *r.VideoID
	}
	return c
}

// CommentRepository implements comment.Repository and comment.ThreadDeleter
type CommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new PostgreSQL comment repository
func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func notFound(id uuid.UUID) error {
	return apperrors.NewNotFoundError("comment", id.String())
}

// Insert implements comment.Repository
func (r *CommentRepository) Insert(ctx context.Context, c *comment.Comment) error {
	if err := r.db.WithContext(ctx).Create(toRecord(c)).Error; err != nil {
		return apperrors.NewStorageError("failed to insert comment", err)
	}
	return nil
}

// FindByID implements comment.Repository
func (r *CommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*comment.Comment, error) {
	var record CommentRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(id)
		}
		return nil, apperrors.NewStorageError("failed to load comment", err)
	}
	c := record.toComment()
	return &c, nil
}

// UpdateContent implements comment.Repository
func (r *CommentRepository) UpdateContent(ctx context.Context, id uuid.UUID, content string, updatedAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&CommentRecord{}).Where("id = ?", id).Updates(map[string]interface{}{
		"content":    content,
		"updated_at": updatedAt,
	})
	if result.Error != nil {
		return apperrors.NewStorageError("failed to update comment", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound(id)
	}
	return nil
}

// Delete implements comment.Repository
func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&CommentRecord{})
	if result.Error != nil {
		return apperrors.NewStorageError("failed to delete comment", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound(id)
	}
	return nil
}

// ListTopLevel implements comment.Repository
func (r *CommentRepository) ListTopLevel(ctx context.Context, videoID uuid.UUID, opts comment.ListOptions) ([]comment.Comment, int64, error) {
	return r.list(ctx, opts, "video_id = ? AND parent_id IS NULL", videoID)
}

// ListReplies implements comment.Repository
func (r *CommentRepository) ListReplies(ctx context.Context, parentID uuid.UUID, opts comment.ListOptions) ([]comment.Comment, int64, error) {
	return r.list(ctx, opts, "parent_id = ?", parentID)
}

// ListAll implements comment.Repository
func (r *CommentRepository) ListAll(ctx context.Context, opts comment.ListOptions) ([]comment.Comment, int64, error) {
	return r.list(ctx, opts, "")
}

func (r *CommentRepository) list(ctx context.Context, opts comment.ListOptions, where string, args ...interface{}) ([]comment.Comment, int64, error) {
	scope := func() *gorm.DB {
		query := r.db.WithContext(ctx).Model(&CommentRecord{})
		if where != "" {
			query = query.Where(where, args...)
		}
		return query
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, apperrors.NewStorageError("failed to count comments", err)
	}

	var records []CommentRecord
	err := scope().
		Order(orderClause(opts)).
		Offset(opts.Offset()).
		Limit(opts.PageSize).
		Find(&records).Error
	if err != nil {
		return nil, 0, apperrors.NewStorageError("failed to list comments", err)
	}

	out := make([]comment.Comment, len(records))
	for i := range records {
		out[i] = records[i].toComment()
	}
	return out, total, nil
}

// orderClause sorts by the requested timestamp and breaks ties by id in the
// same direction. Both columns come from fixed sets, never from user input.
func orderClause(opts comment.ListOptions) string {
	column := "created_at"
	if opts.SortField == comment.SortByUpdatedAt {
		column = "updated_at"
	}
	direction := "DESC"
	if opts.SortOrder == comment.SortAsc {
		direction = "ASC"
	}
	return fmt.Sprintf("%s %s, id %s", column, direction, direction)
}

// ReplyIDs implements comment.Repository
func (r *CommentRepository) ReplyIDs(ctx context.Context, parentID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&CommentRecord{}).Where("parent_id = ?", parentID).Pluck("id", &ids).Error
	if err != nil {
		return nil, apperrors.NewStorageError("failed to list reply ids", err)
	}
	return ids, nil
}

// DeleteThread implements comment.ThreadDeleter
func (r *CommentRepository) DeleteThread(ctx context.Context, id uuid.UUID) (int, error) {
	var replies int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("parent_id = ?", id).Delete(&CommentRecord{})
		if result.Error != nil {
			return apperrors.NewStorageError("failed to delete replies", result.Error)
		}
		replies = result.RowsAffected

		result = tx.Where("id = ? AND parent_id IS NULL", id).Delete(&CommentRecord{})
		if result.Error != nil {
			return apperrors.NewStorageError("failed to delete comment", result.Error)
		}
		if result.RowsAffected == 0 {
			return notFound(id)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int(replies), nil
}
