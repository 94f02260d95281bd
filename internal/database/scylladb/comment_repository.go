package scylladb

import (
	"context"
	"errors"
	"time"

	"github.com/consensuslabs/pavilion-comments/internal/comment"
	apperrors "github.com/consensuslabs/pavilion-comments/internal/errors"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

const selectComment = `
	SELECT id, video_id, owner_id, parent_id, content, created_at, updated_at
	FROM comments`

// CommentRepository implements comment.Repository on ScyllaDB. Each record
// lives in the comments table and is indexed by video (top-level) or by
// parent (replies), clustered on created_at.
//
// Listings by createdAt read only the index partition (creation time and id
// per entry), pick the page window there and fetch just that window's
// records. Listings by updatedAt must load every record of the partition
// before ordering, and ListAll scans the whole table, so their cost grows
// with the thread or table size.
type CommentRepository struct {
	session *gocql.Session
	logger  Logger
}

// NewCommentRepository creates a new ScyllaDB repository for comments
func NewCommentRepository(session *gocql.Session, logger Logger) *CommentRepository {
	return &CommentRepository{
		session: session,
		logger:  logger,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanComment(s rowScanner) (*comment.Comment, error) {
	var (
		idBytes, videoBytes, ownerBytes, parentBytes []byte
		c                                            comment.Comment
	)
	if err := s.Scan(&idBytes, &videoBytes, &ownerBytes, &parentBytes, &c.Content, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}

	var err error
	if c.ID, err = parseUUID(idBytes); err != nil {
		return nil, err
	}
	if c.OwnerID, err = parseUUID(ownerBytes); err != nil {
		return nil, err
	}
	if c.ParentID, err = parseNullableUUID(parentBytes); err != nil {
		return nil, err
	}
	if c.ParentID == nil {
		videoID, err := parseNullableUUID(videoBytes)
		if err != nil {
			return nil, err
		}
		if videoID != nil {
			c.VideoID = *videoID
		}
	}
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return &c, nil
}

func notFound(id uuid.UUID) error {
	return apperrors.NewNotFoundError("comment", id.String())
}

func (r *CommentRepository) storageError(message string, err error, fields map[string]interface{}) error {
	if fields == nil {
		fields = map[string]interface{}{}
	}
	fields["error"] = err.Error()
	r.logger.LogError(message, fields)
	return apperrors.NewStorageError(message, err)
}

// Insert writes the record and its index entry in one logged batch
func (r *CommentRepository) Insert(ctx context.Context, c *comment.Comment) error {
	batch := r.session.NewBatch(gocql.LoggedBatch).WithContext(ctx)

	var videoID *uuid.UUID
	if c.ParentID == nil {
		videoID = &c.VideoID
	}
	batch.Query(`
		INSERT INTO comments (id, video_id, owner_id, parent_id, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuidBytes(c.ID), nullableUUID(videoID), uuidBytes(c.OwnerID), nullableUUID(c.ParentID),
		c.Content, c.CreatedAt, c.UpdatedAt,
	)
	if c.ParentID != nil {
		batch.Query(`INSERT INTO replies_by_parent (parent_id, created_at, comment_id) VALUES (?, ?, ?)`,
			uuidBytes(*c.ParentID), c.CreatedAt, uuidBytes(c.ID))
	} else {
		batch.Query(`INSERT INTO comments_by_video (video_id, created_at, comment_id) VALUES (?, ?, ?)`,
			uuidBytes(c.VideoID), c.CreatedAt, uuidBytes(c.ID))
	}

	if err := r.session.ExecuteBatch(batch); err != nil {
		return r.storageError("Failed to insert comment", err, map[string]interface{}{"commentID": c.ID.String()})
	}
	return nil
}

// FindByID implements comment.Repository
func (r *CommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*comment.Comment, error) {
	c, err := scanComment(r.session.Query(selectComment+` WHERE id = ?`, uuidBytes(id)).WithContext(ctx))
	if err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			return nil, notFound(id)
		}
		return nil, r.storageError("Failed to load comment", err, map[string]interface{}{"commentID": id.String()})
	}
	return c, nil
}

// UpdateContent uses a conditional update so a concurrently deleted record
// is not recreated
func (r *CommentRepository) UpdateContent(ctx context.Context, id uuid.UUID, content string, updatedAt time.Time) error {
	applied, err := r.session.Query(`UPDATE comments SET content = ?, updated_at = ? WHERE id = ? IF EXISTS`,
		content, updatedAt, uuidBytes(id)).WithContext(ctx).ScanCAS()
	if err != nil {
		return r.storageError("Failed to update comment", err, map[string]interface{}{"commentID": id.String()})
	}
	if !applied {
		return notFound(id)
	}
	return nil
}

// Delete removes the record and its index entry
func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}

	batch := r.session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	batch.Query(`DELETE FROM comments WHERE id = ?`, uuidBytes(id))
	if existing.ParentID != nil {
		batch.Query(`DELETE FROM replies_by_parent WHERE parent_id = ? AND created_at = ? AND comment_id = ?`,
			uuidBytes(*existing.ParentID), existing.CreatedAt, uuidBytes(id))
	} else {
		batch.Query(`DELETE FROM comments_by_video WHERE video_id = ? AND created_at = ? AND comment_id = ?`,
			uuidBytes(existing.VideoID), existing.CreatedAt, uuidBytes(id))
	}

	if err := r.session.ExecuteBatch(batch); err != nil {
		return r.storageError("Failed to delete comment", err, map[string]interface{}{"commentID": id.String()})
	}
	return nil
}

// ListTopLevel implements comment.Repository
func (r *CommentRepository) ListTopLevel(ctx context.Context, videoID uuid.UUID, opts comment.ListOptions) ([]comment.Comment, int64, error) {
	entries, err := r.indexEntries(ctx, `SELECT created_at, comment_id FROM comments_by_video WHERE video_id = ?`, videoID)
	if err != nil {
		return nil, 0, err
	}
	return r.list(ctx, entries, opts, func(c *comment.Comment) bool {
		return c.ParentID == nil && c.VideoID == videoID
	})
}

// ListReplies implements comment.Repository
func (r *CommentRepository) ListReplies(ctx context.Context, parentID uuid.UUID, opts comment.ListOptions) ([]comment.Comment, int64, error) {
	entries, err := r.indexEntries(ctx, `SELECT created_at, comment_id FROM replies_by_parent WHERE parent_id = ?`, parentID)
	if err != nil {
		return nil, 0, err
	}
	return r.list(ctx, entries, opts, func(c *comment.Comment) bool {
		return c.ParentID != nil && *c.ParentID == parentID
	})
}

// ListAll scans the whole comments table and orders it in memory, so it is
// meant for moderation views over modest tables
func (r *CommentRepository) ListAll(ctx context.Context, opts comment.ListOptions) ([]comment.Comment, int64, error) {
	iter := r.session.Query(selectComment).WithContext(ctx).Iter()
	scanner := iter.Scanner()

	var all []comment.Comment
	for scanner.Next() {
		c, err := scanComment(scanner)
		if err != nil {
			iter.Close()
			return nil, 0, r.storageError("Failed to scan comment", err, nil)
		}
		all = append(all, *c)
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, r.storageError("Failed to list comments", err, nil)
	}

	comment.SortComments(all, opts.SortField, opts.SortOrder)
	return comment.PageSlice(all, opts), int64(len(all)), nil
}

// ReplyIDs implements comment.Repository
func (r *CommentRepository) ReplyIDs(ctx context.Context, parentID uuid.UUID) ([]uuid.UUID, error) {
	entries, err := r.indexEntries(ctx, `SELECT created_at, comment_id FROM replies_by_parent WHERE parent_id = ?`, parentID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids, nil
}

// indexEntries reads one index partition as comments carrying only ID and
// CreatedAt
func (r *CommentRepository) indexEntries(ctx context.Context, query string, key uuid.UUID) ([]comment.Comment, error) {
	scanner := r.session.Query(query, uuidBytes(key)).WithContext(ctx).Iter().Scanner()

	var entries []comment.Comment
	for scanner.Next() {
		var (
			createdAt time.Time
			raw       []byte
		)
		if err := scanner.Scan(&createdAt, &raw); err != nil {
			return nil, r.storageError("Failed to scan index entry", err, nil)
		}
		id, err := parseUUID(raw)
		if err != nil {
			return nil, r.storageError("Failed to decode comment id", err, nil)
		}
		entries = append(entries, comment.Comment{ID: id, CreatedAt: createdAt.UTC()})
	}
	if err := scanner.Err(); err != nil {
		return nil, r.storageError("Failed to read index", err, map[string]interface{}{"key": key.String()})
	}
	return entries, nil
}

func (r *CommentRepository) list(ctx context.Context, entries []comment.Comment, opts comment.ListOptions, keep func(*comment.Comment) bool) ([]comment.Comment, int64, error) {
	if opts.SortField == comment.SortByUpdatedAt {
		return r.loadAndPage(ctx, entries, opts, keep)
	}
	window := creationWindow(entries, opts)
	found, err := r.load(ctx, window, keep)
	if err != nil {
		return nil, 0, err
	}
	return found, int64(len(entries)), nil
}

// creationWindow orders index entries by creation time and returns the ones
// on the requested page
func creationWindow(entries []comment.Comment, opts comment.ListOptions) []comment.Comment {
	comment.SortComments(entries, comment.SortByCreatedAt, opts.SortOrder)
	return comment.PageSlice(entries, opts)
}

// load fetches the records behind entries in order, skipping ones that are
// gone or no longer match
func (r *CommentRepository) load(ctx context.Context, entries []comment.Comment, keep func(*comment.Comment) bool) ([]comment.Comment, error) {
	out := make([]comment.Comment, 0, len(entries))
	for _, e := range entries {
		c, err := r.FindByID(ctx, e.ID)
		if err != nil {
			if apperrors.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		if keep(c) {
			out = append(out, *c)
		}
	}
	return out, nil
}

// loadAndPage loads every indexed record, then sorts and slices
func (r *CommentRepository) loadAndPage(ctx context.Context, entries []comment.Comment, opts comment.ListOptions, keep func(*comment.Comment) bool) ([]comment.Comment, int64, error) {
	all, err := r.load(ctx, entries, keep)
	if err != nil {
		return nil, 0, err
	}
	comment.SortComments(all, opts.SortField, opts.SortOrder)
	return comment.PageSlice(all, opts), int64(len(all)), nil
}
