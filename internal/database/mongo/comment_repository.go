package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/consensuslabs/pavilion-comments/internal/comment"
	apperrors "github.com/consensuslabs/pavilion-comments/internal/errors"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// commentDocument is the stored shape. Ids are canonical uuid strings, whose
// lexical order matches byte order. Replies carry no video_id.
type commentDocument struct {
	ID        string    `bson:"_id"`
	Content   string    `bson:"content"`
	VideoID   string    `bson:"video_id,omitempty"`
	OwnerID   string    `bson:"owner_id"`
	ParentID  string    `bson:"parent_id,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toDocument(c *comment.Comment) commentDocument {
	doc := commentDocument{
		ID:        c.ID.String(),
		Content:   c.Content,
		OwnerID:   c.OwnerID.String(),
		CreatedAt: c.CreatedAt.UTC(),
		UpdatedAt: c.UpdatedAt.UTC(),
	}
	if c.ParentID != nil {
		doc.ParentID = c.ParentID.String()
	} else {
		doc.VideoID = c.VideoID.String()
	}
	return doc
}

func (d *commentDocument) toComment() (comment.Comment, error) {
	c := comment.Comment{
		Content:   d.Content,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
	var err error
	if c.ID, err = uuid.Parse(d.ID); err != nil {
		return c, err
	}
	if c.OwnerID, err = uuid.Parse(d.OwnerID); err != nil {
		return c, err
	}
	if d.ParentID != "" {
		pid, err := uuid.Parse(d.ParentID)
		if err != nil {
			return c, err
		}
		c.ParentID = &pid
	} else if d.VideoID != "" {
		if c.VideoID, err = uuid.Parse(d.VideoID); err != nil {
			return c, err
		}
	}
	return c, nil
}

// CommentRepository implements comment.Repository on a MongoDB collection
type CommentRepository struct {
	comments *mongodriver.Collection
}

// NewCommentRepository creates a repository over the given collection
func NewCommentRepository(collection *mongodriver.Collection) *CommentRepository {
	return &CommentRepository{comments: collection}
}

func notFound(id uuid.UUID) error {
	return apperrors.NewNotFoundError("comment", id.String())
}

func byID(id uuid.UUID) bson.D {
	return bson.D{{Key: "_id", Value: id.String()}}
}

// Insert implements comment.Repository
func (r *CommentRepository) Insert(ctx context.Context, c *comment.Comment) error {
	if _, err := r.comments.InsertOne(ctx, toDocument(c)); err != nil {
		return apperrors.NewStorageError("failed to insert comment", err)
	}
	return nil
}

// FindByID implements comment.Repository
func (r *CommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*comment.Comment, error) {
	var doc commentDocument
	if err := r.comments.FindOne(ctx, byID(id)).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, notFound(id)
		}
		return nil, apperrors.NewStorageError("failed to load comment", err)
	}
	c, err := doc.toComment()
	if err != nil {
		return nil, apperrors.NewStorageError("failed to decode comment", err)
	}
	return &c, nil
}

// UpdateContent implements comment.Repository
func (r *CommentRepository) UpdateContent(ctx context.Context, id uuid.UUID, content string, updatedAt time.Time) error {
	res, err := r.comments.UpdateOne(ctx, byID(id), bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "content", Value: content},
			{Key: "updated_at", Value: updatedAt.UTC()},
		}},
	})
	if err != nil {
		return apperrors.NewStorageError("failed to update comment", err)
	}
	if res.MatchedCount == 0 {
		return notFound(id)
	}
	return nil
}

// Delete implements comment.Repository
func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.comments.DeleteOne(ctx, byID(id))
	if err != nil {
		return apperrors.NewStorageError("failed to delete comment", err)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

// ListTopLevel implements comment.Repository
func (r *CommentRepository) ListTopLevel(ctx context.Context, videoID uuid.UUID, opts comment.ListOptions) ([]comment.Comment, int64, error) {
	return r.list(ctx, bson.D{
		{Key: "video_id", Value: videoID.String()},
		{Key: "parent_id", Value: bson.D{{Key: "$exists", Value: false}}},
	}, opts)
}

// ListReplies implements comment.Repository
func (r *CommentRepository) ListReplies(ctx context.Context, parentID uuid.UUID, opts comment.ListOptions) ([]comment.Comment, int64, error) {
	return r.list(ctx, bson.D{{Key: "parent_id", Value: parentID.String()}}, opts)
}

// ListAll implements comment.Repository
func (r *CommentRepository) ListAll(ctx context.Context, opts comment.ListOptions) ([]comment.Comment, int64, error) {
	return r.list(ctx, bson.D{}, opts)
}

func (r *CommentRepository) list(ctx context.Context, filter bson.D, opts comment.ListOptions) ([]comment.Comment, int64, error) {
	total, err := r.comments.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.NewStorageError("failed to count comments", err)
	}

	findOpts := options.Find().
		SetSort(sortSpec(opts)).
		SetSkip(int64(opts.Offset())).
		SetLimit(int64(opts.PageSize))

	cur, err := r.comments.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, apperrors.NewStorageError("failed to list comments", err)
	}
	defer cur.Close(ctx)

	var docs []commentDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, apperrors.NewStorageError("failed to read comments", err)
	}

	out := make([]comment.Comment, 0, len(docs))
	for i := range docs {
		c, err := docs[i].toComment()
		if err != nil {
			return nil, 0, apperrors.NewStorageError("failed to decode comment", err)
		}
		out = append(out, c)
	}
	return out, total, nil
}

// sortSpec orders by the requested timestamp with _id as the tie breaker
func sortSpec(opts comment.ListOptions) bson.D {
	field := "created_at"
	if opts.SortField == comment.SortByUpdatedAt {
		field = "updated_at"
	}
	dir := -1
	if opts.SortOrder == comment.SortAsc {
		dir = 1
	}
	return bson.D{{Key: field, Value: dir}, {Key: "_id", Value: dir}}
}

// ReplyIDs implements comment.Repository
func (r *CommentRepository) ReplyIDs(ctx context.Context, parentID uuid.UUID) ([]uuid.UUID, error) {
	cur, err := r.comments.Find(ctx,
		bson.D{{Key: "parent_id", Value: parentID.String()}},
		options.Find().SetProjection(bson.D{{Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to list reply ids", err)
	}
	defer cur.Close(ctx)

	var ids []uuid.UUID
	for cur.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, apperrors.NewStorageError("failed to decode reply id", err)
		}
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			return nil, apperrors.NewStorageError("failed to decode reply id", err)
		}
		ids = append(ids, id)
	}
	if err := cur.Err(); err != nil {
		return nil, apperrors.NewStorageError("failed to list reply ids", err)
	}
	return ids, nil
}
