// Package mongo stores comments as documents in MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/consensuslabs/pavilion-comments/internal/config"
	"github.com/consensuslabs/pavilion-comments/internal/logger"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	defaultCollection     = "comments"
	defaultDBName         = "pavilion"
	defaultConnectTimeout = 10 * time.Second
)

// Mongo holds the client and the comments collection
type Mongo struct {
	client   *mongodriver.Client
	comments *mongodriver.Collection
	logger   logger.Logger
}

// New connects to MongoDB, verifies the connection and ensures indexes
func New(ctx context.Context, cfg config.MongoConfig, log logger.Logger) (*Mongo, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongo: empty uri")
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cli, err := mongodriver.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := cli.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	collection := cfg.Collection
	if collection == "" {
		collection = defaultCollection
	}
	dbName := databaseFromURI(cfg.URI)

	m := &Mongo{
		client:   cli,
		comments: cli.Database(dbName).Collection(collection),
		logger:   log.WithFields(map[string]interface{}{"component": "mongo"}),
	}
	if err := m.ensureIndexes(connectCtx); err != nil {
		_ = m.Close(context.Background())
		return nil, err
	}

	m.logger.LogInfo("Connected to MongoDB", map[string]interface{}{
		"database":   dbName,
		"collection": collection,
	})
	return m, nil
}

// Comments returns the comment repository over this connection
func (m *Mongo) Comments() *CommentRepository {
	return NewCommentRepository(m.comments)
}

// Ping checks that the primary answers
func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// ensureIndexes creates the indexes listings rely on:
//   - top-level comments of a video: video_id + created_at(desc)
//   - replies of a comment: parent_id + created_at(asc)
func (m *Mongo) ensureIndexes(ctx context.Context) error {
	models := []mongodriver.IndexModel{
		{
			Keys:    bson.D{{Key: "video_id", Value: 1}, {Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("video_created_desc"),
		},
		{
			Keys:    bson.D{{Key: "parent_id", Value: 1}, {Key: "created_at", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("parent_created_asc"),
		},
	}

	if _, err := m.comments.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("mongo ensure indexes: %w", err)
	}
	return nil
}

// databaseFromURI extracts the database name from the URI path, falling back
// to the default
func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}
	return defaultDBName
}
