package scylladb

import (
	"fmt"

	"github.com/gocql/gocql"
)

// SchemaManager handles ScyllaDB schema creation
type SchemaManager struct {
	session *gocql.Session
	config  Config
	logger  Logger
}

// NewSchemaManager creates a new schema manager
func NewSchemaManager(session *gocql.Session, config Config, logger Logger) *SchemaManager {
	return &SchemaManager{
		session: session,
		config:  config,
		logger:  logger,
	}
}

// CreateKeyspaceIfNotExists creates the keyspace if it doesn't exist
func (m *SchemaManager) CreateKeyspaceIfNotExists() error {
	query := fmt.Sprintf(`
		CREATE KEYSPACE IF NOT EXISTS %s
		WITH REPLICATION = {
			'class': '%s',
			'replication_factor': %d
		}
	`, m.config.Keyspace, m.config.Replication.Class, m.config.Replication.ReplicationFactor)

	return m.session.Query(query).Exec()
}

// Tables maps each table of the comment system to its definition. The
// comments table is the source of truth; the other two are lookup indexes
// written in the same logged batch.
var Tables = []struct {
	Name string
	CQL  string
}{
	{
		Name: "comments",
		CQL: `
	CREATE TABLE IF NOT EXISTS comments (
		id uuid PRIMARY KEY,
		video_id uuid,
		owner_id uuid,
		parent_id uuid,
		content text,
		created_at timestamp,
		updated_at timestamp
	)`,
	},
	{
		Name: "comments_by_video",
		CQL: `
	CREATE TABLE IF NOT EXISTS comments_by_video (
		video_id uuid,
		created_at timestamp,
		comment_id uuid,
		PRIMARY KEY (video_id, created_at, comment_id)
	) WITH CLUSTERING ORDER BY (created_at DESC, comment_id DESC)`,
	},
	{
		Name: "replies_by_parent",
		CQL: `
	CREATE TABLE IF NOT EXISTS replies_by_parent (
		parent_id uuid,
		created_at timestamp,
		comment_id uuid,
		PRIMARY KEY (parent_id, created_at, comment_id)
	) WITH CLUSTERING ORDER BY (created_at ASC, comment_id ASC)`,
	},
}

// InitializeSchema creates all tables needed for the comment system
func (m *SchemaManager) InitializeSchema() error {
	m.logger.LogInfo("Beginning schema initialization", map[string]interface{}{
		"keyspace": m.config.Keyspace,
	})

	for _, table := range Tables {
		if err := m.session.Query(table.CQL).Exec(); err != nil {
			m.logger.LogError("Failed to create table", map[string]interface{}{
				"table": table.Name,
				"error": err.Error(),
			})
			return fmt.Errorf("create table %s: %w", table.Name, err)
		}
		m.logger.LogInfo("Table ready", map[string]interface{}{"table": table.Name})
	}

	m.logger.LogInfo("Schema initialization completed successfully", map[string]interface{}{
		"keyspace": m.config.Keyspace,
	})
	return nil
}
