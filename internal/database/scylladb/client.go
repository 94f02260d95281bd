// Package scylladb stores comments in ScyllaDB through gocql.
package scylladb

import (
	"context"
	"errors"
	"strings"

	"github.com/gocql/gocql"
)

// Client manages connections to ScyllaDB
type Client struct {
	config  Config
	session *gocql.Session
	logger  Logger
}

// NewClient creates a new ScyllaDB client
func NewClient(config Config, logger Logger) *Client {
	return &Client{
		config: config,
		logger: logger,
	}
}

func (c *Client) cluster() *gocql.ClusterConfig {
	cluster := gocql.NewCluster(c.config.Hosts...)
	if c.config.Port > 0 {
		cluster.Port = c.config.Port
	}
	cluster.Consistency = getConsistencyLevel(c.config.Consistency)
	if c.config.Username != "" && c.config.Password != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: c.config.Username,
			Password: c.config.Password,
		}
	}
	if c.config.Timeout > 0 {
		cluster.Timeout = c.config.Timeout
	}
	if c.config.ConnectTimeout > 0 {
		cluster.ConnectTimeout = c.config.ConnectTimeout
	}
	return cluster
}

// Connect opens a session bound to the configured keyspace
func (c *Client) Connect() error {
	c.logger.LogInfo("Attempting to connect to ScyllaDB", map[string]interface{}{
		"hosts":        c.config.Hosts,
		"port":         c.config.Port,
		"keyspace":     c.config.Keyspace,
		"auth_enabled": c.config.Username != "" && c.config.Password != "",
		"consistency":  c.config.Consistency,
	})

	cluster := c.cluster()
	cluster.Keyspace = c.config.Keyspace
	session, err := cluster.CreateSession()
	if err != nil {
		c.logger.LogError("Failed to connect to ScyllaDB", map[string]interface{}{
			"error":    err.Error(),
			"hosts":    c.config.Hosts,
			"keyspace": c.config.Keyspace,
		})
		return err
	}
	c.session = session

	c.logger.LogInfo("Connected to ScyllaDB", map[string]interface{}{
		"hosts":    c.config.Hosts,
		"keyspace": c.config.Keyspace,
	})
	return nil
}

// Migrate creates the keyspace and tables. It uses a keyspace-less session
// for the keyspace itself, then connects normally.
func (c *Client) Migrate() error {
	bootstrap, err := c.cluster().CreateSession()
	if err != nil {
		return err
	}
	c.logger.LogInfo("Creating keyspace if it doesn't exist", map[string]interface{}{
		"keyspace":           c.config.Keyspace,
		"replication_class":  c.config.Replication.Class,
		"replication_factor": c.config.Replication.ReplicationFactor,
	})
	err = NewSchemaManager(bootstrap, c.config, c.logger).CreateKeyspaceIfNotExists()
	bootstrap.Close()
	if err != nil {
		c.logger.LogError("Failed to create keyspace", map[string]interface{}{
			"error":    err.Error(),
			"keyspace": c.config.Keyspace,
		})
		return err
	}

	if c.session == nil {
		if err := c.Connect(); err != nil {
			return err
		}
	}
	return NewSchemaManager(c.session, c.config, c.logger).InitializeSchema()
}

// Close closes the connection to the ScyllaDB cluster
func (c *Client) Close() error {
	if c.session != nil {
		c.session.Close()
		c.logger.LogInfo("Closed connection to ScyllaDB", nil)
	}
	return nil
}

// Session returns the current database session
func (c *Client) Session() *gocql.Session {
	return c.session
}

// Ping checks if the connection is alive
func (c *Client) Ping(ctx context.Context) error {
	if c.session == nil {
		return errors.New("session is not established")
	}
	var version string
	return c.session.Query("SELECT release_version FROM system.local").WithContext(ctx).Scan(&version)
}

// getConsistencyLevel converts string consistency level to gocql.Consistency
func getConsistencyLevel(level string) gocql.Consistency {
	switch strings.ToLower(level) {
	case "one":
		return gocql.One
	case "local_one":
		return gocql.LocalOne
	case "all":
		return gocql.All
	case "local_quorum":
		return gocql.LocalQuorum
	case "each_quorum":
		return gocql.EachQuorum
	default:
		return gocql.Quorum
	}
}
