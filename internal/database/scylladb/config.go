package scylladb

import (
	"time"

	"github.com/consensuslabs/pavilion-comments/internal/config"
)

// Config holds the configuration for ScyllaDB
type Config struct {
	Hosts          []string      `mapstructure:"hosts"`
	Port           int           `mapstructure:"port"`
	Keyspace       string        `mapstructure:"keyspace"`
	Username       string        `mapstructure:"username"`
	Password       string        `mapstructure:"password"`
	Consistency    string        `mapstructure:"consistency"`
	Replication    Replication   `mapstructure:"replication"`
	Timeout        time.Duration `mapstructure:"timeout"`
	ConnectTimeout time.Duration `mapstructure:"connectTimeout"`
}

// Replication config for ScyllaDB
type Replication struct {
	Class             string `mapstructure:"class"`
	ReplicationFactor int    `mapstructure:"replicationFactor"`
}

// ConfigFrom converts the application settings into a client Config
func ConfigFrom(cfg config.ScyllaDBConfig) Config {
	return Config{
		Hosts:       cfg.Hosts,
		Port:        cfg.Port,
		Keyspace:    cfg.Keyspace,
		Username:    cfg.Username,
		Password:    cfg.Password,
		Consistency: cfg.Consistency,
		Replication: Replication{
			Class:             cfg.Replication.Class,
			ReplicationFactor: cfg.Replication.ReplicationFactor,
		},
		Timeout:        cfg.Timeout,
		ConnectTimeout: cfg.ConnectTimeout,
	}
}
