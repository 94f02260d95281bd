package config

import (
	"time"
)

// Comment storage backends
const (
	BackendPostgres = "postgres"
	BackendScyllaDB = "scylladb"
	BackendMongo    = "mongo"
	BackendMemory   = "memory"
)

// Config represents the application configuration
type Config struct {
	Environment  string             `mapstructure:"environment" yaml:"environment"`
	Server       ServerConfig       `mapstructure:"server" yaml:"server"`
	Database     DatabaseConfig     `mapstructure:"database" yaml:"database"`
	ScyllaDB     ScyllaDBConfig     `mapstructure:"scylladb" yaml:"scylladb"`
	Mongo        MongoConfig        `mapstructure:"mongo" yaml:"mongo"`
	Redis        RedisConfig        `mapstructure:"redis" yaml:"redis"`
	Auth         AuthConfig         `mapstructure:"auth" yaml:"auth"`
	Comments     CommentsConfig     `mapstructure:"comments" yaml:"comments"`
	Identity     IdentityConfig     `mapstructure:"identity" yaml:"identity"`
	Pulsar       PulsarConfig       `mapstructure:"pulsar" yaml:"pulsar"`
	Notification NotificationConfig `mapstructure:"notification" yaml:"notification"`
	Logging      LoggingConfig      `mapstructure:"logging" yaml:"logging"`
	Metrics      MetricsConfig      `mapstructure:"metrics" yaml:"metrics"`
}

// AuthConfig represents authentication configuration settings
type AuthConfig struct {
	JWT struct {
		Secret string `mapstructure:"secret"`
		Issuer string `mapstructure:"issuer"`
	} `mapstructure:"jwt"`
}

// ServerConfig represents server configuration settings
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"readTimeout"`
	WriteTimeout    time.Duration `mapstructure:"writeTimeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
	AllowedOrigins  []string      `mapstructure:"allowedOrigins"`
}

// DatabaseConfig represents database configuration settings
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Dbname   string `mapstructure:"dbname"`
	Port     int    `mapstructure:"port"`
	Sslmode  string `mapstructure:"sslmode"`
	Timezone string `mapstructure:"timezone"`
	Pool     struct {
		MaxOpen int `mapstructure:"maxOpen"`
		MaxIdle int `mapstructure:"maxIdle"`
	} `mapstructure:"pool"`
	SlowQueryThreshold time.Duration `mapstructure:"slowQueryThreshold"`
}

// RedisConfig represents Redis configuration settings
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ScyllaDBConfig represents ScyllaDB configuration settings
type ScyllaDBConfig struct {
	Hosts       []string `mapstructure:"hosts" yaml:"hosts"`
	Port        int      `mapstructure:"port" yaml:"port"`
	Keyspace    string   `mapstructure:"keyspace" yaml:"keyspace"`
	Username    string   `mapstructure:"username" yaml:"username"`
	Password    string   `mapstructure:"password" yaml:"password"`
	Consistency string   `mapstructure:"consistency" yaml:"consistency"`
	Replication struct {
		Class             string `mapstructure:"class" yaml:"class"`
		ReplicationFactor int    `mapstructure:"replicationFactor" yaml:"replicationFactor"`
	} `mapstructure:"replication" yaml:"replication"`
	Timeout        time.Duration `mapstructure:"timeout" yaml:"timeout"`
	ConnectTimeout time.Duration `mapstructure:"connectTimeout" yaml:"connectTimeout"`
}

// MongoConfig represents MongoDB configuration settings
type MongoConfig struct {
	URI            string        `mapstructure:"uri" yaml:"uri"`
	Collection     string        `mapstructure:"collection" yaml:"collection"`
	ConnectTimeout time.Duration `mapstructure:"connectTimeout" yaml:"connectTimeout"`
}

// CommentsConfig configures the comment engine
type CommentsConfig struct {
	Backend          string `mapstructure:"backend" yaml:"backend"`
	MaxContentLength int    `mapstructure:"maxContentLength" yaml:"maxContentLength"`
	DefaultPageSize  int    `mapstructure:"defaultPageSize" yaml:"defaultPageSize"`
	MaxPageSize      int    `mapstructure:"maxPageSize" yaml:"maxPageSize"`
}

// IdentityConfig configures owner profile lookups
type IdentityConfig struct {
	Cache struct {
		Size     int           `mapstructure:"size" yaml:"size"`
		LocalTTL time.Duration `mapstructure:"localTTL" yaml:"localTTL"`
		RedisTTL time.Duration `mapstructure:"redisTTL" yaml:"redisTTL"`
	} `mapstructure:"cache" yaml:"cache"`
}

// PulsarConfig represents Apache Pulsar configuration settings
type PulsarConfig struct {
	URL               string        `mapstructure:"url" yaml:"url"`
	OperationTimeout  time.Duration `mapstructure:"operation_timeout" yaml:"operation_timeout"`
	ConnectionTimeout time.Duration `mapstructure:"connection_timeout" yaml:"connection_timeout"`
	AuthToken         string        `mapstructure:"auth_token" yaml:"auth_token"`
}

// NotificationConfig represents comment event publishing settings
type NotificationConfig struct {
	Enabled            bool   `mapstructure:"enabled" yaml:"enabled"`
	CommentEventsTopic string `mapstructure:"comment_events_topic" yaml:"comment_events_topic"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	Output      string `mapstructure:"output" yaml:"output"`
	Development bool   `mapstructure:"development" yaml:"development"`

	File struct {
		Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
		Path    string `mapstructure:"path" yaml:"path"`
	} `mapstructure:"file" yaml:"file"`

	Sampling struct {
		Initial    int `mapstructure:"initial" yaml:"initial"`
		Thereafter int `mapstructure:"thereafter" yaml:"thereafter"`
	} `mapstructure:"sampling" yaml:"sampling"`
}

// MetricsConfig controls the prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}
