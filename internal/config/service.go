package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ConfigService implements the Service interface
type ConfigService struct {
	logger Logger
}

// NewConfigService creates a new configuration service
func NewConfigService(logger Logger) *ConfigService {
	return &ConfigService{
		logger: logger,
	}
}

// Load loads the configuration from the specified path. Environment variables
// override file values, with dots in keys replaced by underscores
// (COMMENTS_BACKEND overrides comments.backend).
func (s *ConfigService) Load(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	if os.Getenv("ENV") == "test" {
		v.SetConfigName("config_test")
	} else {
		v.SetConfigName("config")
	}
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %v", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %v", err)
	}

	s.logger.LogInfo("Configuration loaded successfully", map[string]interface{}{
		"environment": config.Environment,
		"backend":     config.Comments.Backend,
	})
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 15*time.Second)
	v.SetDefault("server.writeTimeout", 15*time.Second)
	v.SetDefault("server.shutdownTimeout", 10*time.Second)
	v.SetDefault("server.allowedOrigins", []string{"*"})
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.timezone", "UTC")
	v.SetDefault("database.pool.maxOpen", 100)
	v.SetDefault("database.pool.maxIdle", 10)
	v.SetDefault("database.slowQueryThreshold", 200*time.Millisecond)
	v.SetDefault("scylladb.hosts", []string{"localhost"})
	v.SetDefault("scylladb.port", 9042)
	v.SetDefault("scylladb.keyspace", "pavilion")
	v.SetDefault("scylladb.consistency", "QUORUM")
	v.SetDefault("scylladb.replication.class", "SimpleStrategy")
	v.SetDefault("scylladb.replication.replicationFactor", 1)
	v.SetDefault("scylladb.timeout", 5*time.Second)
	v.SetDefault("scylladb.connectTimeout", 10*time.Second)
	v.SetDefault("mongo.uri", "mongodb://localhost:27017/pavilion")
	v.SetDefault("mongo.collection", "comments")
	v.SetDefault("mongo.connectTimeout", 10*time.Second)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("auth.jwt.issuer", "pavilion")
	v.SetDefault("comments.backend", BackendPostgres)
	v.SetDefault("comments.maxContentLength", 5000)
	v.SetDefault("comments.defaultPageSize", 10)
	v.SetDefault("comments.maxPageSize", 100)
	v.SetDefault("identity.cache.size", 10000)
	v.SetDefault("identity.cache.localTTL", time.Minute)
	v.SetDefault("identity.cache.redisTTL", 15*time.Minute)
	v.SetDefault("pulsar.url", "pulsar://localhost:6650")
	v.SetDefault("pulsar.operation_timeout", 30*time.Second)
	v.SetDefault("pulsar.connection_timeout", 30*time.Second)
	v.SetDefault("notification.enabled", false)
	v.SetDefault("notification.comment_events_topic", "persistent://public/default/comment-events")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// validate performs validation on the configuration
func validate(config *Config) error {
	if config.Server.Port <= 0 {
		return fmt.Errorf("invalid server port")
	}

	if config.Auth.JWT.Secret == "" {
		return fmt.Errorf("auth.jwt.secret is required")
	}

	switch config.Comments.Backend {
	case BackendPostgres, BackendMemory:
	case BackendScyllaDB:
		if len(config.ScyllaDB.Hosts) == 0 || config.ScyllaDB.Keyspace == "" {
			return fmt.Errorf("scylladb hosts and keyspace are required")
		}
	case BackendMongo:
		if config.Mongo.URI == "" {
			return fmt.Errorf("mongo uri is required")
		}
	default:
		return fmt.Errorf("unknown comments backend %q", config.Comments.Backend)
	}

	// identity and video lookups always go through postgres
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if config.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if config.Database.Dbname == "" {
		return fmt.Errorf("database name is required")
	}
	if config.Database.Port <= 0 {
		return fmt.Errorf("invalid database port")
	}

	if config.Comments.MaxContentLength <= 0 {
		return fmt.Errorf("comments.maxContentLength must be positive")
	}
	if config.Comments.MaxPageSize <= 0 || config.Comments.DefaultPageSize <= 0 ||
		config.Comments.DefaultPageSize > config.Comments.MaxPageSize {
		return fmt.Errorf("comments page sizes must satisfy 0 < defaultPageSize <= maxPageSize")
	}

	return nil
}
