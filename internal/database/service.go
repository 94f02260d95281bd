package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/consensuslabs/pavilion-comments/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DatabaseService implements the Service interface
type DatabaseService struct {
	config *config.DatabaseConfig
	logger Logger
	db     *gorm.DB
}

// NewDatabaseService creates a new database service instance
func NewDatabaseService(config *config.DatabaseConfig, logger Logger) *DatabaseService {
	return &DatabaseService{
		config: config,
		logger: logger.WithFields(map[string]interface{}{"component": "database"}),
	}
}

// DSN builds the postgres connection string from configuration
func DSN(cfg *config.DatabaseConfig) string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		cfg.Host,
		cfg.User,
		cfg.Password,
		cfg.Dbname,
		cfg.Port,
		cfg.Sslmode,
		cfg.Timezone,
	)
}

// Connect establishes a connection to the database
func (s *DatabaseService) Connect() (*gorm.DB, error) {
	s.logger.LogInfo("Connecting to database", map[string]interface{}{
		"host":   s.config.Host,
		"dbname": s.config.Dbname,
		"port":   s.config.Port,
	})

	gormConfig := &gorm.Config{
		PrepareStmt: true,
		Logger:      NewGormLogger(s.logger, s.config.SlowQueryThreshold),
	}

	db, err := gorm.Open(postgres.Open(DSN(s.config)), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	if s.config.Pool.MaxOpen > 0 {
		sqlDB.SetMaxOpenConns(s.config.Pool.MaxOpen)
	}
	if s.config.Pool.MaxIdle > 0 {
		sqlDB.SetMaxIdleConns(s.config.Pool.MaxIdle)
	}

	s.db = db
	s.logger.LogInfo("Connected to database", nil)
	return db, nil
}

// Migrate creates or updates the tables of the given models
func (s *DatabaseService) Migrate(models ...interface{}) error {
	if s.db == nil {
		return errors.New("database is not connected")
	}
	if err := s.db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	s.logger.LogInfo("Auto-migration completed successfully", map[string]interface{}{
		"models": len(models),
	})
	return nil
}

// Ping checks that the database answers
func (s *DatabaseService) Ping(ctx context.Context) error {
	if s.db == nil {
		return errors.New("database is not connected")
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (s *DatabaseService) Close() error {
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err != nil {
			return fmt.Errorf("failed to get database instance: %w", err)
		}
		if err := sqlDB.Close(); err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}
	return nil
}
