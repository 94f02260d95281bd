package database

import (
	"context"

	"github.com/consensuslabs/pavilion-comments/internal/logger"
	"gorm.io/gorm"
)

// Service defines the interface for database operations
type Service interface {
	Connect() (*gorm.DB, error)
	Migrate(models ...interface{}) error
	Ping(ctx context.Context) error
	Close() error
}

// Logger interface for logging operations
type Logger = logger.Logger
