package scylladb

import (
	"errors"

	"github.com/consensuslabs/pavilion-comments/internal/logger"
)

// Logger is the narrow logging surface used inside this package
type Logger interface {
	LogInfo(message string, fields map[string]interface{})
	LogError(message string, fields map[string]interface{})
}

// LoggerAdapter adapts the application logger to the ScyllaDB package requirements
type LoggerAdapter struct {
	logger logger.Logger
}

// NewLoggerAdapter creates a new logger adapter
func NewLoggerAdapter(log logger.Logger) *LoggerAdapter {
	return &LoggerAdapter{
		logger: log.WithFields(map[string]interface{}{"component": "scylladb"}),
	}
}

// LogInfo logs informational messages
func (l *LoggerAdapter) LogInfo(message string, fields map[string]interface{}) {
	l.logger.LogInfo(message, fields)
}

// LogError logs error messages. An "error" field becomes the logged error.
func (l *LoggerAdapter) LogError(message string, fields map[string]interface{}) {
	var err error
	if text, ok := fields["error"].(string); ok {
		err = errors.New(text)
	}
	l.logger.WithFields(fields).LogError(err, message)
}
