package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/consensuslabs/pavilion-comments/internal/logger"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DefaultSlowQueryThreshold applies when none is configured
const DefaultSlowQueryThreshold = 200 * time.Millisecond

// GormLogger implements GORM's logger.Interface on top of our logger
type GormLogger struct {
	logger     Logger
	slowQuery  time.Duration
	skipErrors []error
}

// NewGormLogger creates a new GORM logger instance
func NewGormLogger(log Logger, slowQuery time.Duration) gormlogger.Interface {
	if slowQuery <= 0 {
		slowQuery = DefaultSlowQueryThreshold
	}
	return &GormLogger{
		logger:    log,
		slowQuery: slowQuery,
		skipErrors: []error{
			gorm.ErrRecordNotFound,
		},
	}
}

// LogMode implements GORM's logger.Interface. Levels are decided by the
// underlying logger.
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	return l
}

// Info implements GORM's logger.Interface
func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	l.logger.LogInfo(fmt.Sprintf(msg, data...), l.fields(ctx))
}

// Warn implements GORM's logger.Interface
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	l.logger.LogWarn(fmt.Sprintf(msg, data...), l.fields(ctx))
}

// Error implements GORM's logger.Interface
func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	l.logger.WithFields(l.fields(ctx)).LogError(fmt.Errorf(msg, data...), "GORM error")
}

// Trace implements GORM's logger.Interface
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	fields := l.fields(ctx)
	fields["duration"] = elapsed.String()
	fields["rows_affected"] = rows
	fields["sql"] = sql

	if err != nil {
		for _, skipErr := range l.skipErrors {
			if errors.Is(err, skipErr) {
				l.logger.LogDebug("SQL query", fields)
				return
			}
		}

		fields["error"] = err.Error()
		l.logger.WithFields(fields).LogError(err, "SQL error")
		return
	}

	if elapsed > l.slowQuery {
		l.logger.LogWarn("SLOW SQL >= "+l.slowQuery.String(), fields)
		return
	}

	l.logger.LogDebug("SQL query", fields)
}

func (l *GormLogger) fields(ctx context.Context) map[string]interface{} {
	fields := map[string]interface{}{"source": "gorm"}
	if requestID, ok := logger.RequestIDFromContext(ctx); ok {
		fields["requestID"] = requestID
	}
	return fields
}
