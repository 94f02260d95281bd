package middleware

import (
	"github.com/consensuslabs/pavilion-comments/internal/logger"
	"github.com/gin-gonic/gin"
)

// LoggerKey is the gin context key holding the request-scoped logger
const LoggerKey = "logger"

// GetLogger retrieves the logger from the gin context. Requests that did not
// pass through RequestLoggerMiddleware get a no-op logger.
func GetLogger(c *gin.Context) logger.Logger {
	if log, exists := c.Get(LoggerKey); exists {
		if contextLogger, ok := log.(logger.Logger); ok {
			return contextLogger
		}
	}
	return logger.NewNopLogger()
}
