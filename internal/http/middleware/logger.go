package middleware

import (
	"fmt"
	"time"

	"github.com/consensuslabs/pavilion-comments/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request id in and out of the service
const RequestIDHeader = "X-Request-ID"

// RequestLoggerMiddleware creates a middleware for logging HTTP requests.
// An incoming X-Request-ID is reused; otherwise one is generated.
func RequestLoggerMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), requestID))
		start := time.Now()

		contextLogger := log.WithRequestID(requestID)
		c.Set(LoggerKey, contextLogger)

		c.Next()

		statusCode := c.Writer.Status()
		fields := map[string]interface{}{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"route":     c.FullPath(),
			"status":    statusCode,
			"latency":   time.Since(start).String(),
			"clientIP":  c.ClientIP(),
			"userAgent": c.Request.UserAgent(),
		}

		if userID, exists := c.Get("userID"); exists {
			fields["userID"] = fmt.Sprint(userID)
		}

		switch {
		case statusCode >= 500:
			contextLogger.WithFields(fields).LogError(fmt.Errorf("status %d", statusCode), "Server error processing request")
		case statusCode >= 400:
			contextLogger.LogWarn("Client error processing request", fields)
		default:
			contextLogger.LogInfo("Request completed", fields)
		}
	}
}
