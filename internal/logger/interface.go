package logger

// Logger defines the interface for logging operations
type Logger interface {
	LogInfo(msg string, fields map[string]interface{})
	LogError(err error, msg string) error
	LogErrorf(err error, format string, args ...interface{}) error
	LogFatal(err error, context string)
	LogDebug(message string, fields map[string]interface{})
	LogWarn(message string, fields map[string]interface{})

	// WithFields returns a child logger that attaches fields to every entry
	WithFields(fields map[string]interface{}) Logger
	WithRequestID(requestID string) Logger
	WithUserID(userID string) Logger
}
