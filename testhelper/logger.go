package testhelper

import (
	"fmt"
	"sync"

	"github.com/consensuslabs/pavilion-comments/internal/logger"
)

// LogEntry represents a log entry with its message and fields
type LogEntry struct {
	Message string
	Fields  map[string]interface{}
}

// journal is shared by a TestLogger and every child derived from it, so
// entries written through WithFields/WithRequestID stay visible to the root.
type journal struct {
	mu           sync.RWMutex
	info         []LogEntry
	errors       []LogEntry
	warn         []LogEntry
	debug        []LogEntry
	debugEnabled bool
}

// TestLogger is a logger.Logger that records entries for assertions
type TestLogger struct {
	journal *journal
	fields  map[string]interface{}
}

var _ logger.Logger = (*TestLogger)(nil)

// NewTestLogger creates a new test logger instance
func NewTestLogger(debugEnabled bool) *TestLogger {
	return &TestLogger{
		journal: &journal{debugEnabled: debugEnabled},
		fields:  make(map[string]interface{}),
	}
}

// LogInfo implements logger.Logger
func (t *TestLogger) LogInfo(msg string, fields map[string]interface{}) {
	t.journal.mu.Lock()
	defer t.journal.mu.Unlock()
	t.journal.info = append(t.journal.info, LogEntry{Message: msg, Fields: t.mergeFields(fields)})
}

// LogError implements logger.Logger
func (t *TestLogger) LogError(err error, msg string) error {
	fields := map[string]interface{}{}
	if err != nil {
		fields["error"] = err.Error()
	}

	t.journal.mu.Lock()
	defer t.journal.mu.Unlock()
	t.journal.errors = append(t.journal.errors, LogEntry{Message: msg, Fields: t.mergeFields(fields)})
	return err
}

// LogErrorf implements logger.Logger
func (t *TestLogger) LogErrorf(err error, format string, args ...interface{}) error {
	return t.LogError(err, fmt.Sprintf(format, args...))
}

// LogFatal records the entry as an error; tests never exit.
func (t *TestLogger) LogFatal(err error, context string) {
	t.LogError(err, "FATAL: "+context)
}

// LogDebug implements logger.Logger
func (t *TestLogger) LogDebug(message string, fields map[string]interface{}) {
	t.journal.mu.Lock()
	defer t.journal.mu.Unlock()
	if !t.journal.debugEnabled {
		return
	}
	t.journal.debug = append(t.journal.debug, LogEntry{Message: message, Fields: t.mergeFields(fields)})
}

// LogWarn implements logger.Logger
func (t *TestLogger) LogWarn(message string, fields map[string]interface{}) {
	t.journal.mu.Lock()
	defer t.journal.mu.Unlock()
	t.journal.warn = append(t.journal.warn, LogEntry{Message: message, Fields: t.mergeFields(fields)})
}

// WithFields implements logger.Logger
func (t *TestLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return &TestLogger{
		journal: t.journal,
		fields:  t.mergeFields(fields),
	}
}

// WithRequestID implements logger.Logger
func (t *TestLogger) WithRequestID(requestID string) logger.Logger {
	return t.WithFields(map[string]interface{}{
		"requestID": requestID,
	})
}

// WithUserID implements logger.Logger
func (t *TestLogger) WithUserID(userID string) logger.Logger {
	return t.WithFields(map[string]interface{}{
		"userID": userID,
	})
}

// GetInfoMessages returns all info level messages
func (t *TestLogger) GetInfoMessages() []LogEntry {
	t.journal.mu.RLock()
	defer t.journal.mu.RUnlock()
	return append([]LogEntry(nil), t.journal.info...)
}

// GetErrorMessages returns all error level messages
func (t *TestLogger) GetErrorMessages() []LogEntry {
	t.journal.mu.RLock()
	defer t.journal.mu.RUnlock()
	return append([]LogEntry(nil), t.journal.errors...)
}

// GetWarnMessages returns all warning level messages
func (t *TestLogger) GetWarnMessages() []LogEntry {
	t.journal.mu.RLock()
	defer t.journal.mu.RUnlock()
	return append([]LogEntry(nil), t.journal.warn...)
}

// GetDebugMessages returns all debug level messages
func (t *TestLogger) GetDebugMessages() []LogEntry {
	t.journal.mu.RLock()
	defer t.journal.mu.RUnlock()
	return append([]LogEntry(nil), t.journal.debug...)
}

// ClearMessages clears all logged messages
func (t *TestLogger) ClearMessages() {
	t.journal.mu.Lock()
	defer t.journal.mu.Unlock()
	t.journal.info = nil
	t.journal.errors = nil
	t.journal.warn = nil
	t.journal.debug = nil
}

// EnableDebug enables debug logging
func (t *TestLogger) EnableDebug() {
	t.journal.mu.Lock()
	defer t.journal.mu.Unlock()
	t.journal.debugEnabled = true
}

// DisableDebug disables debug logging
func (t *TestLogger) DisableDebug() {
	t.journal.mu.Lock()
	defer t.journal.mu.Unlock()
	t.journal.debugEnabled = false
}

func (t *TestLogger) mergeFields(fields map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(t.fields)+len(fields))
	for k, v := range t.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return merged
}
