package logger

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// zapLogger carries its scoped fields on the zap.Logger itself
type zapLogger struct {
	base *zap.Logger
}

// NewLogger builds a zap-backed Logger from config
func NewLogger(config *Config) (Logger, error) {
	level, err := config.Level.zap()
	if err != nil {
		return nil, err
	}

	zapConfig := zap.NewProductionConfig()
	if config.Development {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	zapConfig.OutputPaths = config.outputPaths()
	if config.Format != "" {
		zapConfig.Encoding = config.Format
	}
	zapConfig.Sampling = nil
	if config.Sampling.Initial > 0 {
		zapConfig.Sampling = &zap.SamplingConfig{
			Initial:    config.Sampling.Initial,
			Thereafter: config.Sampling.Thereafter,
		}
	}

	base, err := zapConfig.Build(zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return &zapLogger{base: base}, nil
}

// NewNopLogger returns a Logger that discards everything
func NewNopLogger() Logger {
	return &zapLogger{base: zap.NewNop()}
}

func (l *zapLogger) LogInfo(msg string, fields map[string]interface{}) {
	l.base.Info(msg, toZapFields(fields)...)
}

func (l *zapLogger) LogError(err error, msg string) error {
	if err != nil {
		l.base.Error(msg, zap.Error(err))
	}
	return err
}

func (l *zapLogger) LogErrorf(err error, format string, args ...interface{}) error {
	return l.LogError(err, fmt.Sprintf(format, args...))
}

func (l *zapLogger) LogFatal(err error, context string) {
	l.base.Fatal(context, zap.Error(err))
}

func (l *zapLogger) LogDebug(message string, fields map[string]interface{}) {
	l.base.Debug(message, toZapFields(fields)...)
}

func (l *zapLogger) LogWarn(message string, fields map[string]interface{}) {
	l.base.Warn(message, toZapFields(fields)...)
}

func (l *zapLogger) WithFields(fields map[string]interface{}) Logger {
	if len(fields) == 0 {
		return l
	}
	return &zapLogger{base: l.base.With(toZapFields(fields)...)}
}

func (l *zapLogger) WithRequestID(requestID string) Logger {
	return l.WithFields(map[string]interface{}{"requestID": requestID})
}

func (l *zapLogger) WithUserID(userID string) Logger {
	return l.WithFields(map[string]interface{}{"userID": userID})
}

// Sync flushes buffered entries
func (l *zapLogger) Sync() error {
	return l.base.Sync()
}

// toZapFields converts in key order so output is stable
func toZapFields(fields map[string]interface{}) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		out = append(out, zap.Any(k, fields[k]))
	}
	return out
}
