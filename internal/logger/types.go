package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Level is a log level name as written in config
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
	FatalLevel Level = "fatal"
)

func (l Level) zap() (zapcore.Level, error) {
	if l == "" {
		return zapcore.InfoLevel, nil
	}
	level, err := zapcore.ParseLevel(strings.ToLower(string(l)))
	if err != nil {
		return level, fmt.Errorf("invalid log level %q: %w", l, err)
	}
	return level, nil
}

// Config holds the logger configuration. Format is json or console; Output
// is stdout, stderr or a file path, overridden by File when enabled.
type Config struct {
	Level       Level  `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	Output      string `mapstructure:"output" yaml:"output"`
	Development bool   `mapstructure:"development" yaml:"development"`

	File struct {
		Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
		Path    string `mapstructure:"path" yaml:"path"`
	} `mapstructure:"file" yaml:"file"`

	Sampling struct {
		Initial    int `mapstructure:"initial" yaml:"initial"`
		Thereafter int `mapstructure:"thereafter" yaml:"thereafter"`
	} `mapstructure:"sampling" yaml:"sampling"`
}

func (c *Config) outputPaths() []string {
	switch {
	case c.File.Enabled && c.File.Path != "":
		return []string{c.File.Path}
	case c.Output != "":
		return []string{c.Output}
	default:
		return []string{"stdout"}
	}
}
