package main

import (
	"testing"

	"github.com/consensuslabs/pavilion-comments/internal/config"
	"github.com/consensuslabs/pavilion-comments/internal/logger"
	"github.com/stretchr/testify/assert"
)

func TestLoggerConfig(t *testing.T) {
	var cfg config.LoggingConfig
	cfg.Level = "warn"
	cfg.Format = "json"
	cfg.Output = "stdout"
	cfg.File.Enabled = true
	cfg.File.Path = "/var/log/comments.log"
	cfg.Sampling.Initial = 100
	cfg.Sampling.Thereafter = 10

	lc := loggerConfig(cfg)

	assert.Equal(t, logger.WarnLevel, lc.Level)
	assert.Equal(t, "json", lc.Format)
	assert.True(t, lc.File.Enabled)
	assert.Equal(t, "/var/log/comments.log", lc.File.Path)
	assert.Equal(t, 100, lc.Sampling.Initial)
	assert.Equal(t, 10, lc.Sampling.Thereafter)
}
