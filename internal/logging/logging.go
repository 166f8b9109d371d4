// Package logging builds the process-wide zap logger and the gin/gorm
// adapters that route request and query logs through it.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mrlokans/tourism/internal/config"
)

// New creates a zap logger from the log configuration.
// Format "console" selects the human-readable development encoder.
func New(cfg config.Log) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var zcfg zap.Config
	if cfg.Format == "console" {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
		zcfg.EncoderConfig.TimeKey = "time"
		zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	return zcfg.Build()
}

// Must is New for process startup: an invalid level falls back to info.
func Must(cfg config.Log) *zap.Logger {
	logger, err := New(cfg)
	if err == nil {
		return logger
	}
	cfg.Level = "info"
	logger, fallbackErr := New(cfg)
	if fallbackErr != nil {
		return zap.NewNop()
	}
	logger.Warn("falling back to info log level", zap.Error(err))
	return logger
}
