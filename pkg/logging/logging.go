// Package logging builds the zap logger used across the engine.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logging configuration.
type Config struct {
	Level     string // debug, info, warn, error
	Format    string // "json" or "console"
	AddCaller bool
	AddStack  bool
}

// DefaultConfig returns production JSON logging at info level.
func DefaultConfig() Config {
	return Config{Level: "info", Format: "json"}
}

// NewLogger creates a structured zap logger.
func NewLogger(config Config) (*zap.Logger, error) {
	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = parseLevel(config.Level)
	if config.Format != "" {
		zapConfig.Encoding = config.Format
	}
	zapConfig.DisableCaller = !config.AddCaller
	zapConfig.DisableStacktrace = !config.AddStack
	return zapConfig.Build()
}

func parseLevel(level string) zap.AtomicLevel {
	switch level {
	case "debug":
		return zap.NewAtomicLevelAt(zapcore.DebugLevel)
	case "warn":
		return zap.NewAtomicLevelAt(zapcore.WarnLevel)
	case "error":
		return zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	default:
		return zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
}
