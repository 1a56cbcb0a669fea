// Package logging builds the application logger from configuration.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"docsplit/internal/config"
)

// New builds a zap logger per the logging configuration. verbose forces
// debug level regardless of the configured level. Errors fall back to a
// no-op logger rather than failing the command.
func New(cfg config.LoggingConfig, verbose bool) *zap.Logger {
	zapCfg := zap.NewProductionConfig()

	switch cfg.Format {
	case "json":
		zapCfg.Encoding = "json"
	default:
		zapCfg.Encoding = "console"
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level(cfg.Level, verbose))

	logger, err := zapCfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func level(name string, verbose bool) zapcore.Level {
	if verbose {
		return zapcore.DebugLevel
	}
	switch name {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
