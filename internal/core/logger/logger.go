package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ServiceName is attached to every entry written by the global logger.
const ServiceName = "courier-stats"

var globalLogger *zap.Logger

// Init builds the global logger for the given environment and level.
// An unparseable level keeps the environment default and is reported once.
func Init(environment string, level string) error {
	config := configFor(environment)

	lvl, levelErr := zapcore.ParseLevel(level)
	if levelErr == nil {
		config.Level = zap.NewAtomicLevelAt(lvl)
	}

	logger, err := config.Build(zap.Fields(
		zap.String("service", ServiceName),
		zap.String("env", environment),
	))
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	if levelErr != nil {
		logger.Warn("Unknown log level, using default",
			zap.String("level", level),
			zap.Stringer("default", config.Level.Level()),
		)
	}

	globalLogger = logger
	return nil
}

// configFor returns JSON output for production and colored console output otherwise.
// Production sampling is off: one lookup logs a line per courier and none may be dropped.
func configFor(environment string) zap.Config {
	if environment == "production" {
		config := zap.NewProductionConfig()
		config.Sampling = nil
		return config
	}

	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return config
}

// Get returns the global logger, or a no-op logger before Init.
func Get() *zap.Logger {
	if globalLogger == nil {
		return zap.NewNop()
	}
	return globalLogger
}

// ForProvider returns a child logger tagged with the courier provider name.
func ForProvider(provider string) *zap.Logger {
	return Get().Named(provider).With(zap.String("provider", provider))
}

// Sync flushes any buffered log entries.
func Sync() {
	if globalLogger != nil {
		_ = globalLogger.Sync()
	}
}
