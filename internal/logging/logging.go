// Package logging builds the facade's zap logger from configuration. Callers
// that already have a logger pass it to ghostpay.New directly; this package
// covers the ones that configure logging in the same YAML file as the
// processor.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config describes the logger. The zero value means logging is not
// configured; ghostpay falls back to a no-op logger.
type Config struct {
	// Level is one of debug, info, warn, error. Empty defaults to info.
	Level string `yaml:"level"`
	// Format is json or console.
	Format string `yaml:"format"`
	// Development switches to the development encoder with colored levels
	// and caller annotations.
	Development bool `yaml:"development"`
}

// New builds a zap logger for the given config.
func New(cfg Config) *zap.Logger {
	level := zap.NewAtomicLevel()
	switch cfg.Level {
	case "debug":
		level.SetLevel(zapcore.DebugLevel)
	case "warn":
		level.SetLevel(zapcore.WarnLevel)
	case "error":
		level.SetLevel(zapcore.ErrorLevel)
	default:
		level.SetLevel(zapcore.InfoLevel)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "@timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.LevelKey = "log.level"
	encoderConfig.MessageKey = "message"
	if cfg.Development {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	var encoder zapcore.Encoder
	if cfg.Format == "console" {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	logger := zap.New(zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level))
	if cfg.Development {
		logger = logger.WithOptions(zap.AddCaller())
	}
	return logger.WithOptions(zap.AddStacktrace(zapcore.ErrorLevel))
}
