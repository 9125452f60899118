// Package observability builds the structured logger shared by the tools.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/rogue-trader/internal/config"
)

// baseConfig returns the zap preset for a logging.format value.
func baseConfig(format string) (zap.Config, bool) {
	switch format {
	case "json":
		return zap.NewProductionConfig(), true
	case "console":
		c := zap.NewDevelopmentConfig()
		c.DisableStacktrace = true
		return c, true
	default:
		return zap.Config{}, false
	}
}

// NewLogger creates a structured logger from the given logging configuration.
// Roll results are printed on stdout, so logs go to cfg.Output (stderr when
// empty) and internal zap errors always go to stderr.
//
// Precondition: cfg.Level must be one of "debug", "info", "warn", "error".
// Precondition: cfg.Format must be "json" or "console".
// Postcondition: Returns a configured zap.Logger or a non-nil error.
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}
	zc, ok := baseConfig(cfg.Format)
	if !ok {
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.OutputPaths = []string{"stderr"}
	if cfg.Output != "" {
		zc.OutputPaths = []string{cfg.Output}
	}
	zc.ErrorOutputPaths = []string{"stderr"}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}
