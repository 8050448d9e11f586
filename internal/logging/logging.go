// Package logging builds the zap loggers used by the watch daemon and by
// verbose API-client tracing. Report output itself goes to stdout through
// the output package; loggers stay on stderr or the daemon log file.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a stderr logger for the given level ("debug", "info", "warn",
// "error") and format ("console" or "json").
func New(level, format string) (*zap.SugaredLogger, error) {
	return build(level, format, []string{"stderr"})
}

// NewFile builds a logger writing to the file at path, creating it when
// missing and appending otherwise. Used by the detached watch daemon, whose
// stderr goes nowhere useful.
func NewFile(level, format, path string) (*zap.SugaredLogger, error) {
	if path == "" {
		return nil, fmt.Errorf("log file path is required")
	}
	return build(level, format, []string{path})
}

func build(level, format string, outputs []string) (*zap.SugaredLogger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = outputs
	cfg.ErrorOutputPaths = outputs
	cfg.DisableStacktrace = true

	switch format {
	case "json":
		cfg.Encoding = "json"
	case "console":
		cfg.Encoding = "console"
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	default:
		return nil, fmt.Errorf("invalid log format %q (console or json)", format)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger.Sugar(), nil
}
