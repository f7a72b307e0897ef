// Package logging builds the toolbox's zap loggers from a small, flag and
// environment friendly configuration surface. Every core package accepts a
// nil logger and falls back to a no-op one, so nothing here is required for
// correctness.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config describes where log records go and above which level.
type Config struct {
	// Level is one of debug, info, warn, error. Defaults to info.
	Level string

	// File, when set, sends output there instead of stderr.
	File string

	// Development switches to the human-oriented console encoder with
	// colored levels.
	Development bool
}

// ParseLevel maps a level name to its zapcore level.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: valid levels are debug, info, warn, error", s)
	}
}

// New builds a logger from cfg. The returned atomic level stays attached to
// the logger, so callers can raise or lower verbosity afterwards.
func New(cfg Config) (*zap.Logger, zap.AtomicLevel, error) {
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, zap.AtomicLevel{}, err
	}
	atom := zap.NewAtomicLevelAt(lvl)

	var zcfg zap.Config
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = atom
	if cfg.File != "" {
		zcfg.OutputPaths = []string{cfg.File}
		zcfg.ErrorOutputPaths = []string{cfg.File}
	} else {
		zcfg.OutputPaths = []string{"stderr"}
		zcfg.ErrorOutputPaths = []string{"stderr"}
	}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, zap.AtomicLevel{}, fmt.Errorf("build logger: %w", err)
	}
	return logger, atom, nil
}

// Nop returns the default sink used when no logger is attached.
func Nop() *zap.Logger {
	return zap.NewNop()
}

// TemporaryLevel runs fn with the atomic level switched to temp, restoring
// the previous level afterwards.
func TemporaryLevel(atom zap.AtomicLevel, temp zapcore.Level, fn func()) {
	prev := atom.Level()
	atom.SetLevel(temp)
	defer atom.SetLevel(prev)
	fn()
}
