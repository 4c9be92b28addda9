// Package logging builds the slog loggers used across a11yx.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds the logging configuration.
type Config struct {
	// Level is the minimum level name: debug, info, warn or error. Empty means info.
	Level string

	// Format is "text" (default) or "json".
	Format string

	// Output receives log lines. Nil means os.Stderr.
	Output io.Writer

	// Component, when set, is attached to every record.
	Component string

	// Var, when set, becomes the handler's level so it can be changed at runtime.
	// It is initialized from Level.
	Var *slog.LevelVar
}

// New creates a logger from cfg.
func New(cfg Config) (*slog.Logger, error) {
	level := slog.LevelInfo
	if cfg.Level != "" {
		var err error
		if level, err = ParseLevel(cfg.Level); err != nil {
			return nil, err
		}
	}

	var leveler slog.Leveler = level
	if cfg.Var != nil {
		cfg.Var.Set(level)
		leveler = cfg.Var
	}

	w := cfg.Output
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: leveler}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", FormatText:
		handler = slog.NewTextHandler(w, opts)
	case FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format: %s", cfg.Format)
	}

	if cfg.Component != "" {
		handler = handler.WithAttrs([]slog.Attr{slog.String("component", cfg.Component)})
	}
	return slog.New(handler), nil
}

// ParseLevel parses a level name.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", s)
	}
}

// LevelForOption maps the numeric logLevel option onto a slog level.
// 0 and below keep warnings only, 1 adds info, 2 and above add debug.
func LevelForOption(logLevel int) slog.Level {
	switch {
	case logLevel >= 2:
		return slog.LevelDebug
	case logLevel == 1:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
