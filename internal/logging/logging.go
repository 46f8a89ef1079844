// Package logging provides structured logging for trajcomp: the
// Compressor and Decompressor log block start and end at Debug level.
// Logging never participates in the error taxonomy (spec.md §7) — it is
// purely diagnostic and holds no control flow.
//
// Adapted from five82-drapto/internal/logging's slog-based variant
// (logger.go): same Config/New/global-logger shape, narrowed to the one
// handler trajcomp needs and without the package-level global, since a
// Compressor/Decompressor already owns its logger for its lifetime.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Level aliases for slog levels.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Config configures a Logger.
type Config struct {
	Level   slog.Level
	Output  io.Writer
	Enabled bool
}

// DefaultConfig returns a default logger configuration: info level,
// stderr output, enabled.
func DefaultConfig() Config {
	return Config{
		Level:   LevelInfo,
		Output:  os.Stderr,
		Enabled: true,
	}
}

// New creates a logger from cfg. A disabled config yields a logger that
// discards everything, so call sites never need a nil check.
func New(cfg Config) *slog.Logger {
	if !cfg.Enabled {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	return slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: cfg.Level}))
}

// WithTrajcomp returns l with its attributes grouped under "trajcomp"
// (keys appear as trajcomp.<key>) so its records are distinguishable in a
// host application's combined log stream.
func WithTrajcomp(l *slog.Logger) *slog.Logger {
	return l.WithGroup("trajcomp")
}
