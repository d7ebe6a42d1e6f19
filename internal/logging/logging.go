// Package logging provides structured logging for the emfactor engine and CLI.
//
// It wraps zerolog with context propagation helpers so that every component
// logs through a logger carried on the context.Context, tagged with a
// per-invocation trace ID and a component name.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config controls logger construction.
type Config struct {
	// Level is the minimum level to emit ("trace".."error"). Defaults to "info"
	// when empty or unparseable.
	Level string

	// Format selects the output encoding: "console" for human-readable output,
	// "json" for machine-readable output. Defaults to "console".
	Format string

	// Output is the destination writer. Defaults to os.Stderr when nil.
	Output io.Writer
}

// New constructs a zerolog.Logger from the given config.
func New(cfg Config) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		lvl = zerolog.InfoLevel
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	if cfg.Format != "json" {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// ComponentLogger returns a child logger tagged with a component name.
// All events from the child carry a "component" field.
func ComponentLogger(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}

// Nop returns a disabled logger, for tests and for callers that have not
// configured logging.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
