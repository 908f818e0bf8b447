// Package logger builds the application's *slog.Logger.
//
// Records are written by zerolog so that output is JSON by default and a
// human-readable console format can be selected for local development.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Option customizes the logger built by New
type Option func(*options)

type options struct {
	format string
	output io.Writer
}

// WithFormat selects "json" (default) or "console" output
func WithFormat(format string) Option {
	return func(o *options) {
		o.format = strings.ToLower(format)
	}
}

// WithOutput redirects log output, os.Stderr by default
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// New creates a structured logger at the given level (debug, info, warn, error)
func New(level string, opts ...Option) *slog.Logger {
	o := options{format: "json", output: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	out := o.output
	if o.format == "console" {
		out = zerolog.ConsoleWriter{Out: o.output, TimeFormat: "15:04:05"}
	}

	zl := zerolog.New(out).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Logger()

	return slog.New(NewHandler(zl))
}

// ParseLevel converts a level name to a zerolog level, defaulting to info
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.MessageFieldName = "msg"
}
