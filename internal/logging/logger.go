package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options selects the logger level and output format.
type Options struct {
	Level  string // zerolog level name, defaults to info
	Format string // "json" (default) or "console"
	AppEnv string
}

// New constructs a zerolog logger writing to out (stdout when nil).
func New(opts Options, out io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level))); err == nil && parsed != zerolog.NoLevel {
		level = parsed
	}

	if out == nil {
		out = os.Stdout
	}
	if strings.ToLower(strings.TrimSpace(opts.Format)) == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("app", "shareit").
		Str("env", opts.AppEnv).
		Logger()
}
