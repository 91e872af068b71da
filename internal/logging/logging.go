// Package logging configures the process-wide zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Log output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Options controls how Setup builds the logger.
type Options struct {
	Level   string // debug, info, warn, error; empty means info
	Format  string // console or json; empty means console
	NoColor bool
	Out     io.Writer // defaults to os.Stderr
}

// Setup builds a logger from opts, installs it as the global log.Logger
// and returns it.
func Setup(opts Options) (zerolog.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), err
	}

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	switch strings.ToLower(opts.Format) {
	case "", FormatConsole:
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: opts.NoColor}
	case FormatJSON:
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q (want console or json)", opts.Format)
	}

	logger := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Logger()

	log.Logger = logger
	zerolog.DefaultContextLogger = &log.Logger

	return logger, nil
}

// ParseLevel maps a level name to a zerolog level. Empty means info.
func ParseLevel(s string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return zerolog.InfoLevel, nil
	case "warning":
		return zerolog.WarnLevel, nil
	}

	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("unknown log level %q: %w", s, err)
	}
	return level, nil
}
