// Package logging builds the zerolog logger used by the CLI.
package logging

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger writing to w at the given level. Format "console"
// gives human-readable output; "json" writes one JSON object per line.
func New(w io.Writer, levelStr, format string) (zerolog.Logger, error) {
	if levelStr == "" {
		levelStr = "info"
	}
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log level: %w", err)
	}

	switch format {
	case "", "console":
		output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
		return zerolog.New(output).Level(level).With().Timestamp().Logger(), nil
	case "json":
		return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
	default:
		return zerolog.Nop(), fmt.Errorf("log format must be 'json' or 'console', got %q", format)
	}
}
