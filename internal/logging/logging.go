// Package logging builds the zerolog loggers used by the CLI and terminal view.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New returns a logger writing to w at the named level.
func New(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.WarnLevel
	}

	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Logger(), nil
}

// NewConsole returns a human-readable logger writing to w (usually stderr).
func NewConsole(w io.Writer, level string) (zerolog.Logger, error) {
	return New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05", NoColor: true}, level)
}

// NewFile returns a JSON logger appending to path, and the file to close when
// done. An empty path yields a no-op logger and a nil closer.
func NewFile(path, level string) (zerolog.Logger, io.Closer, error) {
	if path == "" {
		return zerolog.Nop(), nil, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644) // #nosec G304 -- user-provided log path
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("opening log file: %w", err)
	}

	logger, err := New(f, level)
	if err != nil {
		_ = f.Close()
		return zerolog.Nop(), nil, err
	}
	return logger, f, nil
}

// Component returns a child logger tagged with a component name.
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}
