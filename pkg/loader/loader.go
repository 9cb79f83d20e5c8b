// Package loader reads text sources into documents.
package loader

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/ccollicutt/streamfilter/pkg/document"
)

// DefaultMaxLineSize is the longest line, in bytes, accepted by default.
const DefaultMaxLineSize = 1024 * 1024

const initialBufferSize = 64 * 1024

// Loader reads files and readers into documents.
type Loader struct {
	maxLineSize int
	logger      zerolog.Logger
	stdin       io.Reader
}

// Option configures the Loader.
type Option func(*Loader)

// WithMaxLineSize sets the longest line accepted, in bytes.
// Lines beyond this size fail the load with an IOError.
func WithMaxLineSize(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.maxLineSize = n
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithStdin sets the reader used for the "-" source (default os.Stdin).
func WithStdin(r io.Reader) Option {
	return func(l *Loader) {
		l.stdin = r
	}
}

// New creates a Loader with the given options.
func New(opts ...Option) *Loader {
	l := &Loader{
		maxLineSize: DefaultMaxLineSize,
		logger:      zerolog.Nop(),
		stdin:       os.Stdin,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the file at path into a Document using default options.
func Load(ctx context.Context, path string) (*document.Document, error) {
	return New().Load(ctx, path)
}

// Load reads the file at path into a Document.
// The path "-" reads from the configured stdin reader.
func (l *Loader) Load(ctx context.Context, path string) (*document.Document, error) {
	if path == document.StdinSource {
		return l.Read(ctx, path, l.stdin)
	}

	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, &IOError{Path: path, Op: "opening", Err: err}
	}
	defer f.Close()

	return l.Read(ctx, path, f)
}

// Read splits everything read from r into a Document named name.
// Lines are delimited by "\n"; a trailing "\r" on a line is dropped and the
// final delimiter does not produce an extra empty line.
func (l *Loader) Read(ctx context.Context, name string, r io.Reader) (*document.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	initial := initialBufferSize
	if l.maxLineSize < initial {
		initial = l.maxLineSize
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, initial), l.maxLineSize)

	var lines []string
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, &IOError{Path: name, Op: "reading", Err: err}
	}

	l.logger.Debug().
		Str("path", name).
		Int("lines", len(lines)).
		Msg("document loaded")

	return document.New(name, lines), nil
}
