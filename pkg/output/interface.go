package output

import (
	"context"
	"fmt"
	"io"
)

// Formatter renders filter reports in a specific format.
type Formatter interface {
	// Format renders the report to the given writer.
	Format(ctx context.Context, report *Report, w io.Writer) error

	// Name returns the format name (text, json).
	Name() string
}

// FormatOptions controls formatter behavior.
type FormatOptions struct {
	// Verbose appends a per-source summary.
	Verbose bool

	// Quiet prints only the summary line.
	Quiet bool

	// LineNumbers prefixes each match with its line number.
	LineNumbers bool
}

// NewFormatter returns the formatter registered under name.
func NewFormatter(name string, opts FormatOptions) (Formatter, error) {
	switch name {
	case "text":
		return NewTextFormatter(opts), nil
	case "json":
		return NewJSONFormatter(opts), nil
	default:
		return nil, &UnknownFormatError{Name: name}
	}
}

// UnknownFormatError is returned by NewFormatter for unsupported names.
type UnknownFormatError struct {
	Name string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown output format %q (use text or json)", e.Name)
}
