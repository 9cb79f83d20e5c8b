// Package document defines the in-memory representation of a loaded text file.
package document

import (
	"slices"
	"strings"
)

// StdinSource is the source name used for documents read from standard input.
const StdinSource = "-"

// Document is an ordered, immutable sequence of lines read from a single source.
type Document struct {
	source string
	lines  []string
}

// New creates a Document from already-split lines.
// The lines slice is copied so later changes by the caller are not visible.
func New(source string, lines []string) *Document {
	cp := make([]string, len(lines))
	copy(cp, lines)
	return &Document{source: source, lines: cp}
}

// Source returns the path (or "-") the document was read from.
func (d *Document) Source() string {
	return d.source
}

// Lines returns a copy of the document lines in file order.
// Use Len and Line to walk a large document without copying it.
func (d *Document) Lines() []string {
	return slices.Clone(d.lines)
}

// Len returns the number of lines.
func (d *Document) Len() int {
	return len(d.lines)
}

// Line returns the line at the given 0-based index.
func (d *Document) Line(i int) string {
	return d.lines[i]
}

// IsEmpty reports whether the document has no lines.
func (d *Document) IsEmpty() bool {
	return len(d.lines) == 0
}

// Text joins the lines with "\n", without a trailing newline.
func (d *Document) Text() string {
	return strings.Join(d.lines, "\n")
}
