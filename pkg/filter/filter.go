// Package filter selects the lines of a document that contain a query.
package filter

import (
	"errors"
	"strings"

	"github.com/samber/lo"

	"github.com/ccollicutt/streamfilter/pkg/document"
)

var (
	// ErrInvalidQuery is returned when the query is empty.
	ErrInvalidQuery = errors.New("please enter a search string")

	// ErrNoDocument is returned when there is no document to filter.
	ErrNoDocument = errors.New("please load a file first")
)

// Match is a single matching line.
type Match struct {
	// LineNum is the 1-based line number in the source document.
	LineNum int    `json:"line"`
	Text    string `json:"text"`
}

// View is the ordered subset of a document's lines that contain Query.
type View struct {
	Query   string
	Source  string
	Matches []Match
}

// Filter returns the lines of doc containing query, in document order.
// Matching is case-sensitive plain substring containment.
// An empty query is rejected before the document is considered.
func Filter(doc *document.Document, query string) (*View, error) {
	if query == "" {
		return nil, ErrInvalidQuery
	}
	if doc == nil {
		return nil, ErrNoDocument
	}

	view := &View{
		Query:   query,
		Source:  doc.Source(),
		Matches: []Match{},
	}
	for i := 0; i < doc.Len(); i++ {
		if line := doc.Line(i); strings.Contains(line, query) {
			view.Matches = append(view.Matches, Match{LineNum: i + 1, Text: line})
		}
	}

	return view, nil
}

// Lines returns the matched line texts.
func (v *View) Lines() []string {
	return lo.Map(v.Matches, func(m Match, _ int) string {
		return m.Text
	})
}

// Len returns the number of matched lines.
func (v *View) Len() int {
	return len(v.Matches)
}

// IsEmpty reports whether nothing matched.
func (v *View) IsEmpty() bool {
	return len(v.Matches) == 0
}

// AsDocument returns the matched lines as a new Document with the same source.
func (v *View) AsDocument() *document.Document {
	return document.New(v.Source, v.Lines())
}
