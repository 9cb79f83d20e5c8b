// Package session holds the document and filtered view a presentation layer
// is currently showing.
package session

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ccollicutt/streamfilter/pkg/document"
	"github.com/ccollicutt/streamfilter/pkg/filter"
	"github.com/ccollicutt/streamfilter/pkg/loader"
)

// State describes how far the load/search pipeline has progressed.
type State int

const (
	StateNoDocument State = iota
	StateLoaded
	StateFiltered
)

func (s State) String() string {
	switch s {
	case StateNoDocument:
		return "no document"
	case StateLoaded:
		return "loaded"
	case StateFiltered:
		return "filtered"
	default:
		return "unknown"
	}
}

// Session retains the last loaded document and the last successful view.
// Failed operations leave both untouched. A Session is not safe for
// concurrent use.
type Session struct {
	loader *loader.Loader
	logger zerolog.Logger

	doc  *document.Document
	view *filter.View
}

// New creates an empty Session that loads documents with l.
func New(l *loader.Loader, logger zerolog.Logger) *Session {
	if l == nil {
		l = loader.New()
	}
	return &Session{loader: l, logger: logger}
}

// Load reads path and makes it the current document, clearing the view.
func (s *Session) Load(ctx context.Context, path string) error {
	doc, err := s.loader.Load(ctx, path)
	if err != nil {
		s.logger.Debug().Err(err).Str("path", path).Msg("load failed")
		return err
	}

	s.doc = doc
	s.view = nil
	return nil
}

// SetDocument makes doc the current document, clearing the view.
func (s *Session) SetDocument(doc *document.Document) {
	s.doc = doc
	s.view = nil
}

// Search filters the current document in memory and makes the result the
// current view.
func (s *Session) Search(query string) (*filter.View, error) {
	view, err := filter.Filter(s.doc, query)
	if err != nil {
		s.logger.Debug().Err(err).Str("query", query).Msg("search rejected")
		return nil, err
	}

	s.logger.Debug().
		Str("query", query).
		Int("matches", view.Len()).
		Msg("search complete")

	s.view = view
	return view, nil
}

// Document returns the current document, or nil if none is loaded.
func (s *Session) Document() *document.Document {
	return s.doc
}

// View returns the current view, or nil if no search succeeded since the last load.
func (s *Session) View() *filter.View {
	return s.view
}

// State reports the pipeline state.
func (s *Session) State() State {
	switch {
	case s.doc == nil:
		return StateNoDocument
	case s.view == nil:
		return StateLoaded
	default:
		return StateFiltered
	}
}
