// Package output provides formatting for filter results.
package output

import (
	"time"

	"github.com/ccollicutt/streamfilter/pkg/document"
	"github.com/ccollicutt/streamfilter/pkg/filter"
)

// Report is the complete output of a filter run over one or more sources.
type Report struct {
	Query    string        `json:"query"`
	Summary  Summary       `json:"summary"`
	Results  []*FileResult `json:"results"`
	Metadata Metadata      `json:"metadata"`
}

// FileResult holds the matches found in a single source.
type FileResult struct {
	Source       string         `json:"source"`
	LinesScanned int            `json:"lines_scanned"`
	Matches      []filter.Match `json:"matches"`
}

// Summary provides aggregate statistics.
type Summary struct {
	SourcesSearched    int `json:"sources_searched"`
	SourcesWithMatches int `json:"sources_with_matches"`
	LinesScanned       int `json:"lines_scanned"`
	TotalMatches       int `json:"total_matches"`
}

// Metadata provides context about the run.
type Metadata struct {
	ConfigFile string        `json:"config_file,omitempty"`
	Sources    []string      `json:"sources"`
	SearchedAt time.Time     `json:"searched_at"`
	Duration   time.Duration `json:"duration"`
}

// NewFileResult pairs a document with the view filtered from it.
func NewFileResult(doc *document.Document, view *filter.View) *FileResult {
	return &FileResult{
		Source:       doc.Source(),
		LinesScanned: doc.Len(),
		Matches:      view.Matches,
	}
}

// NewReport aggregates per-source results into a Report.
func NewReport(query string, results []*FileResult, start, end time.Time) *Report {
	report := &Report{
		Query:   query,
		Results: results,
		Metadata: Metadata{
			Sources:    make([]string, 0, len(results)),
			SearchedAt: end,
			Duration:   end.Sub(start),
		},
	}

	for _, r := range results {
		report.Metadata.Sources = append(report.Metadata.Sources, r.Source)
		report.Summary.SourcesSearched++
		report.Summary.LinesScanned += r.LinesScanned
		report.Summary.TotalMatches += len(r.Matches)
		if len(r.Matches) > 0 {
			report.Summary.SourcesWithMatches++
		}
	}

	return report
}

// HasMatches returns true if any line matched.
func (r *Report) HasMatches() bool {
	return r.Summary.TotalMatches > 0
}
