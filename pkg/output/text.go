package output

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ccollicutt/streamfilter/pkg/document"
)

// TextFormatter formats reports as grep-style lines.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text. Matches are prefixed with their source
// when the report covers more than one source.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "streamfilter: %d matching line(s) in %d of %d source(s)\n",
		report.Summary.TotalMatches,
		report.Summary.SourcesWithMatches,
		report.Summary.SourcesSearched)
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	showSource := len(report.Results) > 1

	for _, result := range report.Results {
		for _, m := range result.Matches {
			prefix := ""
			if showSource {
				prefix = result.Source + ":"
			}
			if f.opts.LineNumbers {
				prefix += fmt.Sprintf("%d:", m.LineNum)
			}
			if _, err := fmt.Fprintf(w, "%s%s\n", prefix, m.Text); err != nil {
				return err
			}
		}
	}

	if f.opts.Verbose {
		return f.formatFooter(report, w)
	}

	return nil
}

func (f *TextFormatter) formatFooter(report *Report, w io.Writer) error {
	if _, err := fmt.Fprintln(w, "---"); err != nil {
		return err
	}
	for _, result := range report.Results {
		if _, err := fmt.Fprintf(w, "%s: %d of %d line(s) matched\n",
			result.Source, len(result.Matches), result.LinesScanned); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Summary: query %q, %d matching line(s) in %d of %d source(s)\n",
		report.Query,
		report.Summary.TotalMatches,
		report.Summary.SourcesWithMatches,
		report.Summary.SourcesSearched); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(time.Millisecond))
	return err
}

// WriteDocument prints every line of doc, optionally numbered.
func WriteDocument(w io.Writer, doc *document.Document, lineNumbers bool) error {
	for i := 0; i < doc.Len(); i++ {
		line := doc.Line(i)
		var err error
		if lineNumbers {
			_, err = fmt.Fprintf(w, "%6d  %s\n", i+1, line)
		} else {
			_, err = fmt.Fprintln(w, line)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
