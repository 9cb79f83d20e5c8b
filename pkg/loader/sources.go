package loader

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/ccollicutt/streamfilter/pkg/document"
)

// ExpandSources expands a list of file paths and glob patterns into a
// deduplicated, sorted list of paths. Patterns that don't match any files are
// returned as-is so the load reports a proper file-not-found error.
// The stdin source "-" is kept, and always placed first.
func ExpandSources(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var result []string
	stdin := false

	for _, pattern := range patterns {
		if pattern == document.StdinSource {
			stdin = true
			continue
		}

		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}

		if len(matches) == 0 {
			if !seen[pattern] {
				seen[pattern] = true
				result = append(result, pattern)
			}
			continue
		}

		for _, match := range matches {
			if !seen[match] {
				seen[match] = true
				result = append(result, match)
			}
		}
	}

	sort.Strings(result)

	if stdin {
		result = append([]string{document.StdinSource}, result...)
	}

	return result, nil
}
