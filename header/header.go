// Package header locates the header row of a grid whose layout is not known
// in advance.
package header

import (
	"regexp"
	"strings"

	"clientsplit/dataset"
	"clientsplit/internal/colname"
)

const DefaultScanLimit = 25

// DefaultKeywords are the grouping-key hints searched for in keyword mode.
var DefaultKeywords = []string{"cliente", "processo", "contrato", "client", "process", "contract"}

// KeywordMatcher matches cell text containing any of the hint terms,
// ignoring case.
type KeywordMatcher struct {
	pattern *regexp.Regexp
}

func NewKeywordMatcher(terms []string) *KeywordMatcher {
	quoted := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(term))
	}
	if len(quoted) == 0 {
		return &KeywordMatcher{}
	}
	return &KeywordMatcher{pattern: regexp.MustCompile(`(?i)(` + strings.Join(quoted, "|") + `)`)}
}

func (m *KeywordMatcher) Match(text string) bool {
	if m == nil || m.pattern == nil {
		return false
	}
	return m.pattern.MatchString(text)
}

// ByKeyword returns the first row within limit holding a text cell that
// matches the matcher. The second result is false when no row matched, in
// which case row 0 is returned.
func ByKeyword(grid dataset.Grid, matcher *KeywordMatcher, limit int) (int, bool) {
	for row := 0; row < scanRows(grid, limit); row++ {
		for _, cell := range grid[row] {
			if cell.Kind() != dataset.String {
				continue
			}
			if matcher.Match(cell.String()) {
				return row, true
			}
		}
	}
	return 0, false
}

// ByOverlap returns the row within limit whose cells share the most labels
// (after normalization), along with that count. Ties go to the earliest row;
// without any overlap row 0 and a zero count are returned.
func ByOverlap(grid dataset.Grid, labels []string, limit int) (int, int) {
	known := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		if key := colname.Normalize(label); key != "" {
			known[key] = struct{}{}
		}
	}

	bestRow, bestCount := 0, 0
	for row := 0; row < scanRows(grid, limit); row++ {
		count := 0
		for _, cell := range grid[row] {
			key := colname.Normalize(cell.String())
			if key == "" {
				continue
			}
			if _, ok := known[key]; ok {
				count++
			}
		}
		if count > bestCount {
			bestRow, bestCount = row, count
		}
	}
	return bestRow, bestCount
}

func scanRows(grid dataset.Grid, limit int) int {
	if limit <= 0 {
		limit = DefaultScanLimit
	}
	if len(grid) < limit {
		return len(grid)
	}
	return limit
}
