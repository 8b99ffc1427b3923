package search

import (
	"strings"
	"unicode/utf8"

	"github.com/altinukshini/logview/internal/model"
)

// NormalizeQuery lower-cases a query the same way line text is lower-cased
// before comparison.
func NormalizeQuery(q string) string {
	return strings.ToLower(q)
}

// ComputeMatches scans lines once for a normalized query. An empty query
// returns the input slice untouched and no occurrences.
func ComputeMatches(lines []model.Line, query string) model.MatchResult {
	if query == "" {
		return model.MatchResult{Lines: lines}
	}

	var result model.MatchResult
	queryRunes := utf8.RuneCountInString(query)
	for _, line := range lines {
		// strings.ToLower maps rune for rune, so rune offsets in lower are
		// rune offsets in line.Text.
		lower := strings.ToLower(line.Text)
		idx := strings.Index(lower, query)
		if idx < 0 {
			continue
		}
		result.Lines = append(result.Lines, line)

		n, from, runeFrom := 0, 0, 0
		for idx >= 0 {
			start := runeFrom + utf8.RuneCountInString(lower[from:from+idx])
			result.Occurrences = append(result.Occurrences, model.Occurrence{
				LineNumber: line.Number,
				Index:      n,
				Start:      start,
				End:        start + queryRunes,
			})
			n++
			from += idx + len(query)
			runeFrom = start + queryRunes
			idx = strings.Index(lower[from:], query)
		}
	}
	return result
}

// Active returns the occurrence the cursor points at, if any.
func Active(result model.MatchResult, c Cursor) (model.Occurrence, bool) {
	idx, ok := c.Index(result.Count())
	if !ok {
		return model.Occurrence{}, false
	}
	return result.Occurrences[idx], true
}
