package model

// Line is one rendered log line. Number is 1-based and strictly increasing
// across a line sequence.
type Line struct {
	Number int
	Raw    string // as received, styling escapes intact
	Text   string // styling stripped, used for matching
}

// Occurrence is one match of the query inside a line's text.
// Start and End are rune offsets into Text.
type Occurrence struct {
	LineNumber int
	Index      int // ordinal among the occurrences of the same line
	Start      int
	End        int
}

// MatchResult is the output of one search pass. Lines holds the matching
// lines, or every line when the query is empty.
type MatchResult struct {
	Lines       []Line
	Occurrences []Occurrence
}

// Count returns the number of occurrences.
func (r MatchResult) Count() int {
	return len(r.Occurrences)
}

// OccurrencesIn returns the occurrences that belong to the given line.
// Occurrences are ordered by line, so the result is a subslice.
func (r MatchResult) OccurrencesIn(lineNumber int) []Occurrence {
	lo, hi := 0, len(r.Occurrences)
	for lo < hi {
		mid := (lo + hi) / 2
		if r.Occurrences[mid].LineNumber < lineNumber {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	end := lo
	for end < len(r.Occurrences) && r.Occurrences[end].LineNumber == lineNumber {
		end++
	}
	return r.Occurrences[lo:end]
}
