package logview

import (
	"sort"

	"github.com/altinukshini/logview/internal/model"
)

// Scroller is the part of a viewport the synchronizer drives.
type Scroller interface {
	ScrollToIndex(row int, align Alignment)
}

// Synchronizer is the only code that moves the viewport programmatically.
// It scrolls when the active occurrence's line changes and otherwise leaves
// the user's scroll position alone.
type Synchronizer struct {
	target int
	has    bool
}

// Sync scrolls to the line of occ when it differs from the previously seen
// target. It reports whether a scroll command was issued.
func (s *Synchronizer) Sync(occ model.Occurrence, ok bool, rows []model.Line, sc Scroller) bool {
	if ok == s.has && (!ok || occ.LineNumber == s.target) {
		return false
	}
	s.target, s.has = occ.LineNumber, ok
	if !ok || sc == nil {
		return false
	}
	row, found := rowOf(rows, occ.LineNumber)
	if !found {
		return false
	}
	sc.ScrollToIndex(row, AlignCenter)
	return true
}

// Follow keeps the last row in view while the log grows. It yields to an
// active occurrence.
func (s *Synchronizer) Follow(rows []model.Line, sc Scroller) bool {
	if s.has || sc == nil || len(rows) == 0 {
		return false
	}
	sc.ScrollToIndex(len(rows)-1, AlignEnd)
	return true
}

// rowOf finds the display row of a line number. Line numbers are strictly
// increasing, so rows can be binary searched.
func rowOf(rows []model.Line, lineNumber int) (int, bool) {
	i := sort.Search(len(rows), func(i int) bool { return rows[i].Number >= lineNumber })
	if i < len(rows) && rows[i].Number == lineNumber {
		return i, true
	}
	return 0, false
}
