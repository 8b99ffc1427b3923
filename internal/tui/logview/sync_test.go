package logview

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/altinukshini/logview/internal/model"
)

type scrollCall struct {
	row   int
	align Alignment
}

type fakeScroller struct {
	calls []scrollCall
}

func (f *fakeScroller) ScrollToIndex(row int, align Alignment) {
	f.calls = append(f.calls, scrollCall{row, align})
}

func numbered(nums ...int) []model.Line {
	lines := make([]model.Line, len(nums))
	for i, n := range nums {
		lines[i] = model.Line{Number: n}
	}
	return lines
}

func TestSynchronizerScrollsOnTargetChange(t *testing.T) {
	var s Synchronizer
	sc := &fakeScroller{}
	rows := numbered(1, 2, 3, 4)

	assert.True(t, s.Sync(model.Occurrence{LineNumber: 3}, true, rows, sc))
	assert.False(t, s.Sync(model.Occurrence{LineNumber: 3, Index: 1}, true, rows, sc), "same line, no scroll")
	assert.True(t, s.Sync(model.Occurrence{LineNumber: 1}, true, rows, sc))

	assert.Equal(t, []scrollCall{{2, AlignCenter}, {0, AlignCenter}}, sc.calls)
}

func TestSynchronizerUndefinedTargetDoesNotScroll(t *testing.T) {
	var s Synchronizer
	sc := &fakeScroller{}
	rows := numbered(1, 2)

	assert.False(t, s.Sync(model.Occurrence{}, false, rows, sc))
	s.Sync(model.Occurrence{LineNumber: 2}, true, rows, sc)
	assert.False(t, s.Sync(model.Occurrence{}, false, rows, sc))
	assert.Len(t, sc.calls, 1)

	// Coming back to the same line after the target was undefined scrolls again.
	assert.True(t, s.Sync(model.Occurrence{LineNumber: 2}, true, rows, sc))
	assert.Len(t, sc.calls, 2)
}

func TestSynchronizerUsesDisplayedRowPosition(t *testing.T) {
	var s Synchronizer
	sc := &fakeScroller{}
	filtered := numbered(4, 10, 57)

	s.Sync(model.Occurrence{LineNumber: 57}, true, filtered, sc)

	assert.Equal(t, []scrollCall{{2, AlignCenter}}, sc.calls)
}

func TestSynchronizerSkipsLineNotDisplayed(t *testing.T) {
	var s Synchronizer
	sc := &fakeScroller{}

	assert.False(t, s.Sync(model.Occurrence{LineNumber: 5}, true, numbered(1, 2, 3), sc))
	assert.Empty(t, sc.calls)
}

func TestSynchronizerWithoutScroller(t *testing.T) {
	var s Synchronizer
	assert.False(t, s.Sync(model.Occurrence{LineNumber: 1}, true, numbered(1), nil))
}

func TestSynchronizerFollow(t *testing.T) {
	var s Synchronizer
	sc := &fakeScroller{}
	rows := numbered(1, 2, 3)

	assert.True(t, s.Follow(rows, sc))
	assert.Equal(t, []scrollCall{{2, AlignEnd}}, sc.calls)

	s.Sync(model.Occurrence{LineNumber: 1}, true, rows, sc)
	assert.False(t, s.Follow(rows, sc), "an active occurrence wins over following")
}

func TestWindowScrollToIndex(t *testing.T) {
	tests := []struct {
		name  string
		row   int
		align Alignment
		want  int
	}{
		{name: "center", row: 50, align: AlignCenter, want: 45},
		{name: "start", row: 50, align: AlignStart, want: 50},
		{name: "end", row: 50, align: AlignEnd, want: 41},
		{name: "center near top clamps", row: 2, align: AlignCenter, want: 0},
		{name: "center near bottom clamps", row: 99, align: AlignCenter, want: 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w window
			w.SetSize(80, 10)
			w.SetRows(100)
			w.ScrollToIndex(tt.row, tt.align)
			assert.Equal(t, tt.want, w.offset)
		})
	}
}

func TestWindowRowAt(t *testing.T) {
	var w window
	w.SetSize(80, 5)
	w.SetRows(7)
	w.GotoBottom()

	row, ok := w.RowAt(0)
	assert.True(t, ok)
	assert.Equal(t, 2, row)

	_, ok = w.RowAt(5)
	assert.False(t, ok)
	_, ok = w.RowAt(-1)
	assert.False(t, ok)
}

func TestWindowViewRendersOnlyVisibleRows(t *testing.T) {
	var w window
	w.SetSize(80, 3)
	w.SetRows(1000)
	w.ScrollToIndex(500, AlignStart)

	var rendered []int
	w.View(func(row int) string {
		rendered = append(rendered, row)
		return ""
	})
	assert.Equal(t, []int{500, 501, 502}, rendered)
}
