package logview

import "strings"

type Alignment int

const (
	AlignStart Alignment = iota
	AlignCenter
	AlignEnd
)

// window is a virtualized list viewport: it tracks which rows of a long
// sequence are visible and only renders those.
type window struct {
	offset int
	width  int
	height int
	rows   int
}

func (w *window) SetSize(width, height int) {
	w.width = width
	w.height = max(height, 0)
	w.clamp()
}

func (w *window) SetRows(n int) {
	w.rows = n
	w.clamp()
}

func (w window) maxOffset() int {
	return max(w.rows-w.height, 0)
}

func (w *window) clamp() {
	w.offset = min(max(w.offset, 0), w.maxOffset())
}

// ScrollToIndex positions row according to align, clamped to the scrollable
// range.
func (w *window) ScrollToIndex(row int, align Alignment) {
	switch align {
	case AlignCenter:
		w.offset = row - w.height/2
	case AlignEnd:
		w.offset = row - w.height + 1
	default:
		w.offset = row
	}
	w.clamp()
}

func (w *window) ScrollBy(n int) {
	w.offset += n
	w.clamp()
}

func (w *window) GotoTop() {
	w.offset = 0
}

func (w *window) GotoBottom() {
	w.offset = w.maxOffset()
}

func (w window) AtBottom() bool {
	return w.offset >= w.maxOffset()
}

// Visible returns the half-open range of rows on screen.
func (w window) Visible() (from, to int) {
	return w.offset, min(w.offset+w.height, w.rows)
}

// RowAt maps a y coordinate relative to the window's top edge to a row.
func (w window) RowAt(y int) (int, bool) {
	if y < 0 || y >= w.height {
		return 0, false
	}
	row := w.offset + y
	if row >= w.rows {
		return 0, false
	}
	return row, true
}

func (w window) ScrollPercent() float64 {
	if w.maxOffset() == 0 {
		return 1
	}
	return float64(w.offset) / float64(w.maxOffset())
}

// View renders the visible rows, padding with empty lines to the full height.
func (w window) View(render func(row int) string) string {
	if w.height == 0 {
		return ""
	}
	from, to := w.Visible()
	out := make([]string, 0, w.height)
	for row := from; row < to; row++ {
		out = append(out, render(row))
	}
	for len(out) < w.height {
		out = append(out, "")
	}
	return strings.Join(out, "\n")
}
