package logview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/altinukshini/logview/internal/model"
	"github.com/altinukshini/logview/internal/ui"
)

const noHighlight = -1

// renderLine draws the text of one line. Every occurrence gets the match
// style; the occurrence with index highlight gets the active style. Lines
// without occurrences keep their original styling.
func renderLine(line model.Line, occs []model.Occurrence, highlight int) string {
	if len(occs) == 0 {
		if line.Raw != line.Text {
			return line.Raw + ansi.ResetStyle
		}
		return line.Raw
	}

	text := []rune(line.Text)
	var b strings.Builder
	prev := 0
	for _, occ := range occs {
		b.WriteString(string(text[prev:occ.Start]))
		style := ui.StyleMatch
		if occ.Index == highlight {
			style = ui.StyleActiveMatch
		}
		b.WriteString(style.Render(string(text[occ.Start:occ.End])))
		prev = occ.End
	}
	b.WriteString(string(text[prev:]))
	return b.String()
}

func gutterWidth(lastLine int) int {
	return len(fmt.Sprint(max(lastLine, 1)))
}

type rowStyle struct {
	occurrences []model.Occurrence
	highlight   int
	selected    bool
	pointer     bool
}

// renderRow prefixes the rendered line with the pointer mark and its line
// number, and cuts it to width.
func renderRow(line model.Line, st rowStyle, gutter, width int) string {
	mark := " "
	if st.pointer {
		mark = ui.StylePointer.Render("›")
	}
	num := fmt.Sprintf("%*d ", gutter, line.Number)
	if st.selected {
		num = ui.StyleGutterSelected.Render(num)
	} else {
		num = ui.StyleGutter.Render(num)
	}
	row := mark + num + renderLine(line, st.occurrences, st.highlight)
	if width > 0 {
		row = ansi.Truncate(row, width, "…")
	}
	return row
}
