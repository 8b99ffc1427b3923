package logview

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/logview/internal/linesource"
	"github.com/altinukshini/logview/internal/model"
	"github.com/altinukshini/logview/internal/search"
	"github.com/altinukshini/logview/internal/ui"
)

const wheelStep = 3

type Model struct {
	source  *linesource.Source
	name    string
	content string
	lines   []model.Line
	width   int
	height  int
	ready   bool
	loading bool

	// Search state. result and rows are derived in recompute and replaced
	// wholesale, never edited in place.
	searchInput textinput.Model
	searching   bool
	query       string // normalized
	filter      bool
	result      model.MatchResult
	rows        []model.Line // displayed sequence: all lines or matching lines
	cursor      search.Cursor

	sync      Synchronizer
	selection Selection
	win       window
	pointer   int // keyboard line pointer, a displayed row kept on screen

	// Live tailing for in-progress jobs and followed files
	tailing bool
}

func New() Model {
	ti := textinput.New()
	ti.Placeholder = "Search in log..."
	ti.CharLimit = 256
	ti.Prompt = "/"
	return Model{source: linesource.New(), searchInput: ti}
}

// SetContent replaces the log with an unrelated one and clears search and
// selection state.
func (m *Model) SetContent(name, content string) {
	m.name = name
	m.loading = false
	m.source.Reset()
	m.searchInput.SetValue("")
	m.query = ""
	m.cursor.Reset()
	m.sync = Synchronizer{}
	m.selection = Selection{}
	m.pointer = 0
	m.win.GotoTop()
	m.layout()
	m.setContent(content)
}

// UpdateContent replaces the log text while keeping search state and scroll
// position. If the view was at the bottom and nothing is being navigated to,
// it stays at the bottom.
func (m *Model) UpdateContent(content string) {
	wasAtBottom := m.win.AtBottom()
	m.loading = false
	m.setContent(content)
	if wasAtBottom && m.tailing {
		m.sync.Follow(m.rows, m.scroller())
	}
}

func (m *Model) setContent(content string) {
	m.content = content
	m.lines = m.source.Process(content)
	m.recompute()
}

// recompute runs the derivation chain: matches, displayed rows, active
// occurrence, scroll. It must run to completion on every change of query,
// filter mode or line set.
func (m *Model) recompute() {
	m.result = search.ComputeMatches(m.lines, m.query)
	if m.filter {
		m.rows = m.result.Lines
	} else {
		m.rows = m.lines
	}
	m.win.SetRows(len(m.rows))
	m.syncViewport()
}

func (m *Model) syncViewport() {
	occ, ok := search.Active(m.result, m.cursor)
	m.sync.Sync(occ, ok, m.rows, m.scroller())
}

func (m *Model) scroller() Scroller {
	if !m.ready {
		return nil
	}
	return &m.win
}

// SetQuery sets the search text. The cursor is reset whenever the normalized
// query changes.
func (m *Model) SetQuery(q string) {
	nq := search.NormalizeQuery(q)
	if nq == m.query {
		return
	}
	m.query = nq
	m.cursor.Reset()
	m.layout()
	m.recompute()
}

func (m *Model) SetFilterMode(on bool) {
	if on == m.filter {
		return
	}
	m.filter = on
	m.cursor.Reset()
	m.recompute()
}

func (m *Model) ToggleFilterMode() {
	m.SetFilterMode(!m.filter)
}

func (m *Model) NextMatch() {
	m.cursor.Next(m.result.Count())
	m.syncViewport()
}

func (m *Model) PrevMatch() {
	m.cursor.Prev(m.result.Count())
	m.syncViewport()
}

// SelectLine marks a line as selected. It never scrolls.
func (m *Model) SelectLine(lineNumber int) {
	m.selection.Select(lineNumber)
}

// SelectedLine returns the selected line if it is still part of the log.
func (m Model) SelectedLine() (model.Line, bool) {
	n, ok := m.selection.Line()
	if !ok || n < 1 || n > len(m.lines) {
		return model.Line{}, false
	}
	return m.lines[n-1], true
}

// pointerRow returns the keyboard line pointer clamped to the visible rows.
func (m Model) pointerRow() (int, bool) {
	from, to := m.win.Visible()
	if from >= to {
		return 0, false
	}
	return min(max(m.pointer, from), to-1), true
}

// movePointer moves the line pointer by delta rows, scrolling when it would
// leave the window.
func (m *Model) movePointer(delta int) {
	row, ok := m.pointerRow()
	if !ok {
		return
	}
	row = min(max(row+delta, 0), len(m.rows)-1)
	from, to := m.win.Visible()
	switch {
	case row < from:
		m.win.ScrollBy(row - from)
	case row >= to:
		m.win.ScrollBy(row - to + 1)
	}
	m.pointer = row
}

// SetName renames the log without touching its content.
func (m *Model) SetName(name string) {
	m.name = name
}

func (m *Model) SetLoading() {
	m.loading = true
}

func (m *Model) SetTailing(tailing bool) {
	m.tailing = tailing
}

func (m Model) IsTailing() bool {
	return m.tailing
}

func (m Model) IsSearching() bool {
	return m.searching
}

func (m Model) Query() string {
	return m.query
}

func (m Model) FilterMode() bool {
	return m.filter
}

func (m Model) Content() string {
	return m.content
}

func (m Model) Name() string {
	return m.name
}

// Rows returns the displayed line sequence.
func (m Model) Rows() []model.Line {
	return m.rows
}

func (m Model) Matches() model.MatchResult {
	return m.result
}

// ActiveOccurrence returns the occurrence under the navigation cursor.
func (m Model) ActiveOccurrence() (model.Occurrence, bool) {
	return search.Active(m.result, m.cursor)
}

// MatchPosition returns the 1-based position of the active occurrence and the
// occurrence count. ok is false when no query is active.
func (m Model) MatchPosition() (pos, total int, ok bool) {
	if m.query == "" {
		return 0, 0, false
	}
	pos, total, _ = m.cursor.Position(m.result.Count())
	return pos, total, true
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}

		switch {
		case key.Matches(msg, ui.Keys.Search):
			m.searching = true
			m.searchInput.Focus()
			m.layout()
			return m, textinput.Blink
		case key.Matches(msg, ui.Keys.NextMatch):
			m.NextMatch()
		case key.Matches(msg, ui.Keys.PrevMatch):
			m.PrevMatch()
		case key.Matches(msg, ui.Keys.ToggleFilter):
			m.ToggleFilterMode()
		case key.Matches(msg, ui.Keys.Back):
			if m.query != "" {
				m.searchInput.SetValue("")
				m.SetQuery("")
			}
		case key.Matches(msg, ui.Keys.Select):
			if row, ok := m.pointerRow(); ok {
				m.SelectLine(m.rows[row].Number)
			}
		case key.Matches(msg, ui.Keys.Copy):
			return m, m.copySelected()
		case key.Matches(msg, ui.Keys.Up):
			m.movePointer(-1)
		case key.Matches(msg, ui.Keys.Down):
			m.movePointer(1)
		case key.Matches(msg, ui.Keys.PageUp):
			m.win.ScrollBy(-m.win.height)
		case key.Matches(msg, ui.Keys.PageDown):
			m.win.ScrollBy(m.win.height)
		case key.Matches(msg, ui.Keys.Top):
			m.win.GotoTop()
			m.pointer = 0
		case key.Matches(msg, ui.Keys.Bottom):
			m.win.GotoBottom()
			m.pointer = len(m.rows) - 1
		}
		return m, nil

	case tea.MouseMsg:
		return m.updateMouse(msg), nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.searchInput.Width = max(msg.Width-4, 1)
		m.ready = true
		m.layout()
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, ui.Keys.InputNext):
		m.NextMatch()
		return m, nil
	case key.Matches(msg, ui.Keys.InputPrev):
		m.PrevMatch()
		return m, nil
	case key.Matches(msg, ui.Keys.InputFilter):
		m.ToggleFilterMode()
		return m, nil
	case key.Matches(msg, ui.Keys.Back):
		m.searching = false
		m.searchInput.Blur()
		m.layout()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.SetQuery(m.searchInput.Value())
	return m, cmd
}

func (m Model) updateMouse(msg tea.MouseMsg) Model {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.win.ScrollBy(-wheelStep)
	case tea.MouseButtonWheelDown:
		m.win.ScrollBy(wheelStep)
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			break
		}
		if row, ok := m.win.RowAt(msg.Y - m.chromeHeight()); ok {
			m.pointer = row
			m.SelectLine(m.rows[row].Number)
		}
	}
	return m
}

func (m Model) copySelected() tea.Cmd {
	line, ok := m.SelectedLine()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		err := clipboard.WriteAll(line.Text)
		return ui.ClipboardMsg{LineNumber: line.Number, Err: err}
	}
}

func (m Model) searchBarVisible() bool {
	return m.searching || m.query != ""
}

// chromeHeight is the number of lines above the first log row.
func (m Model) chromeHeight() int {
	if m.searchBarVisible() {
		return 2
	}
	return 1
}

func (m *Model) layout() {
	if !m.ready {
		return
	}
	m.win.SetSize(m.width, m.height-m.chromeHeight())
}

func (m Model) View() string {
	if m.loading {
		return "\n  Loading logs..."
	}
	if m.name == "" && m.content == "" {
		return "\n  No log loaded"
	}

	header := m.renderHeader()
	body := m.renderRows()
	if m.searchBarVisible() {
		return header + "\n" + m.renderSearchBar() + "\n" + body
	}
	return header + "\n" + body
}

func (m Model) renderHeader() string {
	tags := ""
	if m.tailing {
		tags += lipgloss.NewStyle().Bold(true).Foreground(ui.ColorSuccess).Render(" [LIVE]")
	}
	if m.filter {
		tags += lipgloss.NewStyle().Bold(true).Foreground(ui.ColorWarning).Render(" [FILTER]")
	}
	headerParts := fmt.Sprintf(" %s  %d lines  %3.f%%", m.name, len(m.lines), m.win.ScrollPercent()*100)
	return lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.Color("#F9FAFB")).
		Render(headerParts) + tags
}

func (m Model) renderSearchBar() string {
	bar := "  " + m.searchInput.View()
	if !m.searching {
		bar = "  " + ui.StyleMuted.Render("/"+m.searchInput.Value())
	}
	pos, total, ok := m.MatchPosition()
	switch {
	case !ok:
	case total == 0:
		bar += ui.StyleFailure.Render("  [no matches]")
	case pos == 0:
		bar += ui.StyleInfo.Render(fmt.Sprintf("  [%d matches]", total))
	default:
		bar += ui.StyleInfo.Render(fmt.Sprintf("  [%d/%d]", pos, total))
	}
	return bar
}

func (m Model) renderRows() string {
	if len(m.rows) == 0 {
		if m.filter && m.query != "" {
			return ui.StyleMuted.Render("  No matching lines")
		}
		return ""
	}

	active, hasActive := m.ActiveOccurrence()
	pointer, _ := m.pointerRow()
	gutter := gutterWidth(m.lines[len(m.lines)-1].Number)
	return m.win.View(func(row int) string {
		line := m.rows[row]
		highlight := noHighlight
		if hasActive && active.LineNumber == line.Number {
			highlight = active.Index
		}
		return renderRow(line, rowStyle{
			occurrences: m.result.OccurrencesIn(line.Number),
			highlight:   highlight,
			selected:    m.selection.IsSelected(line.Number),
			pointer:     row == pointer,
		}, gutter, m.win.width)
	})
}
