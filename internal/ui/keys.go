package ui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit     key.Binding
	Help     key.Binding
	Back     key.Binding
	Search   key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding

	// Search navigation outside the query field
	NextMatch    key.Binding
	PrevMatch    key.Binding
	ToggleFilter key.Binding

	// Search navigation inside the query field
	InputNext   key.Binding
	InputPrev   key.Binding
	InputFilter key.Binding

	Select key.Binding
	Copy   key.Binding
	Pager  key.Binding
}

var Keys = KeyMap{
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k/up", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j/down", "down")),
	PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
	PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
	Top:      key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
	Bottom:   key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),

	NextMatch:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next match")),
	PrevMatch:    key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "prev match")),
	ToggleFilter: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),

	InputNext:   key.NewBinding(key.WithKeys("enter", "ctrl+n"), key.WithHelp("enter", "next")),
	// Most terminals send shift+enter as a plain enter; ctrl+p is the reliable key.
	InputPrev:   key.NewBinding(key.WithKeys("shift+enter", "ctrl+p"), key.WithHelp("ctrl+p", "prev")),
	InputFilter: key.NewBinding(key.WithKeys("alt+enter", "ctrl+f"), key.WithHelp("M-enter", "filter")),

	Select: key.NewBinding(key.WithKeys(" ", "v"), key.WithHelp("space/v", "select line")),
	Copy:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy line")),
	Pager:  key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open in pager")),
}
