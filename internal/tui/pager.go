package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/noborus/ov/oviewer"

	"github.com/altinukshini/logview/internal/ui"
)

// pager hands the terminal to ov to show the raw log, then takes it back.
// It is shared by pointer between copies of App so SetProgram reaches the
// model the program runs.
type pager struct {
	program *tea.Program
}

func (p *pager) Open(content string) tea.Cmd {
	return func() tea.Msg {
		return ui.PagerClosedMsg{Err: p.run(content)}
	}
}

func (p *pager) run(content string) error {
	if p.program == nil {
		return fmt.Errorf("program not set")
	}

	if err := p.program.ReleaseTerminal(); err != nil {
		return fmt.Errorf("release terminal: %w", err)
	}
	// Restore even if ov fails
	defer func() {
		// Give ov time to exit fully before taking the terminal back
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return fmt.Errorf("open pager: %w", err)
	}

	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
