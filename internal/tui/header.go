package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Lines the header occupies above the log view.
const headerLines = 1

func RenderHeader(source, badge string, width int) string {
	left := lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.Color("#F9FAFB")).
		Render(fmt.Sprintf(" logview | %s", source))

	right := lipgloss.NewStyle().Render(badge)

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	padding := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.NewStyle().
		Background(lipgloss.Color("#1F2937")).
		Width(width).
		MaxWidth(width).
		Render(left + padding + right)
}
