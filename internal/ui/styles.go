package ui

import "github.com/charmbracelet/lipgloss"

var (
	ColorPrimary   = lipgloss.Color("#7C3AED")
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorFailure   = lipgloss.Color("#EF4444")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorInfo      = lipgloss.Color("#3B82F6")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorBorder    = lipgloss.Color("#374151")
	ColorHighlight = lipgloss.Color("#1F2937")

	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F9FAFB")).
			Background(ColorPrimary).
			Padding(0, 1)

	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleFailure = lipgloss.NewStyle().Foreground(ColorFailure)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleInfo    = lipgloss.NewStyle().Foreground(ColorInfo)
	StyleMuted   = lipgloss.NewStyle().Foreground(ColorMuted)

	// Every occurrence of the query
	StyleMatch = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F9FAFB")).
			Background(lipgloss.Color("#374151"))

	// The occurrence under the navigation cursor
	StyleActiveMatch = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FCD34D")).
				Background(lipgloss.Color("#92400E"))

	StyleGutter         = lipgloss.NewStyle().Foreground(ColorMuted)
	StyleGutterSelected = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F9FAFB")).Background(ColorPrimary)
	StylePointer        = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
)

func StatusIcon(conclusion string) string {
	switch conclusion {
	case "success":
		return StyleSuccess.Render("V")
	case "failure":
		return StyleFailure.Render("X")
	case "cancelled":
		return StyleWarning.Render("!")
	case "skipped":
		return StyleMuted.Render("-")
	case "in_progress":
		return StyleInfo.Render("*")
	case "queued", "waiting", "pending":
		return StyleMuted.Render("o")
	default:
		return StyleMuted.Render("?")
	}
}
