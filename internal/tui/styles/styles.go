package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Title is the heading above detail views.
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(White)

	// Label is used for field names in detail views.
	Label = lipgloss.NewStyle().
		Foreground(Gray).
		Bold(true)

	// MutedText is for hints and placeholders.
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)

	// ErrorText is for failures reported inline.
	ErrorText = lipgloss.NewStyle().
			Foreground(Red)
)

// StatusStyle returns the style for a server or service status word.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case "active", "ok":
		return lipgloss.NewStyle().Foreground(Green)
	case "pending":
		return lipgloss.NewStyle().Foreground(Yellow)
	case "inactive", "failed":
		return lipgloss.NewStyle().Foreground(Red)
	default:
		return lipgloss.NewStyle().Foreground(Gray)
	}
}

// StatusIndicator returns a colored dot followed by the status word.
func StatusIndicator(status string) string {
	style := StatusStyle(status)
	return style.Render("●") + " " + style.Render(status)
}

// ActiveStatus maps an active flag to its status word.
func ActiveStatus(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}
