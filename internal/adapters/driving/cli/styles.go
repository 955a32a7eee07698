package cli

import "github.com/charmbracelet/lipgloss"

// Colours follow the default terminal theme.
var (
	primary = lipgloss.Color("#7C3AED")
	muted   = lipgloss.Color("#6C7086")
	success = lipgloss.Color("#A6E3A1")
	warning = lipgloss.Color("#F9E2AF")
	failure = lipgloss.Color("#F38BA8")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(primary)
	labelStyle   = lipgloss.NewStyle().Foreground(muted).Width(18)
	valueStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(success)
	warningStyle = lipgloss.NewStyle().Foreground(warning)
	errorStyle   = lipgloss.NewStyle().Foreground(failure)
	boxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1)
)

// row renders one aligned label/value line.
func row(label string, value any) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		labelStyle.Render(label),
		valueStyle.Render(fmtValue(value)),
	)
}

// progressStyle picks a colour for a completion percentage.
func progressStyle(pct float64) lipgloss.Style {
	switch {
	case pct >= 100:
		return successStyle
	case pct > 0:
		return warningStyle
	default:
		return errorStyle
	}
}
