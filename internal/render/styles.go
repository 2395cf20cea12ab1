package render

import "github.com/charmbracelet/lipgloss"

var (
	userColor      = lipgloss.Color("#2563EB") // Blue
	assistantColor = lipgloss.Color("#4F46E5") // Indigo
	mutedColor     = lipgloss.Color("#6B7280") // Gray
	codeColor      = lipgloss.Color("#F59E0B") // Amber

	userLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(userColor)

	assistantLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(assistantColor)

	hintStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	headingStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	strongStyle   = lipgloss.NewStyle().Bold(true)
	emphasisStyle = lipgloss.NewStyle().Italic(true)
	codeStyle     = lipgloss.NewStyle().Foreground(codeColor)
	quoteStyle    = lipgloss.NewStyle().Foreground(mutedColor)
)
