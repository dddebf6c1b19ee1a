package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	primaryColor = lipgloss.Color("#A78BFA") // Purple
	agreeColor   = lipgloss.Color("#10B981") // Green
	warnColor    = lipgloss.Color("#F59E0B") // Amber
	rejectColor  = lipgloss.Color("#F87171") // Red
	mutedColor   = lipgloss.Color("#9CA3AF") // Gray
	borderColor  = lipgloss.Color("#6B7280")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	phaseStyle = lipgloss.NewStyle().
			Foreground(warnColor)

	agreeStyle = lipgloss.NewStyle().
			Foreground(agreeColor)

	disagreeStyle = lipgloss.NewStyle().
			Foreground(rejectColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	consensusStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(agreeColor)

	noConsensusStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(warnColor)

	draftBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)
)
