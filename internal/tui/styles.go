package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#7D56F4")
	colorAccent  = lipgloss.Color("#04B575")
	colorDanger  = lipgloss.Color("#FF5F87")
	colorMuted   = lipgloss.Color("#626262")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(colorPrimary).
			Padding(0, 2)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	paramLabelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Width(22)

	paramValueStyle = lipgloss.NewStyle().
			Bold(true)

	selectedParamStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorPrimary)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 2).
			Width(28)

	bestCardStyle = cardStyle.
			BorderForeground(colorAccent)

	taxStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorDanger)

	savedStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	warnStyle = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)
