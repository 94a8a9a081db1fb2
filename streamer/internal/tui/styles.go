package tui

import "github.com/charmbracelet/lipgloss"

var (
	styleTitle    = lipgloss.NewStyle().Bold(true)
	styleHint     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleLabel    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).MarginTop(1)
	styleEnabled  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	styleDisabled = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Faint(true)
	styleError    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))

	styleResponse = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

func button(label string, enabled bool) string {
	if enabled {
		return styleEnabled.Render(label)
	}
	return styleDisabled.Render(label)
}
