package aqitop

import (
	"github.com/charmbracelet/lipgloss"
)

// Vertical renders panes stacked vertically
func Vertical(panes ...Pane) string {
	if len(panes) == 0 {
		return ""
	}

	views := make([]string, len(panes))
	for i, pane := range panes {
		views[i] = pane.Render()
	}

	return lipgloss.JoinVertical(lipgloss.Left, views...)
}

// ErrorPanel renders message centred in a width x height area
func ErrorPanel(width, height int, message string) string {
	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")).
		Bold(true).
		MarginBottom(1)
	messageStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("196"))

	content := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("Error loading data"),
		messageStyle.Render(message),
	)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
