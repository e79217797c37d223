package aqitop

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Pane is a bordered panel with a centred title, used for each history chart.
//
// Example usage:
//
//	pane := NewPane("24 Hour History", 80).
//	    SetContent(HoursChart.Render(points, metric, 76, -1, time.Local)).
//	    SetFocused(true)
//	fmt.Println(pane.Render())
type Pane struct {
	title       string
	content     string
	width       int
	borderStyle lipgloss.Style
	titleStyle  lipgloss.Style
	focused     bool
}

// NewPane creates a pane width columns wide, borders included
func NewPane(title string, width int) Pane {
	return Pane{
		title: title,
		width: width,
		borderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")),
		titleStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Bold(true),
	}
}

// SetContent sets the pane content
func (p Pane) SetContent(content string) Pane {
	p.content = content
	return p
}

// SetFocused highlights the border of the pane the cursor keys act on
func (p Pane) SetFocused(focused bool) Pane {
	p.focused = focused
	if focused {
		p.borderStyle = p.borderStyle.BorderForeground(lipgloss.Color("170"))
	} else {
		p.borderStyle = p.borderStyle.BorderForeground(lipgloss.Color("240"))
	}
	return p
}

// ContentWidth is the width available inside the border
func (p Pane) ContentWidth() int {
	return max(1, p.width-2)
}

// Render draws the pane
func (p Pane) Render() string {
	var b strings.Builder

	if p.title != "" {
		b.WriteString(lipgloss.PlaceHorizontal(p.ContentWidth(), lipgloss.Center, p.titleStyle.Render(p.title)))
		b.WriteString("\n")
	}
	b.WriteString(p.content)

	return p.borderStyle.
		Width(p.ContentWidth()).
		Render(b.String())
}
