package aqitop

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// MetricSelector is the row of mutually exclusive metric toggles
type MetricSelector struct {
	metrics  []Metric
	selected int
	width    int
}

// NewMetricSelector creates a selector over the catalog with DefaultMetric active
func NewMetricSelector() *MetricSelector {
	return &MetricSelector{
		metrics:  Metrics(),
		selected: metricIndex(DefaultMetric),
		width:    80,
	}
}

// SetWidth sets the width the buttons wrap at
func (s *MetricSelector) SetWidth(width int) *MetricSelector {
	s.width = width
	return s
}

// Select activates the metric with the given key; unknown keys are ignored
func (s *MetricSelector) Select(key string) *MetricSelector {
	for i, m := range s.metrics {
		if m.Key == key {
			s.selected = i
		}
	}
	return s
}

// SelectIndex activates the metric at index
func (s *MetricSelector) SelectIndex(index int) *MetricSelector {
	if index >= 0 && index < len(s.metrics) {
		s.selected = index
	}
	return s
}

// Next moves to the next metric (wraps around)
func (s *MetricSelector) Next() *MetricSelector {
	if len(s.metrics) > 0 {
		s.selected = (s.selected + 1) % len(s.metrics)
	}
	return s
}

// Prev moves to the previous metric (wraps around)
func (s *MetricSelector) Prev() *MetricSelector {
	if len(s.metrics) > 0 {
		s.selected = (s.selected - 1 + len(s.metrics)) % len(s.metrics)
	}
	return s
}

// Selected returns the active metric
func (s *MetricSelector) Selected() Metric {
	return s.metrics[s.selected]
}

// Render draws the buttons, wrapping onto new rows when they exceed the width
func (s *MetricSelector) Render() string {
	activeStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("255")).
		Background(lipgloss.Color("33")).
		Bold(true).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("33"))

	inactiveStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240"))

	var rows []string
	var row []string
	rowWidth := 0
	for i, m := range s.metrics {
		label := fmt.Sprintf("%d %s", i+1, m.Display)
		var button string
		if i == s.selected {
			button = activeStyle.Render(label)
		} else {
			button = inactiveStyle.Render(label)
		}

		w := lipgloss.Width(button)
		if len(row) > 0 && rowWidth+w > s.width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row, rowWidth = nil, 0
		}
		row = append(row, button)
		rowWidth += w
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
