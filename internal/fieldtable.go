package aqitop

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// FieldTable shows every raw measurement of one point as a header row of
// field names over a row of values. When the columns exceed maxWidth the
// table is split into several tables stacked vertically.
type FieldTable struct {
	fields      map[string]float64
	highlight   string
	maxWidth    int
	borderStyle lipgloss.Style
}

// NewFieldTable creates a table over fields
func NewFieldTable(fields map[string]float64) *FieldTable {
	return &FieldTable{
		fields:      fields,
		borderStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// Highlight emphasises the column of the selected metric
func (ft *FieldTable) Highlight(key string) *FieldTable {
	ft.highlight = key
	return ft
}

// MaxWidth sets the width each table must fit in
func (ft *FieldTable) MaxWidth(width int) *FieldTable {
	ft.maxWidth = width
	return ft
}

// Keys returns the field names: catalog metrics first in catalog order,
// then any other fields alphabetically
func (ft *FieldTable) Keys() []string {
	keys := make([]string, 0, len(ft.fields))
	for _, m := range catalog {
		if _, ok := ft.fields[m.Key]; ok {
			keys = append(keys, m.Key)
		}
	}
	var rest []string
	for k := range ft.fields {
		if metricIndex(k) < 0 {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// Render renders the tables, or "" when there are no fields
func (ft *FieldTable) Render() string {
	keys := ft.Keys()
	if len(keys) == 0 {
		return ""
	}

	// Split keys into chunks whose rendered width fits maxWidth; each
	// column costs its widest cell plus padding and a border
	var chunks [][]string
	var chunk []string
	chunkWidth := 1
	for _, k := range keys {
		w := max(lipgloss.Width(k), lipgloss.Width(FormatValue(ft.fields[k]))) + 3
		if ft.maxWidth > 0 && len(chunk) > 0 && chunkWidth+w > ft.maxWidth {
			chunks = append(chunks, chunk)
			chunk, chunkWidth = nil, 1
		}
		chunk = append(chunk, k)
		chunkWidth += w
	}
	chunks = append(chunks, chunk)

	tables := make([]string, 0, len(chunks))
	for _, c := range chunks {
		values := make([]string, len(c))
		for i, k := range c {
			values[i] = FormatValue(ft.fields[k])
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(ft.borderStyle).
			StyleFunc(ft.cellStyle(c)).
			Headers(c...).
			Rows(values)
		tables = append(tables, t.String())
	}

	return lipgloss.JoinVertical(lipgloss.Left, tables...)
}

func (ft *FieldTable) cellStyle(keys []string) table.StyleFunc {
	base := lipgloss.NewStyle().Padding(0, 1)
	return func(row, col int) lipgloss.Style {
		style := base
		if row == table.HeaderRow {
			style = style.Foreground(lipgloss.Color("214")).Bold(true)
		}
		if col < len(keys) && keys[col] == ft.highlight {
			style = style.Foreground(lipgloss.Color("170")).Bold(true)
		}
		return style
	}
}

// String is a convenience method that calls Render
func (ft *FieldTable) String() string {
	return ft.Render()
}
