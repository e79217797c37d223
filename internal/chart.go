package aqitop

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/prometheus/common/model"
)

// Chart describes one history panel
type Chart struct {
	Series        Series
	Title         string
	TickLayout    string // x axis labels
	TooltipLayout string // cursor readout
}

var (
	HoursChart = Chart{
		Series:        Hours,
		Title:         "24 Hour History",
		TickLayout:    "15:04",
		TooltipLayout: "Jan 02, 15:04",
	}
	DaysChart = Chart{
		Series:        Days,
		Title:         "7 Day History",
		TickLayout:    "02 15:04",
		TooltipLayout: "Jan 02, 2006 15:04",
	}
)

// ChartFor returns the panel configuration of a series
func ChartFor(s Series) Chart {
	if s == Days {
		return DaysChart
	}
	return HoursChart
}

// BodyHeight is the fixed height of a chart body: plot rows, x axis,
// cursor marker and tooltip
func BodyHeight() int {
	return CHART_HEIGHT + 3
}

// YDomain returns the y axis bounds for points. The CO2 chart is pinned
// to CO2_FLOOR at the bottom whatever the data minimum.
func YDomain(points []Point, metric string) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, p := range points {
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			continue
		}
		lo = math.Min(lo, p.Value)
		hi = math.Max(hi, p.Value)
	}
	if math.IsInf(lo, 1) {
		return 0, 0, false
	}
	if metric == CO2 {
		lo = CO2_FLOOR
		hi = math.Max(hi, CO2_FLOOR)
	}
	return lo, hi, true
}

// XDomain returns the earliest and latest point time
func XDomain(points []Point) (lo, hi model.Time, ok bool) {
	if len(points) == 0 {
		return 0, 0, false
	}
	lo, hi = points[0].Time, points[0].Time
	for _, p := range points[1:] {
		if p.Time < lo {
			lo = p.Time
		}
		if p.Time > hi {
			hi = p.Time
		}
	}
	return lo, hi, true
}

// Resample spreads points over columns evenly spaced in time between lo and
// hi, interpolating linearly. Points must be in ascending time order.
func Resample(points []Point, lo, hi model.Time, columns int) []float64 {
	if len(points) == 0 || columns < 1 {
		return nil
	}
	out := make([]float64, columns)
	if hi <= lo || columns == 1 {
		for i := range out {
			out[i] = points[len(points)-1].Value
		}
		return out
	}

	span := float64(hi - lo)
	for i := range out {
		t := float64(lo) + span*float64(i)/float64(columns-1)
		j := sort.Search(len(points), func(k int) bool {
			return float64(points[k].Time) >= t
		})
		switch {
		case j >= len(points):
			out[i] = points[len(points)-1].Value
		case j == 0 || float64(points[j].Time) == t:
			out[i] = points[j].Value
		default:
			a, b := points[j-1], points[j]
			frac := (t - float64(a.Time)) / float64(b.Time-a.Time)
			out[i] = a.Value + (b.Value-a.Value)*frac
		}
	}
	return out
}

// clamp limits values to [lo, hi]; NaN gaps are kept
func clamp(values []float64, lo, hi float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		switch {
		case math.IsNaN(v):
			out[i] = v
		case v < lo:
			out[i] = lo
		case v > hi:
			out[i] = hi
		default:
			out[i] = v
		}
	}
	return out
}

// column maps t onto one of columns plot columns
func column(t, lo, hi model.Time, columns int) int {
	if hi <= lo || columns <= 1 {
		return columns - 1
	}
	c := int(math.Round(float64(t-lo) / float64(hi-lo) * float64(columns-1)))
	return max(0, min(c, columns-1))
}

// XTicks lays out time labels along columns, always keeping the first and
// last label
func XTicks(lo, hi model.Time, columns int, layout string, loc *time.Location) string {
	if columns < 1 {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	line := []rune(strings.Repeat(" ", columns))
	label := func(col int) []rune {
		t := lo
		if columns > 1 {
			t = lo + model.Time(math.Round(float64(hi-lo)*float64(col)/float64(columns-1)))
		}
		return []rune(t.Time().In(loc).Format(layout))
	}

	// occupied marks cells already written, plus one cell of spacing
	occupied := make([]bool, columns)
	place := func(col int, anchor lipgloss.Position) {
		text := label(col)
		if len(text) > columns {
			return
		}
		start := col - int(float64(len(text)-1)*float64(anchor))
		start = max(0, min(start, columns-len(text)))
		for i := max(0, start-1); i < min(columns, start+len(text)+1); i++ {
			if occupied[i] {
				return
			}
		}
		for i, r := range text {
			line[start+i] = r
			occupied[start+i] = true
		}
	}

	place(0, lipgloss.Left)
	place(columns-1, lipgloss.Right)
	n := columns / 16
	for k := 1; k < n; k++ {
		place(k*(columns-1)/n, lipgloss.Center)
	}

	return strings.TrimRight(string(line), " ")
}

// FormatValue renders a metric value the way the tooltip shows it
func FormatValue(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Tooltip renders the readout for the point under the cursor
func (c Chart) Tooltip(p Point, metric Metric, loc *time.Location) string {
	return formatMeasureTime(p.FullTime, c.TooltipLayout, loc) + "  " + metric.Display + ": " + FormatValue(p.Value)
}

func plotOptions(lo, hi float64, height int) []asciigraph.Option {
	return []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.LowerBound(lo),
		asciigraph.UpperBound(hi),
		asciigraph.Precision(1),
	}
}

// plotGutter measures the width taken by the y axis labels for a domain
func plotGutter(lo, hi float64, height int) int {
	probe := asciigraph.Plot([]float64{lo, hi}, plotOptions(lo, hi, height)...)
	first, _, _ := strings.Cut(probe, "\n")
	for i, r := range []rune(first) {
		if r == '┤' || r == '┼' {
			return i
		}
	}
	return 0
}

// Render draws the chart body for width terminal columns. cursor indexes
// points; a negative cursor hides the marker and tooltip.
func (c Chart) Render(points []Point, metric Metric, width, cursor int, loc *time.Location) string {
	body := lipgloss.NewStyle().Width(width).Height(BodyHeight())

	ylo, yhi, okY := YDomain(points, metric.Key)
	xlo, xhi, okX := XDomain(points)
	if !okY || !okX {
		return body.Render(c.renderEmpty(width))
	}
	if yhi == ylo {
		yhi = ylo + 1
	}

	height := CHART_HEIGHT - 1
	gutter := plotGutter(ylo, yhi, height)
	columns := max(2, width-gutter-1)

	values := clamp(Resample(points, xlo, xhi, columns), ylo, yhi)
	plot := asciigraph.Plot(values, plotOptions(ylo, yhi, height)...)

	lineStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	var b strings.Builder
	b.WriteString(lineStyle.Render(plot))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(strings.Repeat(" ", gutter) + XTicks(xlo, xhi, columns, c.TickLayout, loc)))

	if cursor >= 0 && cursor < len(points) {
		p := points[cursor]
		col := column(p.Time, xlo, xhi, columns)
		markerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Bold(true)
		b.WriteString("\n")
		b.WriteString(strings.Repeat(" ", gutter+col) + markerStyle.Render("▲"))
		b.WriteString("\n")
		b.WriteString(markerStyle.Render(c.Tooltip(p, metric, loc)))
	}

	return body.Render(b.String())
}

// renderEmpty draws the axes frame with a "No data" label
func (c Chart) renderEmpty(width int) string {
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	inner := max(1, width-2)
	rows := make([]string, 0, CHART_HEIGHT+1)
	for i := 0; i < CHART_HEIGHT; i++ {
		if i == CHART_HEIGHT/2 {
			rows = append(rows, "│"+lipgloss.PlaceHorizontal(inner, lipgloss.Center, "No data"))
			continue
		}
		rows = append(rows, "│")
	}
	rows = append(rows, "└"+strings.Repeat("─", inner))
	return mutedStyle.Render(strings.Join(rows, "\n"))
}
