package aqitop

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Fetcher reads one history window; *HistoryClient implements it
type Fetcher interface {
	Fetch(ctx context.Context, series Series) ([]Sample, error)
}

// Config holds the presentation settings of the dashboard
type Config struct {
	Title        string
	Subtitle     string
	PollInterval time.Duration
	Location     *time.Location
}

type dashboardModel struct {
	ctx       context.Context
	source    Fetcher
	logger    log.Logger
	config    Config
	caches    [2]*Cache
	points    [2][]Point
	deriveErr error
	selector  *MetricSelector
	focused   Series
	cursor    [2]int // -1 follows the newest point
	spinner   spinner.Model
	width     int
	height    int
	ready     bool
}

// fetchedMsg carries the result of one history request
type fetchedMsg struct {
	series  Series
	samples []Sample
	err     error
}

// pollMsg fires when a series is due to be fetched again
type pollMsg struct {
	series     Series
	generation int
}

func NewDashboard(ctx context.Context, source Fetcher, config Config, logger log.Logger) dashboardModel {
	if config.PollInterval <= 0 {
		config.PollInterval = PollDuration()
	}
	if config.Location == nil {
		config.Location = time.Local
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))

	m := dashboardModel{
		ctx:      ctx,
		source:   source,
		logger:   logger,
		config:   config,
		selector: NewMetricSelector(),
		focused:  Hours,
		cursor:   [2]int{-1, -1},
		spinner:  s,
	}
	for _, series := range AllSeries {
		m.caches[series] = NewCache(series)
		// the first fetch is issued by Init
		m.caches[series].Begin()
	}
	return m
}

func (m dashboardModel) fetchCmd(series Series) tea.Cmd {
	ctx, source := m.ctx, m.source
	return func() tea.Msg {
		samples, err := source.Fetch(ctx, series)
		return fetchedMsg{series: series, samples: samples, err: err}
	}
}

func (m dashboardModel) pollCmd(series Series, generation int) tea.Cmd {
	return tea.Tick(m.config.PollInterval, func(time.Time) tea.Msg {
		return pollMsg{series: series, generation: generation}
	})
}

func (m dashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchCmd(Hours), m.fetchCmd(Days))
}

// derive rebuilds both point series for the selected metric
func (m dashboardModel) derive() dashboardModel {
	metric := m.selector.Selected().Key
	m.deriveErr = nil
	for _, series := range AllSeries {
		points, err := Transform(m.caches[series].Data(), metric, m.config.Location)
		if err != nil {
			level.Error(m.logger).Log("msg", "failed to transform history", "series", series, "err", err)
			m.deriveErr = fmt.Errorf("%s history: %w", series, err)
			points = nil
		}
		m.points[series] = points
	}
	return m
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "1", "2", "3", "4", "5", "6":
			m.selector.SelectIndex(int(msg.String()[0] - '1'))
			m = m.derive()
		case "[":
			m.selector.Prev()
			m = m.derive()
		case "]":
			m.selector.Next()
			m = m.derive()
		case "tab", "j", "down", "k", "up":
			if m.focused == Hours {
				m.focused = Days
			} else {
				m.focused = Hours
			}
		case "h", "left":
			if i := m.cursorIndex(m.focused); i > 0 {
				m.cursor[m.focused] = i - 1
			}
		case "l", "right":
			if i := m.cursorIndex(m.focused); i >= 0 && i < len(m.points[m.focused])-1 {
				m.cursor[m.focused] = i + 1
			}
		case "g", "home":
			if len(m.points[m.focused]) > 0 {
				m.cursor[m.focused] = 0
			}
		case "G", "end":
			m.cursor[m.focused] = -1
		case "r":
			level.Info(m.logger).Log("msg", "manual refresh")
			for _, series := range AllSeries {
				m.caches[series].Begin()
			}
			return m, tea.Batch(m.fetchCmd(Hours), m.fetchCmd(Days))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case fetchedMsg:
		cache := m.caches[msg.series]
		generation := cache.Apply(msg.samples, msg.err)
		if msg.err != nil {
			level.Warn(m.logger).Log("msg", "history fetch failed", "series", msg.series, "err", msg.err)
		} else {
			level.Info(m.logger).Log("msg", "history updated", "series", msg.series, "samples", len(msg.samples))
		}
		m = m.derive()
		return m, m.pollCmd(msg.series, generation)

	case pollMsg:
		cache := m.caches[msg.series]
		if !cache.Current(msg.generation) {
			return m, nil
		}
		cache.Begin()
		return m, m.fetchCmd(msg.series)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// cursorIndex resolves the cursor of a series to a point index, -1 when
// the series is empty
func (m dashboardModel) cursorIndex(series Series) int {
	n := len(m.points[series])
	c := m.cursor[series]
	if c < 0 || c >= n {
		return n - 1
	}
	return c
}

// Err is the error shown instead of the dashboard. The 24h error wins when
// both series failed.
func (m dashboardModel) Err() error {
	for _, series := range AllSeries {
		if err := m.caches[series].Err(); err != nil {
			return err
		}
	}
	return m.deriveErr
}

func (m dashboardModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if err := m.Err(); err != nil {
		return ErrorPanel(m.width, m.height, err.Error())
	}

	metric := m.selector.Selected()
	width := max(m.width, 20)

	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	metricStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.config.Title))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(m.config.Subtitle))
	b.WriteString("\n\n")
	b.WriteString(metricStyle.Render(metric.Display))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(metric.Description))
	b.WriteString("\n")
	b.WriteString(m.selector.SetWidth(width).Render())
	b.WriteString("\n")

	var panes []Pane
	for _, series := range AllSeries {
		panes = append(panes, m.renderPane(series, metric, width))
	}
	b.WriteString(Vertical(panes...))

	if footer := Footer(m.caches[Hours].Data(), m.caches[Days].Data(), m.config.Location); footer != "" {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(footer))
	}

	helpBar := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Background(lipgloss.Color("235")).
		Width(width).
		Align(lipgloss.Center).
		Render("1-6/[]=Metric  tab=Switch Chart  h/l=Move Cursor  g/G=First/Last  r=Refresh  q=Quit")
	b.WriteString("\n")
	b.WriteString(helpBar)

	return b.String()
}

// renderPane renders one history chart, or the spinner while its first
// fetch is outstanding
func (m dashboardModel) renderPane(series Series, metric Metric, width int) Pane {
	chart := ChartFor(series)
	pane := NewPane(chart.Title, width).SetFocused(series == m.focused)
	contentWidth := pane.ContentWidth()

	if m.caches[series].Loading() {
		placeholder := lipgloss.Place(contentWidth, BodyHeight(), lipgloss.Center, lipgloss.Center, m.spinner.View())
		return pane.SetContent(placeholder)
	}

	cursor := -1
	if series == m.focused {
		cursor = m.cursorIndex(series)
	}
	content := chart.Render(m.points[series], metric, contentWidth, cursor, m.config.Location)
	if cursor >= 0 {
		fields := NewFieldTable(m.points[series][cursor].Fields).
			Highlight(metric.Key).
			MaxWidth(contentWidth).
			Render()
		if fields != "" {
			content += "\n" + fields
		}
	}
	return pane.SetContent(content)
}

// Dashboard runs the TUI until the user quits or ctx is cancelled
func Dashboard(ctx context.Context, source Fetcher, config Config, logger log.Logger) error {
	m := NewDashboard(ctx, source, config, logger)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running bubbletea program: %w", err)
	}
	return nil
}
