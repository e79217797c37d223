package aqitop

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type stubFetcher struct {
	samples map[Series][]Sample
	errs    map[Series]error
}

func (s stubFetcher) Fetch(_ context.Context, series Series) ([]Sample, error) {
	return s.samples[series], s.errs[series]
}

func newTestDashboard() dashboardModel {
	m := NewDashboard(context.Background(), stubFetcher{}, Config{
		Title:    "Nettelhorst AQI Monitor",
		Subtitle: "Nettelhorst, Chicago IL",
		Location: time.UTC,
	}, nil)
	m, _ = update(m, tea.WindowSizeMsg{Width: 100, Height: 80})
	return m
}

func update(m dashboardModel, msg tea.Msg) (dashboardModel, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(dashboardModel), cmd
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	hoursSamples = []Sample{
		sample("2024-01-01T09:55:00Z", map[string]float64{CO2: 420, TVOC: 80, Temperature: 20}),
		sample("2024-01-01T10:00:00Z", map[string]float64{CO2: 430, TVOC: 95, Temperature: 21}),
	}
	daysSamples = []Sample{
		sample("2023-12-31T09:00:00Z", map[string]float64{CO2: 410, TVOC: 70, Temperature: 18}),
		sample("2024-01-01T09:00:00Z", map[string]float64{CO2: 440, TVOC: 110, Temperature: 19}),
	}
)

func TestFetchCmdReportsResult(t *testing.T) {
	m := NewDashboard(context.Background(), stubFetcher{
		samples: map[Series][]Sample{Days: daysSamples},
	}, Config{}, nil)

	msg, ok := m.fetchCmd(Days)().(fetchedMsg)
	if !ok {
		t.Fatalf("expected fetchedMsg")
	}
	if msg.series != Days || len(msg.samples) != len(daysSamples) || msg.err != nil {
		t.Fatalf("unexpected message %+v", msg)
	}
}

func TestDashboardShowsSpinnerUntilFirstFetch(t *testing.T) {
	m := newTestDashboard()
	for _, series := range AllSeries {
		if !m.caches[series].Loading() {
			t.Fatalf("expected %s to be loading", series)
		}
	}

	m, _ = update(m, fetchedMsg{series: Hours, samples: hoursSamples})
	if m.caches[Hours].Loading() {
		t.Fatalf("expected 24h to stop loading after its fetch")
	}
	if !m.caches[Days].Loading() {
		t.Fatalf("expected 7d to keep loading")
	}

	view := m.View()
	if !strings.Contains(view, "24 Hour History") || !strings.Contains(view, "7 Day History") {
		t.Fatalf("expected both panes in view")
	}
	if strings.Contains(view, "No data") {
		t.Fatalf("expected spinner rather than empty chart while loading")
	}
}

func TestFetchSchedulesNextPoll(t *testing.T) {
	m := newTestDashboard()
	m, cmd := update(m, fetchedMsg{series: Hours, samples: hoursSamples})
	if cmd == nil {
		t.Fatalf("expected a poll to be scheduled")
	}

	if _, cmd := update(m, pollMsg{series: Hours, generation: 0}); cmd != nil {
		t.Fatalf("expected stale poll timer to be ignored")
	}
	m, cmd = update(m, pollMsg{series: Hours, generation: 1})
	if cmd == nil {
		t.Fatalf("expected current poll timer to fetch")
	}
	if !m.caches[Hours].inFlight {
		t.Fatalf("expected fetch to be marked in flight")
	}
}

func TestSelectingMetricRederivesBothSeries(t *testing.T) {
	m := newTestDashboard()
	m, _ = update(m, fetchedMsg{series: Hours, samples: hoursSamples})
	m, _ = update(m, fetchedMsg{series: Days, samples: daysSamples})

	if got := m.selector.Selected().Key; got != CO2 {
		t.Fatalf("expected default metric %s, got %s", CO2, got)
	}
	before := [2][]Point{m.points[Hours], m.points[Days]}

	m, _ = update(m, key("3"))

	if got := m.selector.Selected().Display; got != "TVOC (raw)" {
		t.Fatalf("expected title TVOC (raw), got %s", got)
	}
	if !strings.Contains(m.View(), "TVOC (raw)") {
		t.Fatalf("expected view to show TVOC (raw)")
	}

	for series, samples := range map[Series][]Sample{Hours: hoursSamples, Days: daysSamples} {
		for i, p := range m.points[series] {
			if p.Value != samples[i].MeasureData[TVOC] {
				t.Fatalf("expected %s point %d value %v, got %v", series, i, samples[i].MeasureData[TVOC], p.Value)
			}
			if p.Time != before[series][i].Time || p.FullTime != before[series][i].FullTime {
				t.Fatalf("expected %s point %d times to be unchanged", series, i)
			}
		}
	}
}

func TestCyclingMetricsConvertsTemperature(t *testing.T) {
	m := newTestDashboard()
	m, _ = update(m, fetchedMsg{series: Hours, samples: hoursSamples})
	m, _ = update(m, key("]"))

	if got := m.selector.Selected().Key; got != Temperature {
		t.Fatalf("expected %s, got %s", Temperature, got)
	}
	celsius := 21.0
	if got, want := m.points[Hours][1].Value, celsius*9/5+32; got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}

	m, _ = update(m, key("["))
	m, _ = update(m, key("["))
	if got := m.selector.Selected().Key; got != PM25 {
		t.Fatalf("expected wrap to %s, got %s", PM25, got)
	}
}

func TestDaysErrorShowsGlobalErrorPanel(t *testing.T) {
	m := newTestDashboard()
	m, _ = update(m, fetchedMsg{series: Hours, samples: hoursSamples})
	m, _ = update(m, fetchedMsg{series: Days, err: &FetchError{Series: Days, StatusCode: 500}})

	view := m.View()
	if !strings.Contains(view, "Error loading data") || !strings.Contains(view, "Request failed with status code 500") {
		t.Fatalf("expected error panel, got %q", view)
	}
	if strings.Contains(view, "24 Hour History") {
		t.Fatalf("expected successful 24h data to be hidden behind the error panel")
	}
}

func TestHoursErrorTakesPrecedence(t *testing.T) {
	m := newTestDashboard()
	m, _ = update(m, fetchedMsg{series: Days, err: &FetchError{Series: Days, StatusCode: 502}})
	m, _ = update(m, fetchedMsg{series: Hours, err: &FetchError{Series: Hours, StatusCode: 503}})

	if got := m.Err().Error(); got != "Request failed with status code 503" {
		t.Fatalf("expected 24h error, got %q", got)
	}
}

func TestErrorClearsOnNextSuccessAndKeepsData(t *testing.T) {
	m := newTestDashboard()
	m, _ = update(m, fetchedMsg{series: Days, samples: daysSamples})
	m, _ = update(m, fetchedMsg{series: Days, err: &FetchError{Series: Days, StatusCode: 500}})
	if m.Err() == nil {
		t.Fatalf("expected error to be set")
	}
	if len(m.caches[Days].Data()) != len(daysSamples) {
		t.Fatalf("expected previous data to survive the error")
	}

	m, _ = update(m, fetchedMsg{series: Days, samples: daysSamples})
	if m.Err() != nil {
		t.Fatalf("expected error to clear, got %v", m.Err())
	}
}

func TestMalformedSampleShowsErrorPanel(t *testing.T) {
	m := newTestDashboard()
	m, _ = update(m, fetchedMsg{series: Hours, samples: []Sample{sample("not a time", nil)}})

	if !strings.Contains(m.View(), "Error loading data") {
		t.Fatalf("expected error panel for malformed sample")
	}
}

func TestFooterOnlyWithData(t *testing.T) {
	m := newTestDashboard()
	m, _ = update(m, fetchedMsg{series: Hours, samples: []Sample{}})
	m, _ = update(m, fetchedMsg{series: Days, samples: []Sample{}})

	view := m.View()
	if strings.Contains(view, "Last updated") {
		t.Fatalf("expected no footer without data")
	}
	if !strings.Contains(view, "No data") {
		t.Fatalf("expected empty charts")
	}

	m, _ = update(m, fetchedMsg{series: Days, samples: daysSamples})
	if !strings.Contains(m.View(), "Last updated: Jan 01, 2024 09:00") {
		t.Fatalf("expected footer from the 7d series")
	}

	m, _ = update(m, fetchedMsg{series: Hours, samples: hoursSamples})
	if !strings.Contains(m.View(), "Last updated: Jan 01, 2024 10:00") {
		t.Fatalf("expected footer from the 24h series")
	}
}

func TestCursorNavigation(t *testing.T) {
	m := newTestDashboard()
	m, _ = update(m, fetchedMsg{series: Hours, samples: hoursSamples})
	m, _ = update(m, fetchedMsg{series: Days, samples: daysSamples})

	if got := m.cursorIndex(Hours); got != 1 {
		t.Fatalf("expected cursor on newest point, got %d", got)
	}
	m, _ = update(m, key("h"))
	if got := m.cursorIndex(Hours); got != 0 {
		t.Fatalf("expected cursor to move left, got %d", got)
	}
	m, _ = update(m, key("h"))
	if got := m.cursorIndex(Hours); got != 0 {
		t.Fatalf("expected cursor to stop at first point, got %d", got)
	}
	if !strings.Contains(m.View(), "Jan 01, 09:55  CO2 reading: 420") {
		t.Fatalf("expected tooltip for first 24h point")
	}

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focused != Days {
		t.Fatalf("expected focus on 7d chart")
	}
	m, _ = update(m, key("g"))
	if !strings.Contains(m.View(), "Dec 31, 2023 09:00  CO2 reading: 410") {
		t.Fatalf("expected 7d tooltip for first point")
	}
}

func TestManualRefreshFetchesBothSeries(t *testing.T) {
	m := newTestDashboard()
	m, _ = update(m, fetchedMsg{series: Hours, samples: hoursSamples})
	m, _ = update(m, fetchedMsg{series: Days, samples: daysSamples})

	m, cmd := update(m, key("r"))
	if cmd == nil {
		t.Fatalf("expected refresh to issue fetches")
	}
	for _, series := range AllSeries {
		if !m.caches[series].inFlight {
			t.Fatalf("expected %s fetch in flight", series)
		}
		if m.caches[series].Loading() {
			t.Fatalf("expected %s to keep showing data while refreshing", series)
		}
	}
}
