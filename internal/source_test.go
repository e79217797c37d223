package aqitop

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *HistoryClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewHistoryClient(srv.URL, 0, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestFetchRequestsWindows(t *testing.T) {
	cases := map[Series]struct{ path, param, value string }{
		Hours: {"/api/v1/history/80146/hours", "hours", "24"},
		Days:  {"/api/v1/history/80146/days", "days", "7"},
	}
	for series, want := range cases {
		var gotPath, gotValue, gotRequestID string
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotValue = r.URL.Query().Get(want.param)
			gotRequestID = r.Header.Get("X-Request-Id")
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"measure_time":"2024-01-01T10:00:00Z","measure_data":{"rco2_corrected":412,"atmp":21.5}}]`))
		})

		samples, err := c.Fetch(context.Background(), series)
		if err != nil {
			t.Fatalf("fetch %s: %v", series, err)
		}
		if gotPath != want.path {
			t.Fatalf("expected path %s, got %s", want.path, gotPath)
		}
		if gotValue != want.value {
			t.Fatalf("expected %s=%s, got %q", want.param, want.value, gotValue)
		}
		if gotRequestID == "" {
			t.Fatalf("expected a request id header")
		}
		if len(samples) != 1 || samples[0].MeasureData[CO2] != 412 || samples[0].MeasureData[Temperature] != 21.5 {
			t.Fatalf("unexpected samples %+v", samples)
		}
	}
}

func TestFetchEmptySeriesIsNotAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	samples, err := c.Fetch(context.Background(), Hours)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if samples == nil || len(samples) != 0 {
		t.Fatalf("expected empty non-nil samples, got %#v", samples)
	}
}

func TestFetchStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.Fetch(context.Background(), Days)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %T %v", err, err)
	}
	if fetchErr.StatusCode != http.StatusInternalServerError || fetchErr.Series != Days {
		t.Fatalf("unexpected fetch error %+v", fetchErr)
	}
	if err.Error() != "Request failed with status code 500" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestFetchTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewHistoryClient(url, 0, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = c.Fetch(context.Background(), Hours)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %T %v", err, err)
	}
	if fetchErr.StatusCode != 0 || fetchErr.Err == nil || err.Error() == "" {
		t.Fatalf("expected transport error with message, got %+v", fetchErr)
	}
}

func TestNewHistoryClientRejectsRelativeURL(t *testing.T) {
	if _, err := NewHistoryClient("aqi.example.org", 0, nil); err == nil {
		t.Fatalf("expected error for url without scheme")
	}
}

func TestFetchRecordsMetrics(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == HistoryPath("days") {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`[{"measure_time":"2024-01-01T10:00:00Z","measure_data":{}},{"measure_time":"2024-01-01T10:05:00Z","measure_data":{}}]`))
	})
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	c.WithMetrics(m)

	c.Fetch(context.Background(), Hours)
	c.Fetch(context.Background(), Days)

	if got := testutil.ToFloat64(m.fetches.WithLabelValues("24h", outcomeSuccess)); got != 1 {
		t.Fatalf("expected 1 successful 24h fetch, got %v", got)
	}
	if got := testutil.ToFloat64(m.fetches.WithLabelValues("7d", outcomeError)); got != 1 {
		t.Fatalf("expected 1 failed 7d fetch, got %v", got)
	}
	if got := testutil.ToFloat64(m.samples.WithLabelValues("24h")); got != 2 {
		t.Fatalf("expected 2 samples, got %v", got)
	}
	if got := testutil.ToFloat64(m.lastSample.WithLabelValues("24h")); got != 1704103500 {
		t.Fatalf("expected last sample timestamp 1704103500, got %v", got)
	}
}
