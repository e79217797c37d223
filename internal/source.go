package aqitop

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// Series identifies one of the two history windows
type Series int

const (
	Hours Series = iota
	Days
)

// AllSeries lists the series in display order
var AllSeries = []Series{Hours, Days}

func (s Series) String() string {
	if s == Days {
		return "7d"
	}
	return "24h"
}

// unit is both the path segment and the query parameter name
func (s Series) unit() string {
	if s == Days {
		return "days"
	}
	return "hours"
}

func (s Series) window() int {
	if s == Days {
		return DAYS_WINDOW
	}
	return HOURS_WINDOW
}

// FetchError is returned when a history request fails at the transport
// level or with a non-success status
type FetchError struct {
	Series     Series
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("Request failed with status code %d", e.StatusCode)
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "Request failed"
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// HistoryClient reads station history from the AQI API
type HistoryClient struct {
	resty   *resty.Client
	logger  log.Logger
	metrics *Metrics
}

// NewHistoryClient creates a client for the API at baseURL. A zero timeout
// leaves requests unbounded.
func NewHistoryClient(baseURL string, timeout time.Duration, logger log.Logger) (*HistoryClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse api url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api url %q must include scheme and host", baseURL)
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}

	r := resty.New().SetBaseURL(baseURL)
	if timeout > 0 {
		r.SetTimeout(timeout)
	}

	return &HistoryClient{
		resty:  r,
		logger: logger,
	}, nil
}

// WithMetrics records fetch outcomes into m
func (c *HistoryClient) WithMetrics(m *Metrics) *HistoryClient {
	c.metrics = m
	return c
}

// Fetch retrieves one history window. An empty result is not an error.
func (c *HistoryClient) Fetch(ctx context.Context, series Series) ([]Sample, error) {
	requestID := uuid.NewString()
	start := time.Now()

	resp, err := c.resty.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetHeader("X-Request-Id", requestID).
		SetQueryParam(series.unit(), strconv.Itoa(series.window())).
		ForceContentType("application/json").
		SetResult(&[]Sample{}).
		Get(HistoryPath(series.unit()))

	elapsed := time.Since(start)

	if err != nil {
		level.Error(c.logger).Log("msg", "history request failed", "series", series, "request_id", requestID, "err", err)
		c.metrics.observe(series, outcomeError, elapsed, nil)
		return nil, &FetchError{Series: series, URL: requestURL(resp), Err: err}
	}
	if !resp.IsSuccess() {
		level.Error(c.logger).Log("msg", "history request returned error status", "series", series, "request_id", requestID, "status", resp.StatusCode())
		c.metrics.observe(series, outcomeError, elapsed, nil)
		return nil, &FetchError{Series: series, URL: requestURL(resp), StatusCode: resp.StatusCode()}
	}

	var samples []Sample
	if result, ok := resp.Result().(*[]Sample); ok && result != nil {
		samples = *result
	}
	if samples == nil {
		samples = []Sample{}
	}

	level.Debug(c.logger).Log("msg", "history received", "series", series, "request_id", requestID, "samples", len(samples), "duration", elapsed)
	c.metrics.observe(series, outcomeSuccess, elapsed, samples)
	return samples, nil
}

func requestURL(resp *resty.Response) string {
	if resp == nil || resp.Request == nil {
		return ""
	}
	return resp.Request.URL
}
