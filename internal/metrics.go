package aqitop

import (
	"net/http"
	"time"

	"github.com/go-kit/log"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/version"
	"github.com/prometheus/exporter-toolkit/web"
)

const namespace = "aqitop"

const (
	outcomeSuccess = "success"
	outcomeError   = "error"
)

// Metrics holds the dashboard's own poll statistics
type Metrics struct {
	fetches    *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	samples    *prometheus.GaugeVec
	lastSample *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them, together with the
// build info collector, on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "fetches_total",
			Help:      "History fetches by series and outcome.",
		}, []string{"series", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "fetch_duration_seconds",
			Help:      "History fetch latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"series"}),
		samples: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "samples",
			Help:      "Samples returned by the last successful fetch.",
		}, []string{"series"}),
		lastSample: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "last_sample_timestamp_seconds",
			Help:      "Measure time of the newest sample from the last successful fetch.",
		}, []string{"series"}),
	}
	reg.MustRegister(m.fetches, m.duration, m.samples, m.lastSample)
	reg.MustRegister(version.NewCollector(namespace))
	return m
}

func (m *Metrics) observe(series Series, outcome string, elapsed time.Duration, samples []Sample) {
	if m == nil {
		return
	}
	s := series.String()
	m.fetches.WithLabelValues(s, outcome).Inc()
	m.duration.WithLabelValues(s).Observe(elapsed.Seconds())
	if outcome != outcomeSuccess {
		return
	}
	m.samples.WithLabelValues(s).Set(float64(len(samples)))
	if len(samples) > 0 {
		if t, err := ParseMeasureTime(samples[len(samples)-1].MeasureTime, nil); err == nil {
			m.lastSample.WithLabelValues(s).Set(float64(t.UnixNano()) / 1e9)
		}
	}
}

// MetricsRouter serves the registry at /metrics and a small index page
func MetricsRouter(g prometheus.Gatherer) *mux.Router {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<html>
             <head><title>aqitop</title></head>
             <body>
             <h1>aqitop</h1>
             <p><a href="/metrics">Metrics</a></p>
             </body>
             </html>`))
	}).Methods(http.MethodGet)
	return r
}

// ServeMetrics blocks serving the metrics router on addr
func ServeMetrics(addr string, g prometheus.Gatherer, logger log.Logger) error {
	systemdSocket := false
	configFile := ""
	flags := &web.FlagConfig{
		WebListenAddresses: &[]string{addr},
		WebSystemdSocket:   &systemdSocket,
		WebConfigFile:      &configFile,
	}
	srv := &http.Server{Handler: MetricsRouter(g)}
	return web.ListenAndServe(srv, flags, logger)
}
