package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the refresh pipeline.
type Metrics struct {
	RefreshCycles      *prometheus.CounterVec // labels: outcome={success,failure}
	RefreshDuration    prometheus.Histogram
	SourceFailures     *prometheus.CounterVec // labels: source
	ForecastFailures   *prometheus.CounterVec // labels: resort
	ResortsRanked      prometheus.Gauge
	LastSuccessSeconds prometheus.Gauge
	PublishFailures    *prometheus.CounterVec // labels: sink
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RefreshCycles,
		m.RefreshDuration,
		m.SourceFailures,
		m.ForecastFailures,
		m.ResortsRanked,
		m.LastSuccessSeconds,
		m.PublishFailures,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so tests can
// build as many as they need.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RefreshCycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "snowdesk",
			Name:      "refresh_cycles_total",
			Help:      "Refresh cycles by outcome.",
		}, []string{"outcome"}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "snowdesk",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of a complete fetch-score-publish cycle.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
		}),
		SourceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "snowdesk",
			Name:      "source_failures_total",
			Help:      "Resort sources dropped from a cycle.",
		}, []string{"source"}),
		ForecastFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "snowdesk",
			Name:      "forecast_failures_total",
			Help:      "Resorts scored without a forecast.",
		}, []string{"resort"}),
		ResortsRanked: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "snowdesk",
			Name:      "resorts_ranked",
			Help:      "Number of resorts in the current snapshot.",
		}),
		LastSuccessSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "snowdesk",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last published snapshot.",
		}),
		PublishFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "snowdesk",
			Name:      "publish_failures_total",
			Help:      "Snapshot artifact writes that failed.",
		}, []string{"sink"}),
	}
}
