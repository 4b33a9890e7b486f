// Package metrics exposes Prometheus counters for merge activity.
//
// Metrics live on a private registry so tests can create independent
// instances and the /metrics endpoint shows only what this service records
// plus the standard Go and process collectors.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "shipmerge"

// Run outcomes.
const (
	OutcomeOK              = "ok"
	OutcomeMissingUpload   = "missing_upload"
	OutcomeColumnNotFound  = "column_not_found"
	OutcomeNormalizeFailed = "normalize_failed"
	OutcomeError           = "error"
)

// Metrics holds every collector the service records.
type Metrics struct {
	registry *prometheus.Registry

	runs       *prometheus.CounterVec
	duration   prometheus.Histogram
	rows       *prometheus.HistogramVec
	unmatched  prometheus.Counter
	exports    *prometheus.CounterVec
	workspaces prometheus.GaugeFunc
}

// New creates and registers all collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_runs_total",
			Help:      "Merge pipeline runs by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_duration_seconds",
			Help:      "Time spent resolving, merging and filtering.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		rows: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_rows",
			Help:      "Row counts per pipeline stage.",
			Buckets:   prometheus.ExponentialBuckets(1, 10, 7),
		}, []string{"stage"}),
		unmatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unmatched_shipments_total",
			Help:      "Shipment rows with no invoice row.",
		}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Downloads by format.",
		}, []string{"format"}),
	}

	reg.MustRegister(
		m.runs, m.duration, m.rows, m.unmatched, m.exports,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RunStats is what a successful run reports.
type RunStats struct {
	Shipments int
	Invoice   int
	Merged    int
	Filtered  int
	Unmatched int
	Duration  time.Duration
}

// ObserveRun records a successful pipeline run.
func (m *Metrics) ObserveRun(s RunStats) {
	m.runs.WithLabelValues(OutcomeOK).Inc()
	m.duration.Observe(s.Duration.Seconds())
	m.rows.WithLabelValues("shipments").Observe(float64(s.Shipments))
	m.rows.WithLabelValues("invoice").Observe(float64(s.Invoice))
	m.rows.WithLabelValues("merged").Observe(float64(s.Merged))
	m.rows.WithLabelValues("filtered").Observe(float64(s.Filtered))
	m.unmatched.Add(float64(s.Unmatched))
}

// ObserveFailure records a failed run under outcome.
func (m *Metrics) ObserveFailure(outcome string) {
	m.runs.WithLabelValues(outcome).Inc()
}

// ObserveExport records a download in format ("csv" or "xlsx").
func (m *Metrics) ObserveExport(format string) {
	m.exports.WithLabelValues(format).Inc()
}

// TrackWorkspaces exports count as the workspace gauge, sampled on every
// scrape. Call it once.
func (m *Metrics) TrackWorkspaces(count func() int) {
	m.workspaces = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "workspaces",
		Help:      "Workspaces currently held in memory.",
	}, func() float64 { return float64(count()) })
	m.registry.MustRegister(m.workspaces)
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
