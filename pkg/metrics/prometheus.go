package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder collects scan pipeline metrics on its own Prometheus registry.
// Nothing in this repository serves the registry over HTTP; embedders that
// want exposition can scrape Registry() themselves.
type Recorder struct {
	registry *prometheus.Registry

	tickersScored     prometheus.Counter
	contractsRejected *prometheus.CounterVec
	ivFallbacks       prometheus.Counter
	solverFailures    *prometheus.CounterVec
	scanDuration      prometheus.Histogram
}

// New creates a Recorder backed by a fresh registry.
func New() *Recorder {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Recorder{
		registry: registry,
		tickersScored: factory.NewCounter(prometheus.CounterOpts{
			Name: "optionscan_tickers_scored_total",
			Help: "Total number of tickers that passed composite scoring",
		}),
		contractsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "optionscan_contracts_rejected_total",
			Help: "Contracts dropped during selection, by filter",
		}, []string{"reason"}),
		ivFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "optionscan_iv_bisection_fallbacks_total",
			Help: "IV solves where Newton-Raphson gave up and bisection ran",
		}),
		solverFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "optionscan_solver_failures_total",
			Help: "Terminal IV solver failures, by kind",
		}, []string{"kind"}),
		scanDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "optionscan_scan_duration_seconds",
			Help:    "Duration of full scan runs in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// Registry exposes the underlying registry for embedders.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// RecordTickersScored adds n tickers to the scored counter.
func (r *Recorder) RecordTickersScored(n int) {
	r.tickersScored.Add(float64(n))
}

// RecordContractRejected counts a contract dropped by the named filter.
func (r *Recorder) RecordContractRejected(reason string) {
	r.contractsRejected.WithLabelValues(reason).Inc()
}

// RecordIVFallback counts a Newton-Raphson to bisection fallback.
func (r *Recorder) RecordIVFallback() {
	r.ivFallbacks.Inc()
}

// RecordSolverFailure counts a terminal solver failure.
func (r *Recorder) RecordSolverFailure(kind string) {
	r.solverFailures.WithLabelValues(kind).Inc()
}

// RecordScanDuration observes one scan's wall time in seconds.
func (r *Recorder) RecordScanDuration(seconds float64) {
	r.scanDuration.Observe(seconds)
}
