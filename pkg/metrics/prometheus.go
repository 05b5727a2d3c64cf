package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	factorRows  prometheus.Gauge
	regressions *prometheus.CounterVec
	skipped     *prometheus.CounterVec
	lastR2      *prometheus.GaugeVec
	latency     *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		factorRows: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "factorlab_factor_rows",
				Help: "Rows in the canonical monthly factor table",
			},
		),
		regressions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "factorlab_regressions_total",
				Help: "Total regressions fitted, by model",
			},
			[]string{"model"},
		),
		skipped: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "factorlab_assets_skipped_total",
				Help: "Assets skipped during a run, by reason",
			},
			[]string{"reason"},
		),
		lastR2: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "factorlab_last_r2",
				Help: "R-squared of the most recent regression per ticker",
			},
			[]string{"ticker"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "factorlab_operation_duration_seconds",
				Help:    "Duration of pipeline stages in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordFactorRows records the canonical factor table size.
func (r *Recorder) RecordFactorRows(n int) {
	r.factorRows.Set(float64(n))
}

// RecordRegression counts a fitted regression for a model ("ff3" or "carhart").
func (r *Recorder) RecordRegression(model string) {
	r.regressions.WithLabelValues(model).Inc()
}

// RecordSkip counts a skipped asset.
func (r *Recorder) RecordSkip(reason string) {
	r.skipped.WithLabelValues(reason).Inc()
}

// RecordR2 records the latest R-squared for a ticker.
func (r *Recorder) RecordR2(ticker string, r2 float64) {
	r.lastR2.WithLabelValues(ticker).Set(r2)
}

// RecordLatency records stage latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
