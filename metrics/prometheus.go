package metrics

import (
	"net/http"

	"github.com/dnldd/setupwatch/shared"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder records watch cycle metrics using Prometheus.
type Recorder struct {
	registry       *prometheus.Registry
	evaluations    *prometheus.CounterVec
	failures       *prometheus.CounterVec
	deliveries     *prometheus.CounterVec
	winProbability *prometheus.GaugeVec
	cycleDuration  prometheus.Histogram
}

// New creates a new Prometheus metrics recorder backed by its own registry.
func New() *Recorder {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Recorder{
		registry: registry,
		evaluations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "setupwatch_evaluations_total",
				Help: "Total number of symbol evaluations by decision",
			},
			[]string{"symbol", "decision"},
		),
		failures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "setupwatch_symbol_failures_total",
				Help: "Total number of symbol evaluations that failed",
			},
			[]string{"symbol", "reason"},
		),
		deliveries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "setupwatch_deliveries_total",
				Help: "Total number of alert deliveries by outcome",
			},
			[]string{"outcome"},
		),
		winProbability: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "setupwatch_win_probability",
				Help: "Last scored win probability for a symbol",
			},
			[]string{"symbol"},
		),
		cycleDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "setupwatch_cycle_duration_seconds",
				Help:    "Duration of watch cycles in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

// RecordEvaluation records a completed symbol evaluation.
func (r *Recorder) RecordEvaluation(symbol string, decision shared.SetupDecision, winProbability int) {
	r.evaluations.WithLabelValues(symbol, decision.Kind.String()).Inc()
	r.winProbability.WithLabelValues(symbol).Set(float64(winProbability))
}

// RecordFailure records a failed symbol evaluation.
func (r *Recorder) RecordFailure(symbol string, reason string) {
	r.failures.WithLabelValues(symbol, reason).Inc()
}

// RecordDelivery records an alert delivery outcome.
func (r *Recorder) RecordDelivery(result shared.DeliveryResult) {
	outcome := "failed"
	if result.OK {
		outcome = "delivered"
	}

	r.deliveries.WithLabelValues(outcome).Inc()
}

// RecordCycle records the duration of a watch cycle in seconds.
func (r *Recorder) RecordCycle(seconds float64) {
	r.cycleDuration.Observe(seconds)
}

// Handler returns the http handler exposing the recorded metrics.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
