// Package metrics exposes Prometheus instrumentation for the hypothesis
// engine and its collaborator clients.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the engine.
type Metrics struct {
	// Engine metrics
	GapsScanned        prometheus.Counter
	GapsProcessed      *prometheus.CounterVec
	HypothesesAccepted prometheus.Counter
	RefinementRetries  prometheus.Counter
	GapDuration        prometheus.Histogram

	// Collaborator metrics
	CollaboratorRequests *prometheus.CounterVec
	CollaboratorLatency  *prometheus.HistogramVec
}

// New creates the metric set on the given registerer. Pass
// prometheus.DefaultRegisterer in production; tests use a fresh registry.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		GapsScanned: factory.NewCounter(prometheus.CounterOpts{
			Name: "episteme_gaps_scanned_total",
			Help: "Total number of knowledge gaps produced by the scanner",
		}),
		GapsProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "episteme_gaps_processed_total",
				Help: "Total number of gaps processed, by terminal outcome",
			},
			[]string{"outcome"},
		),
		HypothesesAccepted: factory.NewCounter(prometheus.CounterOpts{
			Name: "episteme_hypotheses_accepted_total",
			Help: "Total number of hypotheses that survived review",
		}),
		RefinementRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "episteme_refinement_retries_total",
			Help: "Total number of candidate-exclusion retries",
		}),
		GapDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "episteme_gap_duration_seconds",
			Help:    "Wall time spent processing a single gap",
			Buckets: prometheus.DefBuckets,
		}),
		CollaboratorRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "episteme_collaborator_requests_total",
				Help: "Total collaborator requests, by service and status",
			},
			[]string{"service", "status"},
		),
		CollaboratorLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "episteme_collaborator_latency_seconds",
				Help:    "Collaborator request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service"},
		),
	}
}

// Outcome labels for GapsProcessed.
const (
	OutcomeAccepted  = "accepted"
	OutcomeDiscarded = "discarded"
	OutcomeError     = "error"
)

// ObserveGap records the terminal outcome and duration of one gap.
func (m *Metrics) ObserveGap(outcome string, duration time.Duration) {
	m.GapsProcessed.WithLabelValues(outcome).Inc()
	m.GapDuration.Observe(duration.Seconds())
}

// ObserveCollaborator records one collaborator request.
func (m *Metrics) ObserveCollaborator(service, status string, duration time.Duration) {
	m.CollaboratorRequests.WithLabelValues(service, status).Inc()
	m.CollaboratorLatency.WithLabelValues(service).Observe(duration.Seconds())
}
