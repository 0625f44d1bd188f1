package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for proof generation.
type Metrics struct {
	// Proofs generated by validity
	ProofsGenerated *prometheus.CounterVec

	// Final composed score distribution
	FinalScore prometheus.Histogram

	// Per-axis score distribution (authenticity, ownership, uniqueness, quality)
	AxisScore *prometheus.HistogramVec

	// Event publish failures
	PublishFailures prometheus.Counter

	// Full proof generation latency
	GenerateLatency prometheus.Histogram
}

var scoreBuckets = []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1}

// New creates a Metrics instance registered on the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates a Metrics instance registered on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ProofsGenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dataproof_proofs_generated_total",
			Help: "Proofs generated by validity",
		}, []string{"valid"}),

		FinalScore: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "dataproof_proof_score",
			Help:    "Final composed proof score",
			Buckets: scoreBuckets,
		}),

		AxisScore: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dataproof_proof_axis_score",
			Help:    "Per-axis proof scores",
			Buckets: scoreBuckets,
		}, []string{"axis"}),

		PublishFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "dataproof_proof_event_publish_failures_total",
			Help: "Proof events that could not be published",
		}),

		GenerateLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "dataproof_proof_generate_duration_seconds",
			Help:    "Duration of proof generation including uniqueness evaluation",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
	}
}

// RecordProof records a generated proof and its scores.
func (m *Metrics) RecordProof(valid bool, score float64, axes map[string]float64) {
	if m == nil {
		return
	}
	m.ProofsGenerated.WithLabelValues(strconv.FormatBool(valid)).Inc()
	m.FinalScore.Observe(score)
	for axis, v := range axes {
		m.AxisScore.WithLabelValues(axis).Observe(v)
	}
}

func (m *Metrics) IncPublishFailures() {
	if m != nil {
		m.PublishFailures.Inc()
	}
}

// ObserveGenerateLatency records the total generation duration.
func (m *Metrics) ObserveGenerateLatency(d time.Duration) {
	if m != nil {
		m.GenerateLatency.Observe(d.Seconds())
	}
}
