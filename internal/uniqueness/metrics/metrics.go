package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the uniqueness engine.
type Metrics struct {
	// Corpus store lookups by backend and result (hit, miss, unavailable)
	CorpusLookups *prometheus.CounterVec

	// Corpus store writes by backend and result (ok, failed, skipped)
	CorpusWrites *prometheus.CounterVec

	// Historical pointer resolution latency by source (cache, artifact) and outcome
	PointerFetchLatency *prometheus.HistogramVec

	// Novelty ratio distribution by sub-type
	NoveltyRatio *prometheus.HistogramVec

	// Full orchestrator run latency
	EvaluateLatency prometheus.Histogram
}

// New creates a Metrics instance registered on the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates a Metrics instance registered on reg. Tests pass a
// fresh prometheus.NewRegistry() to avoid duplicate registration panics.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CorpusLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dataproof_corpus_lookups_total",
			Help: "Corpus store lookups by backend and result",
		}, []string{"backend", "result"}),

		CorpusWrites: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dataproof_corpus_writes_total",
			Help: "Corpus store writes by backend and result",
		}, []string{"backend", "result"}),

		PointerFetchLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dataproof_history_fetch_duration_seconds",
			Help:    "Duration of resolving one historical pointer",
			Buckets: []float64{0.001, 0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"source", "outcome"}),

		NoveltyRatio: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dataproof_novelty_ratio",
			Help:    "Per sub-type novelty ratio",
			Buckets: []float64{0, 0.1, 0.25, 0.5, 0.75, 0.9, 1},
		}, []string{"sub_type"}),

		EvaluateLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "dataproof_uniqueness_evaluate_duration_seconds",
			Help:    "Duration of a full uniqueness evaluation including history retrieval",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}

// RecordLookup counts a corpus store lookup.
func (m *Metrics) RecordLookup(backend, result string) {
	if m != nil {
		m.CorpusLookups.WithLabelValues(backend, result).Inc()
	}
}

// RecordWrite counts a corpus store write.
func (m *Metrics) RecordWrite(backend, result string) {
	if m != nil {
		m.CorpusWrites.WithLabelValues(backend, result).Inc()
	}
}

// ObservePointerFetch records how long resolving one pointer took.
func (m *Metrics) ObservePointerFetch(source, outcome string, d time.Duration) {
	if m != nil {
		m.PointerFetchLatency.WithLabelValues(source, outcome).Observe(d.Seconds())
	}
}

// ObserveNovelty records a per sub-type novelty ratio.
func (m *Metrics) ObserveNovelty(subType string, ratio float64) {
	if m != nil {
		m.NoveltyRatio.WithLabelValues(subType).Observe(ratio)
	}
}

// ObserveEvaluateLatency records the total evaluation duration.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}
