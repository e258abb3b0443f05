package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ClassificationCount tracks classification verdicts by jurisdiction and attribute
	ClassificationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clauseguard_classifications_total",
			Help: "The total number of clause classifications by verdict",
		},
		[]string{"jurisdiction", "attribute", "classification"},
	)

	// ClassificationLatency tracks the duration of a single clause classification
	ClassificationLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "clauseguard_classification_latency_seconds",
			Help:    "The duration of a single clause classification in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	// TerminalStepCount tracks which cascade step produced the verdict
	TerminalStepCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clauseguard_terminal_step_total",
			Help: "The total number of verdicts by terminal cascade step",
		},
		[]string{"match_type"},
	)

	// EmbeddingSkipCount tracks semantic steps skipped due to provider failures
	EmbeddingSkipCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clauseguard_embedding_skips_total",
			Help: "The total number of semantic steps skipped because the embedding provider was unavailable",
		},
	)

	// ClassificationErrorCount tracks per-clause classification failures
	ClassificationErrorCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clauseguard_classification_errors_total",
			Help: "The total number of per-clause classification failures",
		},
		[]string{"reason"},
	)
)

// RecordClassification records one completed classification.
func RecordClassification(jurisdiction, attribute, classification, matchType string, seconds float64) {
	ClassificationCount.WithLabelValues(jurisdiction, attribute, classification).Inc()
	TerminalStepCount.WithLabelValues(matchType).Inc()
	ClassificationLatency.Observe(seconds)
}

// RecordEmbeddingSkip records a semantic step that was skipped.
func RecordEmbeddingSkip() {
	EmbeddingSkipCount.Inc()
}

// RecordClassificationError records a per-clause failure.
func RecordClassificationError(reason string) {
	ClassificationErrorCount.WithLabelValues(reason).Inc()
}
