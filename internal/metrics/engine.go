package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Engine Prometheus metrics.
var (
	SimilarityQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "artwatch",
			Name:      "similarity_queries_total",
			Help:      "Total number of similarity queries",
		},
		[]string{"method", "status"},
	)

	SimilarityQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "artwatch",
			Name:      "similarity_query_duration_seconds",
			Help:      "Similarity query duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method"},
	)

	SimilarityCandidatesReturned = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "artwatch",
			Name:      "similarity_candidates_returned",
			Help:      "Number of candidates returned per similarity query",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
		[]string{"method"},
	)

	DuplicateGroupsFound = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "artwatch",
			Name:      "duplicate_groups_found",
			Help:      "Number of duplicate groups per detection pass",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
	)

	FeatureStoreDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "artwatch",
			Name:      "feature_store_duration_seconds",
			Help:      "Feature store call duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"op", "status"},
	)

	ScoringOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "artwatch",
			Name:      "scoring_outcomes_total",
			Help:      "Scored web searches by outcome",
		},
		[]string{"outcome"}, // "interesting" / "routine" / "error"
	)

	InterestScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "artwatch",
			Name:      "interest_score",
			Help:      "Distribution of interest scores",
			Buckets:   []float64{0, 5, 10, 15, 25, 50, 100, 200},
		},
	)

	SearchCostUnitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "artwatch",
			Name:      "search_cost_units_total",
			Help:      "Total web-search API cost units recorded",
		},
	)

	ReputationUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "artwatch",
			Name:      "reputation_updates_total",
			Help:      "Domain reputation updates by category",
		},
		[]string{"category", "status"},
	)
)

var registerOnce sync.Once

// Register adds every artwatch collector to the default registry. Repeated calls are no-ops.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestDuration,
			HTTPRequestsTotal,
			SimilarityQueriesTotal,
			SimilarityQueryDuration,
			SimilarityCandidatesReturned,
			DuplicateGroupsFound,
			FeatureStoreDuration,
			ScoringOutcomesTotal,
			InterestScore,
			SearchCostUnitsTotal,
			ReputationUpdatesTotal,
		)
	})
}

// Status label values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// StatusOf maps an error to a status label.
func StatusOf(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusOK
}
