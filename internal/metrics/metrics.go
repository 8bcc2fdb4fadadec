// Package metrics provides Prometheus metrics for the newsroom workflow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TransitionsTotal counts workflow operations by outcome.
	TransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsdesk",
			Name:      "workflow_transitions_total",
			Help:      "Total number of workflow operations",
		},
		[]string{"operation", "outcome"},
	)

	// PromotionsTotal counts scheduled promotions attempted by the poller.
	PromotionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsdesk",
			Name:      "promotions_total",
			Help:      "Total number of scheduled promotions",
		},
		[]string{"outcome"},
	)

	// PollDuration measures a single poller iteration.
	PollDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "newsdesk",
			Name:      "poll_duration_seconds",
			Help:      "Duration of scheduled publication polls in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// DueArticles reports how many articles the last poll found due.
	DueArticles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "newsdesk",
			Name:      "due_articles",
			Help:      "Number of due articles found by the last poll",
		},
	)
)

// RecordTransition records one engine operation.
func RecordTransition(operation string, err error) {
	TransitionsTotal.WithLabelValues(operation, outcome(err)).Inc()
}

// RecordPromotion records one promotion attempt.
func RecordPromotion(err error) {
	PromotionsTotal.WithLabelValues(outcome(err)).Inc()
}

// RecordPoll records the size and duration of one poll.
func RecordPoll(due int, seconds float64) {
	DueArticles.Set(float64(due))
	PollDuration.Observe(seconds)
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
