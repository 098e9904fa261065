// Package metrics provides Prometheus metrics for tweetsearch.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Attempt outcomes
const (
	OutcomeCompleted      = "completed"
	OutcomeSessionFailure = "session_failure"
	OutcomeRateLimited    = "rate_limited"
	OutcomeFailed         = "failed"
)

// Wait reasons
const (
	ReasonJitter    = "jitter"
	ReasonSession   = "session"
	ReasonRateLimit = "rate_limit"
	ReasonError     = "error"
	ReasonPacing    = "pacing"
)

var (
	// AttemptsTotal counts outer search attempts by outcome.
	AttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tweetsearch",
			Name:      "attempts_total",
			Help:      "Total number of search attempts by outcome",
		},
		[]string{"outcome"},
	)

	// PagesTotal counts next-page fetches that returned items.
	PagesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tweetsearch",
			Name:      "pages_total",
			Help:      "Total number of result pages fetched",
		},
	)

	// RateLimitedTotal counts rate limit responses by stage (initial or pagination).
	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tweetsearch",
			Name:      "rate_limited_total",
			Help:      "Total number of rate limit responses",
		},
		[]string{"stage"},
	)

	// WaitSeconds observes every deliberate wait by reason.
	WaitSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tweetsearch",
			Name:      "wait_seconds",
			Help:      "Duration of back-off and pacing waits in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"reason"},
	)

	// ItemsCollected observes how many items each search returned.
	ItemsCollected = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "tweetsearch",
			Name:      "items_collected",
			Help:      "Distribution of items returned per search",
			Buckets:   []float64{0, 10, 20, 30, 50, 100, 250, 500},
		},
	)
)

// ObserveWait records a wait of d for reason
func ObserveWait(reason string, d time.Duration) {
	WaitSeconds.WithLabelValues(reason).Observe(d.Seconds())
}
