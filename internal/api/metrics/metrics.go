// Package metrics defines and registers all custom Prometheus metrics for the
// snake game API. It is the single source of truth for metric names, labels,
// and help strings. HTTP request metrics come from echoprometheus.
//
// Metrics are registered with the default registry on package init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "snake"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Labels:
//   - method: "local" or "google"
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by method and result.",
	},
	[]string{"method", "result"},
)

// SignupsTotal counts created accounts.
// Label:
//   - method: "local" or "google"
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of accounts created.",
	},
	[]string{"method"},
)

// RateLimitedTotal counts requests rejected with 429.
var RateLimitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_requests_total",
		Help:      "Total number of requests rejected by the rate limiter.",
	},
)

// ── Game metrics ──────────────────────────────────────────────────────────────

// ScoresSubmittedTotal counts score submissions.
// Label:
//   - result: "accepted", "new_best", or "rejected"
var ScoresSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scores_submitted_total",
		Help:      "Total number of score submissions, by outcome.",
	},
	[]string{"result"},
)

// ScoreValues observes accepted score values.
var ScoreValues = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "score_value",
		Help:      "Distribution of accepted game scores.",
		Buckets:   []float64{0, 10, 50, 100, 200, 500, 1000, 2000, 5000, 10000},
	},
)
