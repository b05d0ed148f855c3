package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inkwell_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// SearchQueriesTotal counts article searches by the tier that produced results.
	// Tier "rank" is the full-text path, "substring" is the fallback, "none" means
	// neither tier matched anything.
	SearchQueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_search_queries_total",
		Help: "Total article search queries by result tier",
	}, []string{"tier"})

	// StatusTransitionsTotal counts article status transitions by edge.
	StatusTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_article_status_transitions_total",
		Help: "Total article status transitions by from/to status",
	}, []string{"from", "to"})

	// ArticlesCreatedTotal counts created articles by initial status.
	ArticlesCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_articles_created_total",
		Help: "Total articles created by initial status",
	}, []string{"status"})

	// AuthAttemptsTotal counts authentication attempts by operation and outcome.
	AuthAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_auth_attempts_total",
		Help: "Total authentication attempts by operation and outcome",
	}, []string{"operation", "outcome"})
)

// TrackQuery returns a function that records query latency when called.
// Use it as `defer observability.TrackQuery("create", "articles")()` at the
// top of a repository method.
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// RecordSearchTier increments the search counter for the tier that served the query.
func RecordSearchTier(tier string) {
	SearchQueriesTotal.WithLabelValues(tier).Inc()
}

// RecordStatusTransition increments the transition counter for the given edge.
func RecordStatusTransition(from, to string) {
	StatusTransitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordAuthAttempt increments the auth attempt counter.
func RecordAuthAttempt(operation, outcome string) {
	AuthAttemptsTotal.WithLabelValues(operation, outcome).Inc()
}
