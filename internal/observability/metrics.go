// Package observability provides Prometheus metrics and OpenTelemetry tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ayubo_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// VoteToggles counts applied vote toggles by entity type and direction.
	VoteToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ayubo_vote_toggles_total",
		Help: "Total number of vote toggles by entity type and direction",
	}, []string{"entity", "direction"})

	// VoteToggleConflicts counts storage write conflicts retried during vote toggling.
	VoteToggleConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ayubo_vote_toggle_conflicts_total",
		Help: "Total number of retried write conflicts during vote toggling",
	})

	// RepliesDeleted counts replies removed by cascading deletes.
	RepliesDeleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ayubo_replies_deleted_total",
		Help: "Total number of replies removed by cascading deletes",
	}, []string{"cascade"})

	// AssistRequestDuration records latency of outbound assist API calls.
	AssistRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ayubo_assist_request_duration_seconds",
		Help:    "Latency of outbound assist API calls by service and status",
		Buckets: prometheus.DefBuckets,
	}, []string{"service", "status"})
)

// ObserveAssistRequest records one outbound assist call.
func ObserveAssistRequest(service, status string, start time.Time) {
	AssistRequestDuration.WithLabelValues(service, status).Observe(time.Since(start).Seconds())
}
