// Package observability holds the Prometheus collectors and OpenTelemetry
// tracer shared by the HTTP, service and storage layers.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PostVisibilityDenied counts post lookups refused because the viewer may not see the post.
	PostVisibilityDenied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_post_visibility_denied_total",
		Help: "Total number of post lookups hidden from the viewer",
	}, []string{"route"})

	// MutationRedirects counts mutations refused to non-authors, by entity.
	MutationRedirects = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_mutation_redirects_total",
		Help: "Total number of edit/delete attempts redirected because the requester is not the author",
	}, []string{"entity", "action"})

	// CacheRequests counts cache-aside lookups by key family and result (hit, miss, error).
	CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_cache_requests_total",
		Help: "Total number of cache lookups by key family and result",
	}, []string{"family", "result"})

	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "blog_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
