// Package metrics registers the Prometheus metrics used by the gateway.
// Importing any package that touches a metric registers all of them before
// the /metrics handler is mounted.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// QueriesTotal counts processed queries labelled by matched intent
	// ("weather", "joke", "both", "none") and outcome ("ok", "partial_error",
	// "error").
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_queries_total",
			Help: "Total number of queries processed by the gateway.",
		},
		[]string{"intent", "status"},
	)

	// UpstreamRequests counts upstream API calls labelled by provider and
	// outcome ("success", "error"). Cache hits do not count as requests.
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_upstream_requests_total",
			Help: "Total upstream API requests by provider and status.",
		},
		[]string{"provider", "status"},
	)

	// UpstreamDuration observes upstream call latency in seconds, cache
	// hits included (they land in the lowest buckets).
	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_upstream_request_duration_seconds",
			Help:    "Upstream fetch duration in seconds.",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"provider"},
	)

	// CacheEvents counts cache lookups labelled by cache ("weather", "joke")
	// and event ("hit", "miss").
	CacheEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_cache_events_total",
			Help: "Cache lookup outcomes per domain cache.",
		},
		[]string{"cache", "event"},
	)

	// AuditLogFailures counts swallowed audit sink write failures.
	AuditLogFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gateway_audit_log_failures_total",
			Help: "Total audit log writes that failed and were swallowed.",
		},
	)
)
