package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketlens_http_requests_total",
		Help: "Inbound HTTP requests by path and status code.",
	}, []string{"path", "status"})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketlens_cache_hits_total",
		Help: "Cache hits by resource family.",
	}, []string{"resource"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketlens_cache_misses_total",
		Help: "Cache misses by resource family.",
	}, []string{"resource"})

	UpstreamAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketlens_upstream_attempts_total",
		Help: "Upstream HTTP attempts by provider.",
	}, []string{"provider"})

	UpstreamRateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketlens_upstream_rate_limited_total",
		Help: "Upstream 429 responses by provider.",
	}, []string{"provider"})
)
