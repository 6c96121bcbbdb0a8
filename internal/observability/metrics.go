// Package observability provides Prometheus metrics and OpenTelemetry tracing.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts failed Redis commands by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// IndexCacheLookups counts index fragment cache lookups by result (hit, miss, error).
	IndexCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_index_cache_lookups_total",
		Help: "Index page fragment cache lookups by result",
	}, []string{"result"})

	// FollowOperations counts follow graph changes by operation and outcome.
	FollowOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_follow_operations_total",
		Help: "Follow and unfollow operations by outcome",
	}, []string{"operation", "outcome"})

	// PostsCreated counts successfully created posts.
	PostsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yatube_posts_created_total",
		Help: "Total number of posts created",
	})

	// CommentsCreated counts successfully created comments.
	CommentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yatube_comments_created_total",
		Help: "Total number of comments created",
	})

	// RateLimitedRequests counts requests rejected by the rate limiter.
	RateLimitedRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_rate_limited_requests_total",
		Help: "Requests rejected by the rate limiter by resource",
	}, []string{"resource"})

	// MediaUploadBytes records the size of stored images after re-encoding.
	MediaUploadBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "yatube_media_upload_bytes",
		Help:    "Size of stored images after processing",
		Buckets: prometheus.ExponentialBuckets(4096, 2, 10),
	})
)
