package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"yatube/internal/middleware"
	"yatube/internal/observability"

	"github.com/redis/go-redis/v9"
)

// FragmentCache stores rendered HTML fragments under a key prefix with a
// fixed TTL. Writes to the underlying data never invalidate it; entries
// expire or are flushed explicitly. A nil client disables caching.
type FragmentCache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewFragmentCache creates a FragmentCache. ttl <= 0 disables caching.
func NewFragmentCache(rdb *redis.Client, prefix string, ttl time.Duration) *FragmentCache {
	return &FragmentCache{
		rdb:    rdb,
		prefix: prefix,
		ttl:    ttl,
	}
}

// NewIndexCache is the fragment cache for the index post listing.
func NewIndexCache(rdb *redis.Client, ttl time.Duration) *FragmentCache {
	return NewFragmentCache(rdb, IndexPagePrefix, ttl)
}

func (f *FragmentCache) enabled() bool {
	return f != nil && f.rdb != nil && f.ttl > 0
}

// Get returns the fragment stored under key. Redis errors count as a miss.
func (f *FragmentCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if !f.enabled() {
		return nil, false
	}

	ctx, span := observability.StartCacheSpan(ctx, "get", f.prefix+key)
	b, err := f.rdb.Get(ctx, f.prefix+key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		observability.EndSpan(span, nil)
		observability.IndexCacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	case err != nil:
		observability.EndSpan(span, err)
		observability.IndexCacheLookups.WithLabelValues("error").Inc()
		middleware.Logger.WarnContext(ctx, "fragment cache read failed", slog.String("key", f.prefix+key), slog.String("error", err.Error()))
		return nil, false
	}
	observability.EndSpan(span, nil)
	observability.IndexCacheLookups.WithLabelValues("hit").Inc()
	return b, true
}

// Set stores a fragment for the configured TTL. Failures are logged and ignored.
func (f *FragmentCache) Set(ctx context.Context, key string, fragment []byte) {
	if !f.enabled() {
		return
	}
	ctx, span := observability.StartCacheSpan(ctx, "set", f.prefix+key)
	err := f.rdb.Set(ctx, f.prefix+key, fragment, f.ttl).Err()
	observability.EndSpan(span, err)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "fragment cache write failed", slog.String("key", f.prefix+key), slog.String("error", err.Error()))
	}
}

// Flush drops every fragment under the prefix and returns how many were removed.
func (f *FragmentCache) Flush(ctx context.Context) (int, error) {
	if f == nil || f.rdb == nil {
		return 0, nil
	}
	return DeleteByPrefix(ctx, f.rdb, f.prefix)
}
