package services

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"marketlens/backend-go/internal/metrics"
)

func cacheGet[T any](c Cache, ctx context.Context, key string) (*T, bool) {
	if c == nil {
		return nil, false
	}
	b, ok := c.Get(ctx, key)
	if !ok {
		return nil, false
	}
	var v T
	if err := UnmarshalCache(b, &v); err != nil {
		return nil, false
	}
	return &v, true
}

func cacheSetSilently(c Cache, ctx context.Context, key string, v any, ttl time.Duration) {
	if c == nil {
		return
	}
	b, err := MarshalCache(v)
	if err != nil {
		return
	}
	_ = c.Set(ctx, key, b, ttl)
}

// FillThrough is the cache-aside path every resource family goes through:
// cache lookup, then a singleflight-coalesced load on miss so concurrent
// requests for the same unresolved key share one upstream call, then a cache
// write. The second return value reports whether the result came from cache.
func FillThrough[T any](ctx context.Context, c Cache, sf *singleflight.Group, key string, ttl time.Duration, loader func() (T, error)) (T, bool, error) {
	key = canonicalKey(key)
	resource := keyResource(key)
	if v, ok := cacheGet[T](c, ctx, key); ok {
		metrics.CacheHits.WithLabelValues(resource).Inc()
		return *v, true, nil
	}
	metrics.CacheMisses.WithLabelValues(resource).Inc()

	res, err, _ := sf.Do(key, func() (any, error) {
		// Re-check under the flight: another caller may have filled the
		// entry while this one waited.
		if v, ok := cacheGet[T](c, ctx, key); ok {
			return *v, nil
		}
		v, err := loader()
		if err != nil {
			return nil, err
		}
		cacheSetSilently(c, ctx, key, v, ttl)
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, false, err
	}
	v, ok := res.(T)
	if !ok {
		var zero T
		return zero, false, errUnexpectedFlightType
	}
	return v, false, nil
}

var errUnexpectedFlightType = errors.New("unexpected singleflight result type")

func keyResource(key string) string {
	if i := strings.Index(key, ":"); i > 0 {
		return key[:i]
	}
	return key
}
