package cache

import (
	"context"
	"time"

	"github.com/memberpulse/memberpulse/internal/logger"
)

// WithCache memoizes fetch under key for ttl. A hit returns the cached
// value without invoking fetch; a miss invokes fetch and stores the
// result. When the cache backend is unavailable (nil) the fetcher runs
// directly: correctness never depends on the cache, only performance.
// Fetch errors are returned as-is and nothing is stored.
func WithCache[T any](ctx context.Context, c Cache, log *logger.Logger, key string, ttl time.Duration, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	if c == nil {
		log.Warnw("cache backend unavailable, computing directly", "key", key)
		return fetch(ctx)
	}

	if cached, found := c.Get(ctx, key); found {
		if value, ok := cached.(T); ok {
			log.Debugw("cache hit", "key", key)
			return value, nil
		}
		// stored under the same key with a different shape, treat as a miss
		log.Warnw("cache entry has unexpected type, recomputing", "key", key)
	}

	log.Debugw("cache miss", "key", key)

	value, err := fetch(ctx)
	if err != nil {
		return zero, err
	}

	c.Set(ctx, key, value, ttl)
	return value, nil
}
