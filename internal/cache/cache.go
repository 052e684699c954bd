package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Cache defines the interface for caching operations
type Cache interface {
	// Get retrieves a value from the cache
	// Returns the value and a boolean indicating whether the key was found
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set adds a value to the cache with the specified expiration
	// If expiration is 0, the item never expires (but may be evicted)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration)

	// Delete removes a key from the cache. Deleting an absent key is a no-op.
	Delete(ctx context.Context, key string)

	// DeleteByPrefix removes all keys with the given prefix
	DeleteByPrefix(ctx context.Context, prefix string)

	// Flush removes all items from the cache
	Flush(ctx context.Context)
}

// Predefined cache key prefixes for the derived values the engine serves.
// Period-dependent values embed the period token in the key so changing
// the requested period never invalidates unrelated entries.
const (
	PrefixSubscriptions = "subscriptions:v1"
	PrefixMetrics       = "metrics:v1"
	PrefixTrends        = "trends:v1"
	PrefixAnalytics     = "analytics:v1"
	PrefixActivity      = "activity:v1"
	PrefixAdSpend       = "adspend:v1"
	PrefixInsights      = "insights:v1"
)

// TTLs per derived value. Trends are the most expensive full-dataset
// scan so they keep a shorter TTL to bound staleness of the big charts
// without hammering the upstream.
const (
	DefaultTTL      = 30 * time.Minute
	TrendsTTL       = 10 * time.Minute
	AdSpendDayTTL   = 5 * time.Minute
	AdSpendWeekTTL  = 10 * time.Minute
	AdSpendMonthTTL = 15 * time.Minute
)

// GenerateKey creates a cache key from a prefix and a set of parameters
// It joins all parameters with a colon and appends them to the prefix
func GenerateKey(prefix string, params ...interface{}) string {
	parts := make([]string, len(params)+1)
	parts[0] = prefix

	for i, param := range params {
		parts[i+1] = fmt.Sprintf("%v", param)
	}

	return strings.Join(parts, ":")
}
