package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/memberpulse/memberpulse/internal/api/dto"
	"github.com/memberpulse/memberpulse/internal/cache"
	"github.com/memberpulse/memberpulse/internal/logger"
	"github.com/memberpulse/memberpulse/internal/types"
)

type CacheHandler struct {
	cache cache.Cache
	log   *logger.Logger
}

func NewCacheHandler(cache cache.Cache, log *logger.Logger) *CacheHandler {
	return &CacheHandler{cache: cache, log: log}
}

// ClearCache invalidates cached derived values. With a period in the body
// only that period's metrics and trends entries go, plus the shared
// snapshot, analytics and activity entries which are period independent.
// Without a period every known prefix is cleared.
func (h *CacheHandler) ClearCache(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ClearCacheRequest
	// Body is optional; an empty body means clear everything.
	_ = c.ShouldBindJSON(&req)

	cleared := make([]string, 0, 8)

	if req.Period != "" {
		period, err := types.ParsePeriod(req.Period)
		if err != nil {
			h.log.Error("Invalid period in cache clear request", "period", req.Period, "error", err)
			c.JSON(http.StatusBadRequest, dto.ClearCacheResponse{
				Success: false,
				Message: "unknown period: " + req.Period,
			})
			return
		}

		keys := []string{
			cache.GenerateKey(cache.PrefixMetrics, period),
			cache.GenerateKey(cache.PrefixTrends, period),
			cache.GenerateKey(cache.PrefixAnalytics, "all"),
			cache.GenerateKey(cache.PrefixActivity, "recent"),
			cache.GenerateKey(cache.PrefixInsights, "members"),
			cache.GenerateKey(cache.PrefixSubscriptions, "all"),
		}
		for _, key := range keys {
			h.cache.Delete(ctx, key)
			cleared = append(cleared, key)
		}
	} else {
		prefixes := []string{
			cache.PrefixSubscriptions,
			cache.PrefixMetrics,
			cache.PrefixTrends,
			cache.PrefixAnalytics,
			cache.PrefixActivity,
			cache.PrefixAdSpend,
			cache.PrefixInsights,
		}
		for _, prefix := range prefixes {
			h.cache.DeleteByPrefix(ctx, prefix)
			cleared = append(cleared, prefix+":*")
		}
	}

	h.log.Infow("Cache cleared", "keys", cleared)

	c.JSON(http.StatusOK, dto.ClearCacheResponse{
		Success:     true,
		Message:     "cache cleared",
		ClearedKeys: cleared,
	})
}
