package cron

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/memberpulse/memberpulse/internal/api/dto"
	"github.com/memberpulse/memberpulse/internal/logger"
	"github.com/memberpulse/memberpulse/internal/service"
	"github.com/memberpulse/memberpulse/internal/types"
)

// warmPeriods are the dashboard periods the scheduler keeps hot. They
// cover the default view plus the two longer windows whose trend scans
// are the most expensive to rebuild on a cold cache.
var warmPeriods = []types.PeriodType{
	types.PeriodLast4Weeks,
	types.PeriodLast3Months,
	types.PeriodLast12Months,
}

// WarmCacheHandler pre-computes the expensive derived values on a
// schedule so interactive requests hit a warm cache.
type WarmCacheHandler struct {
	metricsService  service.MetricsService
	trendService    service.TrendService
	activityService service.ActivityService
	log             *logger.Logger
}

func NewWarmCacheHandler(
	metricsService service.MetricsService,
	trendService service.TrendService,
	activityService service.ActivityService,
	log *logger.Logger,
) *WarmCacheHandler {
	return &WarmCacheHandler{
		metricsService:  metricsService,
		trendService:    trendService,
		activityService: activityService,
		log:             log,
	}
}

// WarmCache runs every warm step sequentially and reports per-step
// timing. A failed step is recorded and the remaining steps still run;
// the endpoint only reports "partial" so the scheduler can alert.
func (h *WarmCacheHandler) WarmCache(c *gin.Context) {
	ctx := c.Request.Context()
	started := time.Now()

	results := make([]dto.WarmCacheResult, 0, len(warmPeriods)*2+1)

	for _, period := range warmPeriods {
		results = append(results, h.runStep(ctx, "metrics", period, func(ctx context.Context) error {
			_, err := h.metricsService.GetDashboardMetrics(ctx, period)
			return err
		}))
		results = append(results, h.runStep(ctx, "trends", period, func(ctx context.Context) error {
			_, err := h.trendService.GetGrowthTrends(ctx, period)
			return err
		}))
	}

	results = append(results, h.runStep(ctx, "activity", "", func(ctx context.Context) error {
		_, err := h.activityService.GetRecentActivity(ctx)
		return err
	}))

	resp := dto.WarmCacheResponse{
		Status:      "ok",
		Results:     results,
		TotalTimeMs: time.Since(started).Milliseconds(),
	}
	for _, r := range results {
		if r.Status == "ok" {
			resp.SuccessCount++
		} else {
			resp.FailCount++
		}
	}
	if resp.FailCount > 0 {
		resp.Status = "partial"
	}

	h.log.Infow("Cache warm completed",
		"total_time_ms", resp.TotalTimeMs,
		"success_count", resp.SuccessCount,
		"fail_count", resp.FailCount,
	)

	c.JSON(http.StatusOK, resp)
}

func (h *WarmCacheHandler) runStep(ctx context.Context, stepType string, period types.PeriodType, fn func(context.Context) error) dto.WarmCacheResult {
	started := time.Now()
	result := dto.WarmCacheResult{
		Type:   stepType,
		Period: string(period),
		Status: "ok",
	}

	if err := fn(ctx); err != nil {
		h.log.Error("Cache warm step failed", "type", stepType, "period", period, "error", err)
		result.Status = "error"
		result.Error = err.Error()
	}

	result.TimeMs = time.Since(started).Milliseconds()
	return result
}
