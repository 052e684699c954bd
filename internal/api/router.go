package api

import (
	"github.com/gin-gonic/gin"
	"github.com/memberpulse/memberpulse/internal/api/cron"
	v1 "github.com/memberpulse/memberpulse/internal/api/v1"
	"github.com/memberpulse/memberpulse/internal/config"
	"github.com/memberpulse/memberpulse/internal/rest/middleware"
	"github.com/memberpulse/memberpulse/internal/types"
)

type Handlers struct {
	Health    *v1.HealthHandler
	Metrics   *v1.MetricsHandler
	Trends    *v1.TrendsHandler
	Analytics *v1.AnalyticsHandler
	Insights  *v1.InsightsHandler
	Activity  *v1.ActivityHandler
	AdSpend   *v1.AdSpendHandler
	Cache     *v1.CacheHandler
	WarmCache *cron.WarmCacheHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration) *gin.Engine {
	if cfg.Deployment.Mode == types.ModeProd {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.CORSMiddleware)
	router.Use(middleware.ErrorHandler())

	router.GET("/health", handlers.Health.Health)

	// v1 routes
	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	// Cron routes, guarded by the shared scheduler secret
	cronGroup := router.Group("/v1/cron")
	cronGroup.Use(middleware.CronAuthMiddleware(cfg))
	{
		cronGroup.GET("/warm-cache", handlers.WarmCache.WarmCache)
	}

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	router.GET("/metrics", handlers.Metrics.GetDashboardMetrics)
	router.GET("/trends", handlers.Trends.GetGrowthTrends)
	router.GET("/analytics", handlers.Analytics.GetAnalyticsMetrics)
	router.GET("/member-insights", handlers.Insights.GetMemberInsights)
	router.GET("/activity", handlers.Activity.GetRecentActivity)
	router.GET("/adspend", handlers.AdSpend.GetAdSpend)

	cache := router.Group("/cache")
	{
		cache.POST("/clear", handlers.Cache.ClearCache)
	}
}
