package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/memberpulse/memberpulse/internal/adspend"
	"github.com/memberpulse/memberpulse/internal/api"
	"github.com/memberpulse/memberpulse/internal/api/cron"
	v1 "github.com/memberpulse/memberpulse/internal/api/v1"
	"github.com/memberpulse/memberpulse/internal/billing"
	"github.com/memberpulse/memberpulse/internal/cache"
	"github.com/memberpulse/memberpulse/internal/config"
	"github.com/memberpulse/memberpulse/internal/httpclient"
	"github.com/memberpulse/memberpulse/internal/logger"
	"github.com/memberpulse/memberpulse/internal/repository"
	"github.com/memberpulse/memberpulse/internal/service"
	"go.uber.org/fx"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			cache.NewInMemoryCache,

			// HTTP Client
			httpclient.NewDefaultClient,

			// Upstream clients
			billing.NewClient,
			adspend.NewClient,

			// Repositories
			repository.NewSubscriptionRepository,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewMetricsService,
			service.NewTrendService,
			service.NewAnalyticsService,
			service.NewMemberInsightsService,
			service.NewActivityService,
			service.NewAdSpendService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(
			startServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideHandlers(
	logger *logger.Logger,
	c cache.Cache,
	metricsService service.MetricsService,
	trendService service.TrendService,
	analyticsService service.AnalyticsService,
	insightsService service.MemberInsightsService,
	activityService service.ActivityService,
	adSpendService service.AdSpendService,
) api.Handlers {
	return api.Handlers{
		Health:    v1.NewHealthHandler(logger),
		Metrics:   v1.NewMetricsHandler(metricsService, logger),
		Trends:    v1.NewTrendsHandler(trendService, logger),
		Analytics: v1.NewAnalyticsHandler(analyticsService, logger),
		Insights:  v1.NewInsightsHandler(insightsService, logger),
		Activity:  v1.NewActivityHandler(activityService, logger),
		AdSpend:   v1.NewAdSpendHandler(adSpendService, logger),
		Cache:     v1.NewCacheHandler(c, logger),
		WarmCache: cron.NewWarmCacheHandler(metricsService, trendService, activityService, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration) *gin.Engine {
	return api.NewRouter(handlers, cfg)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("Starting API server", "address", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}
