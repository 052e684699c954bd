package service

import (
	"context"

	"github.com/memberpulse/memberpulse/internal/adspend"
	"github.com/memberpulse/memberpulse/internal/cache"
	"github.com/memberpulse/memberpulse/internal/config"
	"github.com/memberpulse/memberpulse/internal/domain/subscription"
	"github.com/memberpulse/memberpulse/internal/logger"
	"github.com/shopspring/decimal"
)

// ServiceParams bundles the dependencies shared by every service
type ServiceParams struct {
	Logger        *logger.Logger
	Config        *config.Configuration
	Cache         cache.Cache
	SubRepo       subscription.Repository
	AdSpendClient adspend.Client
}

// NewServiceParams creates a new ServiceParams instance
func NewServiceParams(
	log *logger.Logger,
	cfg *config.Configuration,
	c cache.Cache,
	subRepo subscription.Repository,
	adSpendClient adspend.Client,
) ServiceParams {
	return ServiceParams{
		Logger:        log,
		Config:        cfg,
		Cache:         c,
		SubRepo:       subRepo,
		AdSpendClient: adSpendClient,
	}
}

// monthlyPrice is the flat per-seat monthly price used for all revenue
// approximations. MRR deliberately ignores actual line-item prices for
// parity with the business's single-plan pricing; the line items are
// still captured should a price-weighted sum ever be needed.
func (p ServiceParams) monthlyPrice() decimal.Decimal {
	return decimal.NewFromFloat(p.Config.Billing.MonthlyPrice)
}

// subscriptionSnapshot returns the complete subscription set, memoized
// so the expensive full-dataset scan is not repeated on every request.
// Every figure a single service call returns is derived from one
// snapshot; values cached at different times may disagree with each
// other, which is an accepted eventual-consistency property of the
// dashboard.
func (p ServiceParams) subscriptionSnapshot(ctx context.Context) ([]*subscription.Subscription, error) {
	key := cache.GenerateKey(cache.PrefixSubscriptions, "all")
	return cache.WithCache(ctx, p.Cache, p.Logger, key, cache.DefaultTTL,
		func(ctx context.Context) ([]*subscription.Subscription, error) {
			return p.SubRepo.ListAll(ctx)
		})
}
