package service

import (
	"context"
	"time"

	"github.com/memberpulse/memberpulse/internal/api/dto"
	"github.com/memberpulse/memberpulse/internal/cache"
	"github.com/memberpulse/memberpulse/internal/types"
	"github.com/shopspring/decimal"
)

// AdSpendService exposes marketing spend per reporting window. The
// ads platform may be unreachable; the monthly figure then degrades to
// the configured fallback constant and the degradation is logged.
type AdSpendService interface {
	GetAdSpend(ctx context.Context) (*dto.AdSpendResponse, error)
	MonthlySpendOrFallback(ctx context.Context) decimal.Decimal
}

type adSpendService struct {
	ServiceParams
}

// NewAdSpendService creates a new AdSpendService
func NewAdSpendService(params ServiceParams) AdSpendService {
	return &adSpendService{ServiceParams: params}
}

func (s *adSpendService) GetAdSpend(ctx context.Context) (*dto.AdSpendResponse, error) {
	now := time.Now().UTC()

	monthly := s.MonthlySpendOrFallback(ctx)
	weekly := s.spendOrZero(ctx, "week", cache.AdSpendWeekTTL, now.AddDate(0, 0, -7), now)
	daily := s.spendOrZero(ctx, "today", cache.AdSpendDayTTL, types.DayStart(now), now)

	return &dto.AdSpendResponse{
		TotalSpend:   monthly,
		DailySpend:   daily,
		WeeklySpend:  weekly,
		MonthlySpend: monthly,
		Currency:     s.Config.Billing.Currency,
	}, nil
}

// MonthlySpendOrFallback returns this month's spend, substituting the
// configured fallback constant when the collaborator is unreachable so
// downstream unit economics keep computing.
func (s *adSpendService) MonthlySpendOrFallback(ctx context.Context) decimal.Decimal {
	now := time.Now().UTC()
	key := cache.GenerateKey(cache.PrefixAdSpend, "month")

	spend, err := cache.WithCache(ctx, s.Cache, s.Logger, key, cache.AdSpendMonthTTL,
		func(ctx context.Context) (decimal.Decimal, error) {
			return s.AdSpendClient.SpendBetween(ctx, types.MonthStart(now), now)
		})
	if err != nil {
		fallback := decimal.NewFromFloat(s.Config.AdSpend.MonthlyFallback)
		s.Logger.Warnw("ad spend unavailable, using fallback constant",
			"error", err,
			"fallback", fallback)
		return fallback
	}
	return spend
}

func (s *adSpendService) spendOrZero(ctx context.Context, window string, ttl time.Duration, start, end time.Time) decimal.Decimal {
	key := cache.GenerateKey(cache.PrefixAdSpend, window)

	spend, err := cache.WithCache(ctx, s.Cache, s.Logger, key, ttl,
		func(ctx context.Context) (decimal.Decimal, error) {
			return s.AdSpendClient.SpendBetween(ctx, start, end)
		})
	if err != nil {
		s.Logger.Warnw("ad spend unavailable for window, reporting zero",
			"window", window,
			"error", err)
		return decimal.Zero
	}
	return spend
}
