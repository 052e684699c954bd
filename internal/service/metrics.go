package service

import (
	"context"
	"time"

	"github.com/memberpulse/memberpulse/internal/api/dto"
	"github.com/memberpulse/memberpulse/internal/cache"
	"github.com/memberpulse/memberpulse/internal/domain/subscription"
	"github.com/memberpulse/memberpulse/internal/types"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// MetricsService computes the dashboard metric set for a period
type MetricsService interface {
	GetDashboardMetrics(ctx context.Context, period types.PeriodType) (*dto.DashboardMetricsResponse, error)
}

type metricsService struct {
	ServiceParams
}

// NewMetricsService creates a new MetricsService
func NewMetricsService(params ServiceParams) MetricsService {
	return &metricsService{ServiceParams: params}
}

func (s *metricsService) GetDashboardMetrics(ctx context.Context, period types.PeriodType) (*dto.DashboardMetricsResponse, error) {
	if err := period.Validate(); err != nil {
		return nil, errInvalidPeriod(period)
	}

	key := cache.GenerateKey(cache.PrefixMetrics, period)
	return cache.WithCache(ctx, s.Cache, s.Logger, key, cache.DefaultTTL,
		func(ctx context.Context) (*dto.DashboardMetricsResponse, error) {
			return s.compute(ctx, period)
		})
}

func (s *metricsService) compute(ctx context.Context, period types.PeriodType) (*dto.DashboardMetricsResponse, error) {
	now := time.Now().UTC()
	dateRange := period.Resolve(now)
	monthStart := types.MonthStart(now)

	subs, err := s.subscriptionSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	// The event feed and the invoice listing are independent upstream
	// calls; fan them out. Everything else is a pure read over the
	// snapshot and needs no coordination.
	var (
		totalRevenue decimal.Decimal
		signupEvents []*subscription.Event
		cancelEvents []*subscription.Event
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		invoices, err := s.SubRepo.ListPaidInvoices(gctx)
		if err != nil {
			return err
		}
		for _, inv := range invoices {
			totalRevenue = totalRevenue.Add(inv.AmountPaidMajor())
		}
		return nil
	})
	g.Go(func() error {
		var err error
		signupEvents, err = s.SubRepo.ListEventsSince(gctx, types.EventTypeSubscriptionCreated, monthStart)
		return err
	})
	g.Go(func() error {
		var err error
		cancelEvents, err = s.SubRepo.ListEventsSince(gctx, types.EventTypeSubscriptionDeleted, monthStart)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	paying := subscription.UniqueCustomers(subs, (*subscription.Subscription).IsPayingMember)
	trial := subscription.UniqueCustomers(subs, (*subscription.Subscription).IsTrialMember)
	current := subscription.UniqueCustomers(subs, (*subscription.Subscription).IsCountedMember)

	price := s.monthlyPrice()
	mrr := price.Mul(decimal.NewFromInt(int64(paying)))

	signups := len(signupEvents)
	cancels := len(cancelEvents)
	membersAtMonthStart := membersAsOf(subs, monthStart)

	return &dto.DashboardMetricsResponse{
		Period:                 period,
		CurrentMembers:         current,
		PayingMembers:          paying,
		TrialMembers:           trial,
		MRR:                    mrr,
		TotalRevenue:           totalRevenue,
		ChurnRate:              rateOf(cancels, membersAtMonthStart),
		GrowthRate:             rateOf(signups-cancels, membersAtMonthStart),
		NewSignupsThisMonth:    signups,
		CancellationsThisMonth: cancels,
		NewSignupsComparison:   signupsComparison(subs, dateRange),
		MRRComparison:          mrrComparison(subs, dateRange, price),
	}, nil
}

// membersAsOf counts unique customers whose subscription existed and
// had not been canceled at the given instant
func membersAsOf(subs []*subscription.Subscription, t time.Time) int {
	return subscription.UniqueCustomers(subs, func(s *subscription.Subscription) bool {
		return s.WasActiveAsOf(t)
	})
}

// signupsInWindow counts live-mode subscriptions created in [start, end)
func signupsInWindow(subs []*subscription.Subscription, start, end time.Time) int {
	count := 0
	for _, s := range subs {
		if s.Livemode && !s.Created.Before(start) && s.Created.Before(end) {
			count++
		}
	}
	return count
}

func signupsComparison(subs []*subscription.Subscription, r types.DateRange) dto.ComparisonResponse {
	current := decimal.NewFromInt(int64(signupsInWindow(subs, r.Start, r.End)))
	if !r.HasComparison() {
		return dto.ComparisonResponse{Current: current, Previous: decimal.Zero, Change: 0}
	}
	previous := decimal.NewFromInt(int64(signupsInWindow(subs, r.CompareStart, r.CompareEnd)))
	return comparisonOf(current, previous)
}

func mrrComparison(subs []*subscription.Subscription, r types.DateRange, price decimal.Decimal) dto.ComparisonResponse {
	current := price.Mul(decimal.NewFromInt(int64(membersAsOf(subs, r.End))))
	if !r.HasComparison() {
		return dto.ComparisonResponse{Current: current, Previous: decimal.Zero, Change: 0}
	}
	previous := price.Mul(decimal.NewFromInt(int64(membersAsOf(subs, r.Start))))
	return comparisonOf(current, previous)
}

// comparisonOf applies the period-over-period change convention:
// previous == 0 yields 100 when current > 0 and 0 otherwise, so a
// division by zero can never occur while growth-from-nothing still
// registers.
func comparisonOf(current, previous decimal.Decimal) dto.ComparisonResponse {
	resp := dto.ComparisonResponse{Current: current, Previous: previous}
	if previous.IsZero() {
		if current.IsPositive() {
			resp.Change = 100
		}
		return resp
	}
	change, _ := current.Sub(previous).
		Div(previous).
		Mul(decimal.NewFromInt(100)).
		Float64()
	resp.Change = change
	return resp
}

// rateOf returns numerator/denominator*100, or 0 when the denominator
// is 0. Aggregator functions are total: an empty dataset is valid input.
func rateOf(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return float64(numerator) / float64(denominator) * 100
}
