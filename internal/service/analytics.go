package service

import (
	"context"
	"sort"
	"time"

	"github.com/memberpulse/memberpulse/internal/api/dto"
	"github.com/memberpulse/memberpulse/internal/cache"
	"github.com/memberpulse/memberpulse/internal/domain/subscription"
	"github.com/memberpulse/memberpulse/internal/types"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// retentionHorizon is the number of month offsets in a retention curve
// (months 0 through 12)
const retentionHorizon = 13

// defaultRetentionCurve stands in when no cohorts exist yet, so unit
// economics still produce a defined result on an empty dataset.
var defaultRetentionCurve = []float64{100, 85, 75, 68, 62, 58, 54, 51, 48, 46, 44, 42, 40}

// AnalyticsService computes cohort retention and unit-economics metrics
type AnalyticsService interface {
	GetAnalyticsMetrics(ctx context.Context) (*dto.AnalyticsResponse, error)
}

type analyticsService struct {
	ServiceParams
	adSpend AdSpendService
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(params ServiceParams) AnalyticsService {
	return &analyticsService{
		ServiceParams: params,
		adSpend:       NewAdSpendService(params),
	}
}

func (s *analyticsService) GetAnalyticsMetrics(ctx context.Context) (*dto.AnalyticsResponse, error) {
	key := cache.GenerateKey(cache.PrefixAnalytics, "all")
	return cache.WithCache(ctx, s.Cache, s.Logger, key, cache.DefaultTTL, s.compute)
}

func (s *analyticsService) compute(ctx context.Context) (*dto.AnalyticsResponse, error) {
	now := time.Now().UTC()
	monthStart := types.MonthStart(now)

	subs, err := s.subscriptionSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	var signupEvents, cancelEvents []*subscription.Event
	g, gctx := errgroup.WithContext(ctx)
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

	curve := averageRetentionCurve(buildCohorts(subs), now)

	paying := subscription.UniqueCustomers(subs, (*subscription.Subscription).IsPayingMember)
	trial := subscription.UniqueCustomers(subs, (*subscription.Subscription).IsTrialMember)

	price := s.monthlyPrice()
	mrr := price.Mul(decimal.NewFromInt(int64(paying)))
	arps := averageRevenuePerSubscriber(mrr, paying)
	ltv := lifetimeValue(curve, arps)

	spend := s.adSpend.MonthlySpendOrFallback(ctx)
	newCustomers := uniqueEventCustomers(signupEvents)
	cac := customerAcquisitionCost(spend, newCustomers)

	signups := len(signupEvents)
	cancels := len(cancelEvents)

	return &dto.AnalyticsResponse{
		LTV:                     ltv,
		CAC:                     cac,
		LTVCACRatio:             safeRatio(ltv, cac),
		PaybackPeriodMonths:     safeRatio(cac, arps),
		ARPS:                    arps,
		FreeTrialConversionRate: rateOf(paying, paying+trial),
		NetMRRGrowth:            price.Mul(decimal.NewFromInt(int64(signups - cancels))),
		QuickRatio:              quickRatio(signups, cancels),
		RetentionCurve:          curve,
	}, nil
}

// cohort is the set of subscriptions created in one calendar month
type cohort struct {
	monthStart time.Time
	subs       []*subscription.Subscription
}

// buildCohorts groups live-mode subscriptions by the calendar month of
// their creation, ordered oldest first. Test-mode traffic stays out of
// retention the same way it stays out of every membership figure.
func buildCohorts(subs []*subscription.Subscription) []cohort {
	byMonth := make(map[time.Time][]*subscription.Subscription)
	for _, s := range subs {
		if !s.Livemode {
			continue
		}
		m := types.MonthStart(s.Created)
		byMonth[m] = append(byMonth[m], s)
	}

	months := make([]time.Time, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	cohorts := make([]cohort, 0, len(months))
	for _, m := range months {
		cohorts = append(cohorts, cohort{monthStart: m, subs: byMonth[m]})
	}
	return cohorts
}

// retentionAt computes the percentage of the cohort still retained at
// month offset m: created by the end of that month and either never
// canceled or canceled on/after its start.
func (c cohort) retentionAt(m int) float64 {
	offsetStart := c.monthStart.AddDate(0, m, 0)
	offsetEnd := offsetStart.AddDate(0, 1, 0)

	retained := 0
	for _, s := range c.subs {
		if s.Created.After(offsetEnd) {
			continue
		}
		if s.CanceledAt == nil || !s.CanceledAt.Before(offsetStart) {
			retained++
		}
	}
	return float64(retained) / float64(len(c.subs)) * 100
}

// averageRetentionCurve averages cohort curves point by point. Cohorts
// younger than an offset contribute nothing at that point rather than
// dragging the average to zero. With no cohorts at all the default
// curve stands in.
func averageRetentionCurve(cohorts []cohort, now time.Time) []float64 {
	if len(cohorts) == 0 {
		curve := make([]float64, retentionHorizon)
		copy(curve, defaultRetentionCurve)
		return curve
	}

	curve := make([]float64, retentionHorizon)
	for m := 0; m < retentionHorizon; m++ {
		sum := 0.0
		count := 0
		for _, c := range cohorts {
			if c.monthStart.AddDate(0, m, 0).After(now) {
				continue
			}
			sum += c.retentionAt(m)
			count++
		}
		if count > 0 {
			curve[m] = sum / float64(count)
		}
	}
	return curve
}

// averageRevenuePerSubscriber is MRR over paying members, 0 when empty
func averageRevenuePerSubscriber(mrr decimal.Decimal, paying int) decimal.Decimal {
	if paying == 0 {
		return decimal.Zero
	}
	return mrr.Div(decimal.NewFromInt(int64(paying)))
}

// lifetimeValue integrates the retention curve against ARPS over the
// 13-month horizon: Σ retention[m]/100 × ARPS.
func lifetimeValue(curve []float64, arps decimal.Decimal) decimal.Decimal {
	ltv := decimal.Zero
	for _, retention := range curve {
		ltv = ltv.Add(arps.Mul(decimal.NewFromFloat(retention / 100)))
	}
	return ltv
}

// customerAcquisitionCost is spend over new customers, 0 when none
func customerAcquisitionCost(spend decimal.Decimal, newCustomers int) decimal.Decimal {
	if newCustomers == 0 {
		return decimal.Zero
	}
	return spend.Div(decimal.NewFromInt(int64(newCustomers)))
}

// uniqueEventCustomers counts distinct customers across events
func uniqueEventCustomers(events []*subscription.Event) int {
	seen := make(map[string]struct{})
	for _, e := range events {
		if e.CustomerID == "" {
			continue
		}
		seen[e.CustomerID] = struct{}{}
	}
	return len(seen)
}

func safeRatio(numerator, denominator decimal.Decimal) float64 {
	if denominator.IsZero() {
		return 0
	}
	ratio, _ := numerator.Div(denominator).Float64()
	return ratio
}

func quickRatio(signups, cancels int) float64 {
	if cancels == 0 {
		return 0
	}
	return float64(signups) / float64(cancels)
}
