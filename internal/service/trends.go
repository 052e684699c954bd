package service

import (
	"context"
	"time"

	"github.com/memberpulse/memberpulse/internal/api/dto"
	"github.com/memberpulse/memberpulse/internal/cache"
	"github.com/memberpulse/memberpulse/internal/domain/subscription"
	"github.com/memberpulse/memberpulse/internal/types"
	"github.com/shopspring/decimal"
)

// TrendService builds growth trend series for a period
type TrendService interface {
	GetGrowthTrends(ctx context.Context, period types.PeriodType) ([]dto.TrendPointResponse, error)
}

type trendService struct {
	ServiceParams
}

// NewTrendService creates a new TrendService
func NewTrendService(params ServiceParams) TrendService {
	return &trendService{ServiceParams: params}
}

func (s *trendService) GetGrowthTrends(ctx context.Context, period types.PeriodType) ([]dto.TrendPointResponse, error) {
	if err := period.Validate(); err != nil {
		return nil, errInvalidPeriod(period)
	}

	key := cache.GenerateKey(cache.PrefixTrends, period)
	return cache.WithCache(ctx, s.Cache, s.Logger, key, cache.TrendsTTL,
		func(ctx context.Context) ([]dto.TrendPointResponse, error) {
			subs, err := s.subscriptionSnapshot(ctx)
			if err != nil {
				return nil, err
			}
			dateRange := period.Resolve(time.Now().UTC())
			return buildTrendSeries(subs, dateRange, s.monthlyPrice()), nil
		})
}

// buildTrendSeries buckets the snapshot into a time series. It is a
// pure function of the snapshot and the resolved range: same inputs,
// bit-for-bit the same output.
func buildTrendSeries(subs []*subscription.Subscription, r types.DateRange, price decimal.Decimal) []dto.TrendPointResponse {
	start, end := r.Start, r.End

	// allTime resolves from the epoch; clamp to the earliest record so
	// the series does not open with decades of empty buckets
	if !r.HasComparison() {
		earliest := earliestCreated(subs)
		if earliest == nil {
			return []dto.TrendPointResponse{}
		}
		if earliest.After(start) {
			start = *earliest
		}
	}

	granularity := r.Granularity()
	width := r.Width()

	series := []dto.TrendPointResponse{}
	for bucketStart := alignBucket(start, granularity); bucketStart.Before(end); bucketStart = nextBucket(bucketStart, granularity) {
		bucketEnd := nextBucket(bucketStart, granularity)

		members := membersAsOf(subs, bucketEnd)
		point := dto.TrendPointResponse{
			BucketLabel: bucketLabel(bucketStart, granularity),
			Members:     members,
			Revenue:     price.Mul(decimal.NewFromInt(int64(members))),
		}

		if r.HasComparison() {
			prevMembers := membersAsOf(subs, bucketEnd.Add(-width))
			point.PreviousMembers = prevMembers
			point.PreviousRevenue = price.Mul(decimal.NewFromInt(int64(prevMembers)))
		} else {
			point.PreviousRevenue = decimal.Zero
		}

		series = append(series, point)
	}
	return series
}

func earliestCreated(subs []*subscription.Subscription) *time.Time {
	var earliest *time.Time
	for _, s := range subs {
		if earliest == nil || s.Created.Before(*earliest) {
			created := s.Created
			earliest = &created
		}
	}
	return earliest
}

func alignBucket(t time.Time, g types.Granularity) time.Time {
	if g == types.GranularityMonthly {
		return types.MonthStart(t)
	}
	return types.DayStart(t)
}

func nextBucket(t time.Time, g types.Granularity) time.Time {
	switch g {
	case types.GranularityDaily:
		return t.AddDate(0, 0, 1)
	case types.GranularityWeekly:
		return t.AddDate(0, 0, 7)
	default:
		return t.AddDate(0, 1, 0)
	}
}

func bucketLabel(t time.Time, g types.Granularity) string {
	if g == types.GranularityMonthly {
		return t.Format("Jan 2006")
	}
	return t.Format("02 Jan")
}
