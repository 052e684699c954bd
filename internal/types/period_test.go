package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var periodNow = time.Date(2025, time.March, 15, 10, 30, 0, 0, time.UTC)

func TestResolve_CompareWindowContract(t *testing.T) {
	periods := []PeriodType{
		PeriodToday, PeriodYesterday, PeriodLast7Days, PeriodLast4Weeks,
		PeriodLast3Months, PeriodLast12Months, PeriodMonthToDate,
		PeriodLastMonth, PeriodYearToDate,
	}

	for _, p := range periods {
		t.Run(string(p), func(t *testing.T) {
			r := p.Resolve(periodNow)

			require.True(t, r.End.After(r.Start), "window must be non-empty")
			assert.Equal(t, r.Start, r.CompareEnd, "comparison window must end where the current window begins")
			assert.Equal(t, r.End.Sub(r.Start), r.CompareEnd.Sub(r.CompareStart), "windows must be equal length")
			assert.True(t, r.HasComparison())
		})
	}
}

func TestResolve_Boundaries(t *testing.T) {
	tests := []struct {
		period PeriodType
		start  time.Time
		end    time.Time
	}{
		{
			period: PeriodToday,
			start:  time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC),
			end:    periodNow,
		},
		{
			period: PeriodYesterday,
			start:  time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC),
			end:    time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			period: PeriodLast7Days,
			start:  periodNow.AddDate(0, 0, -7),
			end:    periodNow,
		},
		{
			period: PeriodLast4Weeks,
			start:  periodNow.AddDate(0, 0, -28),
			end:    periodNow,
		},
		{
			period: PeriodLast3Months,
			start:  time.Date(2024, time.December, 15, 10, 30, 0, 0, time.UTC),
			end:    periodNow,
		},
		{
			period: PeriodLast12Months,
			start:  time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC),
			end:    periodNow,
		},
		{
			period: PeriodMonthToDate,
			start:  time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
			end:    periodNow,
		},
		{
			period: PeriodLastMonth,
			start:  time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
			end:    time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			period: PeriodYearToDate,
			start:  time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
			end:    periodNow,
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			r := tt.period.Resolve(periodNow)
			assert.Equal(t, tt.start, r.Start)
			assert.Equal(t, tt.end, r.End)
		})
	}
}

func TestResolve_AllTime(t *testing.T) {
	r := PeriodAllTime.Resolve(periodNow)

	assert.Equal(t, time.Unix(0, 0).UTC(), r.Start)
	assert.Equal(t, periodNow, r.End)
	assert.Equal(t, r.CompareStart, r.CompareEnd, "allTime has a zero-length comparison window")
	assert.False(t, r.HasComparison())
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, PeriodLast4Weeks, p)

	p, err = ParsePeriod("lastMonth")
	require.NoError(t, err)
	assert.Equal(t, PeriodLastMonth, p)

	_, err = ParsePeriod("fortnight")
	assert.Error(t, err)
}

func TestGranularity(t *testing.T) {
	assert.Equal(t, GranularityDaily, PeriodToday.Resolve(periodNow).Granularity())
	assert.Equal(t, GranularityDaily, PeriodLast7Days.Resolve(periodNow).Granularity())
	assert.Equal(t, GranularityDaily, PeriodLast4Weeks.Resolve(periodNow).Granularity())
	assert.Equal(t, GranularityWeekly, PeriodLast3Months.Resolve(periodNow).Granularity())
	assert.Equal(t, GranularityMonthly, PeriodLast12Months.Resolve(periodNow).Granularity())
	assert.Equal(t, GranularityMonthly, PeriodAllTime.Resolve(periodNow).Granularity())
}

func TestMonthHelpers(t *testing.T) {
	ts := time.Date(2025, time.March, 15, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), MonthStart(ts))
	assert.Equal(t, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC), MonthEnd(ts))

	dec := time.Date(2024, time.December, 31, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), MonthEnd(dec))
}
