package types

import (
	"fmt"
	"time"
)

// PeriodType is a named reporting window token
type PeriodType string

const (
	PeriodToday        PeriodType = "today"
	PeriodYesterday    PeriodType = "yesterday"
	PeriodLast7Days    PeriodType = "last7days"
	PeriodLast4Weeks   PeriodType = "last4weeks"
	PeriodLast3Months  PeriodType = "last3months"
	PeriodLast12Months PeriodType = "last12months"
	PeriodMonthToDate  PeriodType = "monthToDate"
	PeriodLastMonth    PeriodType = "lastMonth"
	PeriodYearToDate   PeriodType = "yearToDate"
	PeriodAllTime      PeriodType = "allTime"
)

// DefaultPeriod is used when a request does not specify a period
const DefaultPeriod = PeriodLast4Weeks

func (p PeriodType) Validate() error {
	switch p {
	case PeriodToday, PeriodYesterday, PeriodLast7Days, PeriodLast4Weeks,
		PeriodLast3Months, PeriodLast12Months, PeriodMonthToDate,
		PeriodLastMonth, PeriodYearToDate, PeriodAllTime:
		return nil
	default:
		return fmt.Errorf("invalid period type: %s", p)
	}
}

// ParsePeriod maps a raw query value to a PeriodType, falling back to
// DefaultPeriod on empty input.
func ParsePeriod(s string) (PeriodType, error) {
	if s == "" {
		return DefaultPeriod, nil
	}
	p := PeriodType(s)
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p, nil
}

// DateRange is a resolved reporting window [Start, End) plus the
// comparison window of equal length immediately preceding it.
// CompareEnd always equals Start; for allTime the comparison window is
// zero-length and comparisons against it are undefined.
type DateRange struct {
	Start        time.Time
	End          time.Time
	CompareStart time.Time
	CompareEnd   time.Time
}

// Width returns the length of the current window
func (r DateRange) Width() time.Duration {
	return r.End.Sub(r.Start)
}

// HasComparison reports whether the comparison window is meaningful
func (r DateRange) HasComparison() bool {
	return r.CompareEnd.After(r.CompareStart)
}

// Resolve maps the period token to concrete window boundaries relative
// to the given wall-clock instant. All boundaries are in UTC.
func (p PeriodType) Resolve(now time.Time) DateRange {
	now = now.UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	var start, end time.Time
	switch p {
	case PeriodToday:
		start, end = dayStart, now
	case PeriodYesterday:
		start, end = dayStart.AddDate(0, 0, -1), dayStart
	case PeriodLast7Days:
		start, end = now.AddDate(0, 0, -7), now
	case PeriodLast4Weeks:
		start, end = now.AddDate(0, 0, -28), now
	case PeriodLast3Months:
		start, end = now.AddDate(0, -3, 0), now
	case PeriodLast12Months:
		start, end = now.AddDate(-1, 0, 0), now
	case PeriodMonthToDate:
		start, end = monthStart, now
	case PeriodLastMonth:
		start, end = monthStart.AddDate(0, -1, 0), monthStart
	case PeriodYearToDate:
		start, end = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), now
	case PeriodAllTime:
		start, end = time.Unix(0, 0).UTC(), now
		return DateRange{Start: start, End: end, CompareStart: start, CompareEnd: start}
	default:
		// unknown tokens behave like the default period
		return DefaultPeriod.Resolve(now)
	}

	width := end.Sub(start)
	return DateRange{
		Start:        start,
		End:          end,
		CompareStart: start.Add(-width),
		CompareEnd:   start,
	}
}

// Granularity is the bucket size used when building trend series
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityWeekly  Granularity = "weekly"
	GranularityMonthly Granularity = "monthly"
)

// Granularity picks the trend bucket size from the window length:
// daily up to a month, weekly up to a quarter-ish window, monthly
// beyond that (and for allTime).
func (r DateRange) Granularity() Granularity {
	width := r.Width()
	switch {
	case width <= 31*24*time.Hour:
		return GranularityDaily
	case width <= 120*24*time.Hour:
		return GranularityWeekly
	default:
		return GranularityMonthly
	}
}

// MonthStart truncates t to the first instant of its calendar month in UTC
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthEnd returns the first instant of the month following t's month.
// Windows built from it are half-open, [MonthStart, MonthEnd).
func MonthEnd(t time.Time) time.Time {
	return MonthStart(t).AddDate(0, 1, 0)
}

// DayStart truncates t to the first instant of its day in UTC
func DayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
