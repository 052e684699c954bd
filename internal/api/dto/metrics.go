package dto

import (
	"github.com/memberpulse/memberpulse/internal/types"
	"github.com/shopspring/decimal"
)

// ComparisonResponse is a period-over-period change. When the previous
// window has no data the change is 100 for growth-from-nothing and 0
// otherwise, never a division error.
type ComparisonResponse struct {
	Current  decimal.Decimal `json:"current"`
	Previous decimal.Decimal `json:"previous"`
	Change   float64         `json:"change"`
}

// DashboardMetricsResponse is the full dashboard metric set for a period
type DashboardMetricsResponse struct {
	Period                 types.PeriodType   `json:"period"`
	CurrentMembers         int                `json:"current_members"`
	PayingMembers          int                `json:"paying_members"`
	TrialMembers           int                `json:"trial_members"`
	MRR                    decimal.Decimal    `json:"mrr"`
	TotalRevenue           decimal.Decimal    `json:"total_revenue"`
	ChurnRate              float64            `json:"churn_rate"`
	GrowthRate             float64            `json:"growth_rate"`
	NewSignupsThisMonth    int                `json:"new_signups_this_month"`
	CancellationsThisMonth int                `json:"cancellations_this_month"`
	NewSignupsComparison   ComparisonResponse `json:"new_signups_comparison"`
	MRRComparison          ComparisonResponse `json:"mrr_comparison"`
}

// TrendPointResponse is one bucket of a growth trend series, paired
// with the same bucket one full period-length earlier for overlay charts
type TrendPointResponse struct {
	BucketLabel     string          `json:"bucket_label"`
	Members         int             `json:"members"`
	Revenue         decimal.Decimal `json:"revenue"`
	PreviousMembers int             `json:"previous_members"`
	PreviousRevenue decimal.Decimal `json:"previous_revenue"`
}

// AnalyticsResponse carries the unit-economics metrics
type AnalyticsResponse struct {
	LTV                     decimal.Decimal `json:"ltv"`
	CAC                     decimal.Decimal `json:"cac"`
	LTVCACRatio             float64         `json:"ltv_cac_ratio"`
	PaybackPeriodMonths     float64         `json:"payback_period_months"`
	ARPS                    decimal.Decimal `json:"arps"`
	FreeTrialConversionRate float64         `json:"free_trial_conversion_rate"`
	NetMRRGrowth            decimal.Decimal `json:"net_mrr_growth"`
	QuickRatio              float64         `json:"quick_ratio"`
	RetentionCurve          []float64       `json:"retention_curve"`
}

// ActivityEventResponse is one entry of the recent-activity feed
type ActivityEventResponse struct {
	ID            string             `json:"id"`
	Type          types.ActivityType `json:"type"`
	CustomerEmail string             `json:"customer_email"`
	Date          string             `json:"date"`
	Amount        *decimal.Decimal   `json:"amount,omitempty"`
	ActivePeriods *int               `json:"active_periods,omitempty"`
}

// AdSpendResponse aggregates marketing spend per window
type AdSpendResponse struct {
	TotalSpend   decimal.Decimal `json:"total_spend"`
	DailySpend   decimal.Decimal `json:"daily_spend"`
	WeeklySpend  decimal.Decimal `json:"weekly_spend"`
	MonthlySpend decimal.Decimal `json:"monthly_spend"`
	Currency     string          `json:"currency"`
}
