package service

import (
	"testing"
	"time"

	"github.com/memberpulse/memberpulse/internal/domain/subscription"
	ierr "github.com/memberpulse/memberpulse/internal/errors"
	"github.com/memberpulse/memberpulse/internal/testutil"
	"github.com/memberpulse/memberpulse/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

var errUpstreamDown = ierr.NewError("billing provider unavailable").
	WithHint("Billing provider could not be reached").
	Mark(ierr.ErrProvider)

type MetricsServiceSuite struct {
	testutil.BaseServiceTestSuite
	service MetricsService
}

func TestMetricsService(t *testing.T) {
	suite.Run(t, new(MetricsServiceSuite))
}

func (s *MetricsServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewMetricsService(newTestServiceParams(&s.BaseServiceTestSuite))
}

func newTestServiceParams(s *testutil.BaseServiceTestSuite) ServiceParams {
	return ServiceParams{
		Logger:        s.GetLogger(),
		Config:        s.GetConfig(),
		Cache:         s.GetCache(),
		SubRepo:       s.GetStore(),
		AdSpendClient: s.GetAdSpendClient(),
	}
}

func payingSub(id, customerID string, created time.Time) *subscription.Subscription {
	return &subscription.Subscription{
		ID:         id,
		CustomerID: customerID,
		Status:     types.SubscriptionStatusActive,
		Created:    created,
		Livemode:   true,
		Items: []subscription.LineItem{{
			PriceID:    "price_monthly",
			UnitAmount: decimal.NewFromInt(149),
			Interval:   types.BillingIntervalMonth,
		}},
	}
}

func trialSub(id, customerID string, created time.Time) *subscription.Subscription {
	sub := payingSub(id, customerID, created)
	sub.Status = types.SubscriptionStatusTrialing
	return sub
}

func canceledSub(id, customerID string, created, canceledAt time.Time) *subscription.Subscription {
	sub := payingSub(id, customerID, created)
	sub.Status = types.SubscriptionStatusCanceled
	sub.CanceledAt = &canceledAt
	return sub
}

func (s *MetricsServiceSuite) seedMembers(paying, trialing int, created time.Time) {
	for i := 0; i < paying; i++ {
		s.GetStore().AddSubscription(payingSub(
			types.GenerateUUIDWithPrefix("sub"),
			types.GenerateUUIDWithPrefix("cus"),
			created,
		))
	}
	for i := 0; i < trialing; i++ {
		s.GetStore().AddSubscription(trialSub(
			types.GenerateUUIDWithPrefix("sub"),
			types.GenerateUUIDWithPrefix("cus"),
			created,
		))
	}
}

func (s *MetricsServiceSuite) TestGetDashboardMetricsCounts() {
	created := s.GetNow().AddDate(0, -2, 0)
	s.seedMembers(10, 2, created)

	// Test-mode and lapsing records must never move any figure
	testMode := payingSub("sub_test", "cus_test", created)
	testMode.Livemode = false
	lapsing := payingSub("sub_lapsing", "cus_lapsing", created)
	lapsing.CancelAtPeriodEnd = true
	s.GetStore().AddSubscription(testMode, lapsing)

	resp, err := s.service.GetDashboardMetrics(s.GetContext(), types.PeriodLast4Weeks)
	s.NoError(err)
	s.Equal(10, resp.PayingMembers)
	s.Equal(2, resp.TrialMembers)
	s.Equal(12, resp.CurrentMembers)
	s.Equal(resp.PayingMembers+resp.TrialMembers, resp.CurrentMembers)
	s.True(decimal.NewFromInt(1490).Equal(resp.MRR), "mrr should be 10 x 149, got %s", resp.MRR)
}

func (s *MetricsServiceSuite) TestMemberCountsDeduplicateByCustomer() {
	created := s.GetNow().AddDate(0, -2, 0)
	s.GetStore().AddSubscription(
		payingSub("sub_1", "cus_shared", created),
		payingSub("sub_2", "cus_shared", created),
	)

	resp, err := s.service.GetDashboardMetrics(s.GetContext(), types.PeriodLast4Weeks)
	s.NoError(err)
	s.Equal(1, resp.PayingMembers)
	s.True(decimal.NewFromInt(149).Equal(resp.MRR))
}

func (s *MetricsServiceSuite) TestTotalRevenueSumsPaidInvoices() {
	s.GetStore().AddInvoice(
		&subscription.Invoice{ID: "in_1", Status: types.InvoiceStatusPaid, AmountPaid: 14900, Created: s.GetNow()},
		&subscription.Invoice{ID: "in_2", Status: types.InvoiceStatusPaid, AmountPaid: 29800, Created: s.GetNow()},
	)

	resp, err := s.service.GetDashboardMetrics(s.GetContext(), types.PeriodLast4Weeks)
	s.NoError(err)
	s.True(decimal.NewFromInt(447).Equal(resp.TotalRevenue), "got %s", resp.TotalRevenue)
}

func (s *MetricsServiceSuite) TestEmptyDatasetYieldsZeroes() {
	resp, err := s.service.GetDashboardMetrics(s.GetContext(), types.PeriodLast4Weeks)
	s.NoError(err)
	s.Equal(0, resp.CurrentMembers)
	s.True(resp.MRR.IsZero())
	s.Zero(resp.ChurnRate)
	s.Zero(resp.GrowthRate)
	s.Zero(resp.NewSignupsComparison.Change)
	s.Zero(resp.MRRComparison.Change)
}

func (s *MetricsServiceSuite) TestChurnAndGrowthRates() {
	monthStart := types.MonthStart(s.GetNow())
	before := monthStart.AddDate(0, -1, 0)

	// 4 members existed at the start of the month
	s.seedMembers(4, 0, before)

	s.GetStore().AddEvent(
		&subscription.Event{ID: "evt_s1", Type: types.EventTypeSubscriptionCreated, Created: s.GetNow(), CustomerID: "cus_new1"},
		&subscription.Event{ID: "evt_s2", Type: types.EventTypeSubscriptionCreated, Created: s.GetNow(), CustomerID: "cus_new2"},
		&subscription.Event{ID: "evt_c1", Type: types.EventTypeSubscriptionDeleted, Created: s.GetNow(), CustomerID: "cus_old1"},
	)

	resp, err := s.service.GetDashboardMetrics(s.GetContext(), types.PeriodLast4Weeks)
	s.NoError(err)
	s.Equal(2, resp.NewSignupsThisMonth)
	s.Equal(1, resp.CancellationsThisMonth)
	s.InDelta(25.0, resp.ChurnRate, 0.0001)
	s.InDelta(25.0, resp.GrowthRate, 0.0001)
}

func (s *MetricsServiceSuite) TestSignupsComparisonGrowthFromNothing() {
	// All signups land inside the current window, none in the previous one
	s.seedMembers(3, 0, s.GetNow().AddDate(0, 0, -1))

	resp, err := s.service.GetDashboardMetrics(s.GetContext(), types.PeriodLast4Weeks)
	s.NoError(err)
	s.True(decimal.NewFromInt(3).Equal(resp.NewSignupsComparison.Current))
	s.True(resp.NewSignupsComparison.Previous.IsZero())
	s.InDelta(100.0, resp.NewSignupsComparison.Change, 0.0001)
}

func (s *MetricsServiceSuite) TestSignupsComparisonDecline() {
	// All signups land in the previous window only
	s.seedMembers(10, 0, s.GetNow().AddDate(0, 0, -35))

	resp, err := s.service.GetDashboardMetrics(s.GetContext(), types.PeriodLast4Weeks)
	s.NoError(err)
	s.True(resp.NewSignupsComparison.Current.IsZero())
	s.True(decimal.NewFromInt(10).Equal(resp.NewSignupsComparison.Previous))
	s.InDelta(-100.0, resp.NewSignupsComparison.Change, 0.0001)
}

func (s *MetricsServiceSuite) TestAllTimeComparisonsAreZero() {
	s.seedMembers(5, 0, s.GetNow().AddDate(0, -6, 0))

	resp, err := s.service.GetDashboardMetrics(s.GetContext(), types.PeriodAllTime)
	s.NoError(err)
	s.Zero(resp.NewSignupsComparison.Change)
	s.Zero(resp.MRRComparison.Change)
	s.True(resp.NewSignupsComparison.Previous.IsZero())
	s.True(resp.MRRComparison.Previous.IsZero())
}

func (s *MetricsServiceSuite) TestInvalidPeriodRejected() {
	_, err := s.service.GetDashboardMetrics(s.GetContext(), types.PeriodType("fortnight"))
	s.Error(err)
}

func (s *MetricsServiceSuite) TestUpstreamErrorPropagates() {
	s.GetStore().Err = errUpstreamDown

	_, err := s.service.GetDashboardMetrics(s.GetContext(), types.PeriodLast4Weeks)
	s.Error(err)
}

func (s *MetricsServiceSuite) TestResultIsCached() {
	s.seedMembers(2, 0, s.GetNow().AddDate(0, -1, 0))

	first, err := s.service.GetDashboardMetrics(s.GetContext(), types.PeriodLast4Weeks)
	s.NoError(err)
	s.Equal(2, first.PayingMembers)

	// Mutating the store must not show through while the entry is fresh
	s.seedMembers(5, 0, s.GetNow().AddDate(0, -1, 0))

	second, err := s.service.GetDashboardMetrics(s.GetContext(), types.PeriodLast4Weeks)
	s.NoError(err)
	s.Equal(2, second.PayingMembers)
}
