package subscription

import (
	"testing"
	"time"

	"github.com/memberpulse/memberpulse/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestClassification(t *testing.T) {
	tests := []struct {
		name              string
		status            types.SubscriptionStatus
		livemode          bool
		cancelAtPeriodEnd bool
		paying            bool
		trial             bool
	}{
		{
			name:     "live active",
			status:   types.SubscriptionStatusActive,
			livemode: true,
			paying:   true,
		},
		{
			name:     "live trialing",
			status:   types.SubscriptionStatusTrialing,
			livemode: true,
			trial:    true,
		},
		{
			name:     "test-mode active never counts",
			status:   types.SubscriptionStatusActive,
			livemode: false,
		},
		{
			name:     "test-mode trialing never counts",
			status:   types.SubscriptionStatusTrialing,
			livemode: false,
		},
		{
			name:              "active scheduled to cancel is excluded",
			status:            types.SubscriptionStatusActive,
			livemode:          true,
			cancelAtPeriodEnd: true,
		},
		{
			name:              "trialing scheduled to cancel still counts",
			status:            types.SubscriptionStatusTrialing,
			livemode:          true,
			cancelAtPeriodEnd: true,
			trial:             true,
		},
		{
			name:     "past_due is not counted",
			status:   types.SubscriptionStatusPastDue,
			livemode: true,
		},
		{
			name:     "canceled is not counted",
			status:   types.SubscriptionStatusCanceled,
			livemode: true,
		},
		{
			name:     "unpaid is not counted",
			status:   types.SubscriptionStatusUnpaid,
			livemode: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Subscription{
				ID:                "sub_1",
				CustomerID:        "cus_1",
				Status:            tt.status,
				Livemode:          tt.livemode,
				CancelAtPeriodEnd: tt.cancelAtPeriodEnd,
			}

			assert.Equal(t, tt.paying, s.IsPayingMember())
			assert.Equal(t, tt.trial, s.IsTrialMember())
			assert.Equal(t, tt.paying || tt.trial, s.IsCountedMember())
			assert.False(t, s.IsPayingMember() && s.IsTrialMember(), "no subscription is both paying and trialing")
		})
	}
}

func TestUniqueCustomers_DeduplicatesByCustomer(t *testing.T) {
	subs := []*Subscription{
		{ID: "sub_1", CustomerID: "cus_a", Status: types.SubscriptionStatusActive, Livemode: true},
		{ID: "sub_2", CustomerID: "cus_a", Status: types.SubscriptionStatusActive, Livemode: true},
		{ID: "sub_3", CustomerID: "cus_b", Status: types.SubscriptionStatusActive, Livemode: true},
		{ID: "sub_4", CustomerID: "cus_c", Status: types.SubscriptionStatusCanceled, Livemode: true},
	}

	got := UniqueCustomers(subs, (*Subscription).IsCountedMember)
	assert.Equal(t, 2, got, "two subscriptions of one customer count once")
}

func TestMembershipPartition(t *testing.T) {
	subs := []*Subscription{
		{ID: "sub_1", CustomerID: "cus_1", Status: types.SubscriptionStatusActive, Livemode: true},
		{ID: "sub_2", CustomerID: "cus_2", Status: types.SubscriptionStatusTrialing, Livemode: true},
		{ID: "sub_3", CustomerID: "cus_3", Status: types.SubscriptionStatusActive, Livemode: true},
		{ID: "sub_4", CustomerID: "cus_4", Status: types.SubscriptionStatusPastDue, Livemode: true},
		{ID: "sub_5", CustomerID: "cus_5", Status: types.SubscriptionStatusActive, Livemode: false},
	}

	paying := UniqueCustomers(subs, (*Subscription).IsPayingMember)
	trial := UniqueCustomers(subs, (*Subscription).IsTrialMember)
	current := UniqueCustomers(subs, (*Subscription).IsCountedMember)

	assert.Equal(t, current, paying+trial)
}

func TestWasActiveAsOf(t *testing.T) {
	created := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	canceled := time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)

	s := &Subscription{
		ID:         "sub_1",
		CustomerID: "cus_1",
		Status:     types.SubscriptionStatusCanceled,
		Livemode:   true,
		Created:    created,
		CanceledAt: lo.ToPtr(canceled),
	}

	assert.False(t, s.WasActiveAsOf(created.AddDate(0, 0, -1)), "not yet created")
	assert.True(t, s.WasActiveAsOf(created))
	assert.True(t, s.WasActiveAsOf(time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, s.WasActiveAsOf(canceled), "cancellation instant still counts")
	assert.False(t, s.WasActiveAsOf(canceled.AddDate(0, 0, 1)))

	testMode := &Subscription{ID: "sub_2", CustomerID: "cus_2", Livemode: false, Created: created}
	assert.False(t, testMode.WasActiveAsOf(canceled))
}

func TestInvoiceAmountPaidMajor(t *testing.T) {
	inv := &Invoice{ID: "in_1", Status: types.InvoiceStatusPaid, AmountPaid: 14900}
	assert.True(t, inv.AmountPaidMajor().Equal(decimal.NewFromInt(149)))

	odd := &Invoice{ID: "in_2", Status: types.InvoiceStatusPaid, AmountPaid: 14950}
	assert.True(t, odd.AmountPaidMajor().Equal(decimal.NewFromFloat(149.5)))
}
