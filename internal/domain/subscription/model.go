package subscription

import (
	"time"

	"github.com/memberpulse/memberpulse/internal/types"
	"github.com/shopspring/decimal"
)

// Subscription is a read-only projection of an upstream billing-provider
// subscription record. The upstream API is the system of record; these
// records are never written back.
type Subscription struct {
	// ID is the provider identifier for the subscription
	ID string `json:"id"`

	// CustomerID is the provider identifier for the owning customer.
	// A customer may hold more than one subscription record, so member
	// counts must always de-duplicate by this field.
	CustomerID string `json:"customer_id"`

	// CustomerEmail is the customer's email when the provider expanded it
	CustomerEmail string `json:"customer_email,omitempty"`

	// Status is the provider-reported subscription status
	Status types.SubscriptionStatus `json:"status"`

	// Created is when the subscription was created
	Created time.Time `json:"created"`

	// CanceledAt is when the subscription was canceled, if ever
	CanceledAt *time.Time `json:"canceled_at,omitempty"`

	// TrialEnd is when the trial period ended or will end, if there was one
	TrialEnd *time.Time `json:"trial_end,omitempty"`

	// CancelAtPeriodEnd marks a subscription scheduled to lapse at the
	// end of the current billing period while still reported as active
	CancelAtPeriodEnd bool `json:"cancel_at_period_end"`

	// Livemode distinguishes production traffic from test-mode records
	Livemode bool `json:"livemode"`

	// Items are the subscription line items with their recurring prices
	Items []LineItem `json:"items"`
}

// LineItem is a single recurring line on a subscription
type LineItem struct {
	// PriceID is the provider identifier of the price
	PriceID string `json:"price_id"`

	// UnitAmount is the price per unit in major currency units
	UnitAmount decimal.Decimal `json:"unit_amount"`

	// Interval is the recurring interval of the price
	Interval types.BillingInterval `json:"interval"`
}

// IsPayingMember reports whether the subscription counts as a paying
// member for business purposes: production traffic, provider-active,
// and not scheduled to lapse at period end. The provider still reports
// scheduled cancellations as active, which is why the extra flag check
// exists at all.
func (s *Subscription) IsPayingMember() bool {
	return s.Livemode &&
		s.Status == types.SubscriptionStatusActive &&
		!s.CancelAtPeriodEnd
}

// IsTrialMember reports whether the subscription counts as a trialing
// member. A trial scheduled to cancel at period end still counts while
// the trial runs.
func (s *Subscription) IsTrialMember() bool {
	return s.Livemode && s.Status == types.SubscriptionStatusTrialing
}

// IsCountedMember is the classified-membership rule every member, MRR
// and churn figure must be derived from. Any status outside the
// enumerated rule (past_due, canceled, incomplete, ...) is not counted.
func (s *Subscription) IsCountedMember() bool {
	return s.IsPayingMember() || s.IsTrialMember()
}

// WasActiveAsOf reports whether the subscription existed and had not
// been canceled before the given instant. This is the historical
// counterpart of IsCountedMember used for trend buckets and
// members-at-start-of-month, where only creation and cancellation
// timestamps are reliable.
func (s *Subscription) WasActiveAsOf(t time.Time) bool {
	if !s.Livemode {
		return false
	}
	if s.Created.After(t) {
		return false
	}
	return s.CanceledAt == nil || !s.CanceledAt.Before(t)
}

// UniqueCustomers counts distinct customer identifiers among the
// subscriptions matching pred. Member counts are customer counts, never
// raw subscription counts.
func UniqueCustomers(subs []*Subscription, pred func(*Subscription) bool) int {
	seen := make(map[string]struct{})
	for _, s := range subs {
		if !pred(s) {
			continue
		}
		seen[s.CustomerID] = struct{}{}
	}
	return len(seen)
}
