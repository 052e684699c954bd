package subscription

import (
	"time"

	"github.com/memberpulse/memberpulse/internal/types"
	"github.com/shopspring/decimal"
)

// Event is a provider event-feed entry for subscription lifecycle changes
type Event struct {
	// ID is the provider event identifier
	ID string `json:"id"`

	// Type is the provider event type
	Type types.EventType `json:"type"`

	// Created is when the event occurred
	Created time.Time `json:"created"`

	// SubscriptionID references the subscription the event concerns
	SubscriptionID string `json:"subscription_id"`

	// SubscriptionCreated is the creation time of the referenced
	// subscription, used to derive how long a canceled member stayed
	SubscriptionCreated *time.Time `json:"subscription_created,omitempty"`

	// CustomerID references the owning customer
	CustomerID string `json:"customer_id"`

	// CustomerEmail is set when the provider expanded the customer
	CustomerEmail string `json:"customer_email,omitempty"`
}

// Invoice is a read-only projection of a provider invoice
type Invoice struct {
	// ID is the provider invoice identifier
	ID string `json:"id"`

	// Status is the provider invoice status
	Status types.InvoiceStatus `json:"status"`

	// AmountPaid is the paid amount in minor currency units
	AmountPaid int64 `json:"amount_paid"`

	// Created is when the invoice was created
	Created time.Time `json:"created"`
}

// AmountPaidMajor converts the paid amount to major currency units
func (i *Invoice) AmountPaidMajor() decimal.Decimal {
	return decimal.NewFromInt(i.AmountPaid).Div(decimal.NewFromInt(100))
}
