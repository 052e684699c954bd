package billing

import (
	"context"
	"time"

	"github.com/memberpulse/memberpulse/internal/domain/subscription"
	"github.com/memberpulse/memberpulse/internal/types"
)

// Client is the upstream billing-provider API boundary. All listings
// are paginated identically: a page of items, a has-more flag, and a
// cursor (the last item id) to resume from.
type Client interface {
	ListSubscriptions(ctx context.Context, params SubscriptionListParams) (*SubscriptionPage, error)
	ListEvents(ctx context.Context, params EventListParams) (*EventPage, error)
	ListInvoices(ctx context.Context, params InvoiceListParams) (*InvoicePage, error)
	GetCustomer(ctx context.Context, customerID string) (*Customer, error)
}

// SubscriptionListParams filters a subscription listing
type SubscriptionListParams struct {
	// Status filters by provider status; "all" lists every status
	Status string

	// Limit is the page size
	Limit int

	// StartingAfter resumes the listing after the given item id
	StartingAfter string
}

// EventListParams filters an event listing
type EventListParams struct {
	Type          types.EventType
	CreatedGTE    *time.Time
	Limit         int
	StartingAfter string
}

// InvoiceListParams filters an invoice listing
type InvoiceListParams struct {
	Status        types.InvoiceStatus
	Limit         int
	StartingAfter string
}

// SubscriptionPage is one page of a subscription listing
type SubscriptionPage struct {
	Items   []*subscription.Subscription
	HasMore bool
}

// EventPage is one page of an event listing
type EventPage struct {
	Items   []*subscription.Event
	HasMore bool
}

// InvoicePage is one page of an invoice listing
type InvoicePage struct {
	Items   []*subscription.Invoice
	HasMore bool
}

// Customer is a provider customer record
type Customer struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Deleted bool   `json:"deleted"`
}
