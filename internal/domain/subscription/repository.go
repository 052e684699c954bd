package subscription

import (
	"context"
	"time"

	"github.com/memberpulse/memberpulse/internal/types"
)

// Repository is the single source of truth for everything downstream.
// Implementations page through the upstream billing provider; failures
// propagate so callers can surface them, never degrade to empty data.
type Repository interface {
	// ListAll fetches the complete subscription set across all statuses
	ListAll(ctx context.Context) ([]*Subscription, error)

	// ListEventsSince fetches lifecycle events of the given type created
	// on or after since
	ListEventsSince(ctx context.Context, eventType types.EventType, since time.Time) ([]*Event, error)

	// ListRecentEvents fetches the latest events of the given type,
	// newest first, capped at limit
	ListRecentEvents(ctx context.Context, eventType types.EventType, limit int) ([]*Event, error)

	// ListPaidInvoices fetches paid invoices, subject to the page ceiling
	ListPaidInvoices(ctx context.Context) ([]*Invoice, error)

	// GetCustomerEmail resolves a customer identifier to an email address
	GetCustomerEmail(ctx context.Context, customerID string) (string, error)
}
