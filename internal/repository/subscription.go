package repository

import (
	"context"
	"time"

	"github.com/memberpulse/memberpulse/internal/billing"
	"github.com/memberpulse/memberpulse/internal/config"
	"github.com/memberpulse/memberpulse/internal/domain/subscription"
	ierr "github.com/memberpulse/memberpulse/internal/errors"
	"github.com/memberpulse/memberpulse/internal/logger"
	"github.com/memberpulse/memberpulse/internal/types"
)

// subscriptionRepository pages through the billing provider. Pagination
// is sequential per page since each cursor depends on the previous
// page's last record. A hard page ceiling guards against unbounded API
// cost; hitting it yields the partial dataset plus a completeness
// warning rather than a failure.
type subscriptionRepository struct {
	client billing.Client
	cfg    *config.Configuration
	log    *logger.Logger
}

// NewSubscriptionRepository creates a billing-provider-backed repository
func NewSubscriptionRepository(client billing.Client, cfg *config.Configuration, log *logger.Logger) subscription.Repository {
	return &subscriptionRepository{
		client: client,
		cfg:    cfg,
		log:    log,
	}
}

func (r *subscriptionRepository) ListAll(ctx context.Context) ([]*subscription.Subscription, error) {
	var all []*subscription.Subscription
	cursor := ""

	for page := 0; ; page++ {
		if page >= r.cfg.Billing.MaxPages {
			r.log.Warnw("subscription listing hit the page ceiling, proceeding with partial data",
				"pages", page,
				"fetched", len(all))
			break
		}

		resp, err := r.client.ListSubscriptions(ctx, billing.SubscriptionListParams{
			Status:        "all",
			Limit:         r.cfg.Billing.PageSize,
			StartingAfter: cursor,
		})
		if err != nil {
			return nil, err
		}

		all = append(all, resp.Items...)

		if !resp.HasMore || len(resp.Items) == 0 {
			break
		}
		cursor = resp.Items[len(resp.Items)-1].ID
	}

	r.log.Debugw("fetched subscription snapshot", "count", len(all))
	return all, nil
}

func (r *subscriptionRepository) ListEventsSince(ctx context.Context, eventType types.EventType, since time.Time) ([]*subscription.Event, error) {
	var all []*subscription.Event
	cursor := ""

	for page := 0; ; page++ {
		if page >= r.cfg.Billing.MaxPages {
			r.log.Warnw("event listing hit the page ceiling, proceeding with partial data",
				"type", eventType,
				"fetched", len(all))
			break
		}

		resp, err := r.client.ListEvents(ctx, billing.EventListParams{
			Type:          eventType,
			CreatedGTE:    &since,
			Limit:         r.cfg.Billing.PageSize,
			StartingAfter: cursor,
		})
		if err != nil {
			return nil, err
		}

		all = append(all, resp.Items...)

		if !resp.HasMore || len(resp.Items) == 0 {
			break
		}
		cursor = resp.Items[len(resp.Items)-1].ID
	}

	return all, nil
}

func (r *subscriptionRepository) ListRecentEvents(ctx context.Context, eventType types.EventType, limit int) ([]*subscription.Event, error) {
	if limit <= 0 {
		return nil, ierr.NewError("limit must be positive").
			WithHint("Event limit must be greater than zero").
			Mark(ierr.ErrValidation)
	}

	resp, err := r.client.ListEvents(ctx, billing.EventListParams{
		Type:  eventType,
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// invoicePageCeiling caps the paid-invoice scan independently of the
// subscription ceiling; total revenue tolerates a truncated tail.
const invoicePageCeiling = 10

func (r *subscriptionRepository) ListPaidInvoices(ctx context.Context) ([]*subscription.Invoice, error) {
	var all []*subscription.Invoice
	cursor := ""

	for page := 0; ; page++ {
		if page >= invoicePageCeiling {
			r.log.Warnw("invoice listing hit the page ceiling, proceeding with partial data",
				"fetched", len(all))
			break
		}

		resp, err := r.client.ListInvoices(ctx, billing.InvoiceListParams{
			Status:        types.InvoiceStatusPaid,
			Limit:         r.cfg.Billing.PageSize,
			StartingAfter: cursor,
		})
		if err != nil {
			return nil, err
		}

		all = append(all, resp.Items...)

		if !resp.HasMore || len(resp.Items) == 0 {
			break
		}
		cursor = resp.Items[len(resp.Items)-1].ID
	}

	return all, nil
}

func (r *subscriptionRepository) GetCustomerEmail(ctx context.Context, customerID string) (string, error) {
	customer, err := r.client.GetCustomer(ctx, customerID)
	if err != nil {
		return "", err
	}
	if customer.Deleted || customer.Email == "" {
		return "", ierr.NewError("customer has no email").
			WithHint("Customer is deleted or has no email on file").
			Mark(ierr.ErrNotFound)
	}
	return customer.Email, nil
}
