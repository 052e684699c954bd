package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/memberpulse/memberpulse/internal/billing"
	"github.com/memberpulse/memberpulse/internal/config"
	"github.com/memberpulse/memberpulse/internal/domain/subscription"
	ierr "github.com/memberpulse/memberpulse/internal/errors"
	"github.com/memberpulse/memberpulse/internal/logger"
	"github.com/memberpulse/memberpulse/internal/types"
	"github.com/stretchr/testify/suite"
)

// fakeBillingClient serves canned pages keyed by the cursor it expects
type fakeBillingClient struct {
	subscriptions []*subscription.Subscription
	events        []*subscription.Event
	invoices      []*subscription.Invoice
	customers     map[string]*billing.Customer

	pageSizeSeen []int
	err          error
}

func (f *fakeBillingClient) ListSubscriptions(ctx context.Context, params billing.SubscriptionListParams) (*billing.SubscriptionPage, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.pageSizeSeen = append(f.pageSizeSeen, params.Limit)

	start := 0
	if params.StartingAfter != "" {
		for i, s := range f.subscriptions {
			if s.ID == params.StartingAfter {
				start = i + 1
				break
			}
		}
	}
	end := start + params.Limit
	if end > len(f.subscriptions) {
		end = len(f.subscriptions)
	}
	return &billing.SubscriptionPage{
		Items:   f.subscriptions[start:end],
		HasMore: end < len(f.subscriptions),
	}, nil
}

func (f *fakeBillingClient) ListEvents(ctx context.Context, params billing.EventListParams) (*billing.EventPage, error) {
	if f.err != nil {
		return nil, f.err
	}

	matched := make([]*subscription.Event, 0, len(f.events))
	for _, e := range f.events {
		if e.Type != params.Type {
			continue
		}
		if params.CreatedGTE != nil && e.Created.Before(*params.CreatedGTE) {
			continue
		}
		matched = append(matched, e)
	}

	start := 0
	if params.StartingAfter != "" {
		for i, e := range matched {
			if e.ID == params.StartingAfter {
				start = i + 1
				break
			}
		}
	}
	end := start + params.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return &billing.EventPage{
		Items:   matched[start:end],
		HasMore: end < len(matched),
	}, nil
}

func (f *fakeBillingClient) ListInvoices(ctx context.Context, params billing.InvoiceListParams) (*billing.InvoicePage, error) {
	if f.err != nil {
		return nil, f.err
	}

	end := params.Limit
	if end > len(f.invoices) {
		end = len(f.invoices)
	}
	start := 0
	if params.StartingAfter != "" {
		for i, inv := range f.invoices {
			if inv.ID == params.StartingAfter {
				start = i + 1
				break
			}
		}
		end = start + params.Limit
		if end > len(f.invoices) {
			end = len(f.invoices)
		}
	}
	return &billing.InvoicePage{
		Items:   f.invoices[start:end],
		HasMore: end < len(f.invoices),
	}, nil
}

func (f *fakeBillingClient) GetCustomer(ctx context.Context, customerID string) (*billing.Customer, error) {
	if f.err != nil {
		return nil, f.err
	}
	customer, ok := f.customers[customerID]
	if !ok {
		return nil, ierr.NewError("no such customer").
			WithHint("Customer not found").
			Mark(ierr.ErrNotFound)
	}
	return customer, nil
}

type SubscriptionRepositorySuite struct {
	suite.Suite
	ctx    context.Context
	client *fakeBillingClient
	cfg    *config.Configuration
	repo   subscription.Repository
}

func TestSubscriptionRepository(t *testing.T) {
	suite.Run(t, new(SubscriptionRepositorySuite))
}

func (s *SubscriptionRepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.client = &fakeBillingClient{customers: make(map[string]*billing.Customer)}
	s.cfg = config.GetDefaultConfig()
	s.cfg.Billing.PageSize = 2

	log, err := logger.NewLogger(s.cfg)
	s.Require().NoError(err)

	s.repo = NewSubscriptionRepository(s.client, s.cfg, log)
}

func (s *SubscriptionRepositorySuite) seedSubscriptions(n int) {
	for i := 0; i < n; i++ {
		s.client.subscriptions = append(s.client.subscriptions, &subscription.Subscription{
			ID:         fmt.Sprintf("sub_%03d", i),
			CustomerID: fmt.Sprintf("cus_%03d", i),
			Status:     types.SubscriptionStatusActive,
			Created:    time.Now().UTC(),
			Livemode:   true,
		})
	}
}

func (s *SubscriptionRepositorySuite) TestListAllFollowsCursors() {
	s.seedSubscriptions(5)

	subs, err := s.repo.ListAll(s.ctx)
	s.NoError(err)
	s.Len(subs, 5)
	// 5 records at page size 2 means 3 pages
	s.Len(s.client.pageSizeSeen, 3)
	s.Equal("sub_000", subs[0].ID)
	s.Equal("sub_004", subs[4].ID)
}

func (s *SubscriptionRepositorySuite) TestListAllEmptyDataset() {
	subs, err := s.repo.ListAll(s.ctx)
	s.NoError(err)
	s.Empty(subs)
}

func (s *SubscriptionRepositorySuite) TestListAllStopsAtPageCeiling() {
	s.cfg.Billing.MaxPages = 2
	s.seedSubscriptions(10)

	subs, err := s.repo.ListAll(s.ctx)
	s.NoError(err)
	// Partial data, never an error
	s.Len(subs, 4)
}

func (s *SubscriptionRepositorySuite) TestListAllPropagatesUpstreamError() {
	s.client.err = ierr.NewError("rate limited").
		WithHint("Billing provider rejected the request").
		Mark(ierr.ErrProvider)

	_, err := s.repo.ListAll(s.ctx)
	s.Error(err)
	s.True(ierr.IsProvider(err))
}

func (s *SubscriptionRepositorySuite) TestListEventsSinceFilters() {
	since := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	s.client.events = []*subscription.Event{
		{ID: "evt_1", Type: types.EventTypeSubscriptionCreated, Created: since.AddDate(0, 0, 5)},
		{ID: "evt_2", Type: types.EventTypeSubscriptionCreated, Created: since.AddDate(0, 0, -5)},
		{ID: "evt_3", Type: types.EventTypeSubscriptionDeleted, Created: since.AddDate(0, 0, 5)},
	}

	events, err := s.repo.ListEventsSince(s.ctx, types.EventTypeSubscriptionCreated, since)
	s.NoError(err)
	s.Require().Len(events, 1)
	s.Equal("evt_1", events[0].ID)
}

func (s *SubscriptionRepositorySuite) TestListRecentEventsRejectsBadLimit() {
	_, err := s.repo.ListRecentEvents(s.ctx, types.EventTypeSubscriptionCreated, 0)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *SubscriptionRepositorySuite) TestGetCustomerEmail() {
	s.client.customers["cus_1"] = &billing.Customer{ID: "cus_1", Email: "a@example.com"}
	s.client.customers["cus_2"] = &billing.Customer{ID: "cus_2", Deleted: true}

	email, err := s.repo.GetCustomerEmail(s.ctx, "cus_1")
	s.NoError(err)
	s.Equal("a@example.com", email)

	_, err = s.repo.GetCustomerEmail(s.ctx, "cus_2")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}
