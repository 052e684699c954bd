package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/memberpulse/memberpulse/internal/domain/subscription"
	ierr "github.com/memberpulse/memberpulse/internal/errors"
	"github.com/memberpulse/memberpulse/internal/types"
	"github.com/samber/lo"
)

// InMemoryBillingStore implements subscription.Repository against
// in-memory fixtures. Setting Err makes every call fail with it, which
// exercises the propagate-never-degrade error paths.
type InMemoryBillingStore struct {
	mu sync.RWMutex

	subscriptions  []*subscription.Subscription
	events         []*subscription.Event
	invoices       []*subscription.Invoice
	customerEmails map[string]string

	Err error
}

func NewInMemoryBillingStore() *InMemoryBillingStore {
	return &InMemoryBillingStore{
		customerEmails: make(map[string]string),
	}
}

func (s *InMemoryBillingStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscriptions = nil
	s.events = nil
	s.invoices = nil
	s.customerEmails = make(map[string]string)
	s.Err = nil
}

func (s *InMemoryBillingStore) AddSubscription(subs ...*subscription.Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscriptions = append(s.subscriptions, subs...)
}

func (s *InMemoryBillingStore) AddEvent(events ...*subscription.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, events...)
}

func (s *InMemoryBillingStore) AddInvoice(invoices ...*subscription.Invoice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices = append(s.invoices, invoices...)
}

func (s *InMemoryBillingStore) SetCustomerEmail(customerID, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customerEmails[customerID] = email
}

func (s *InMemoryBillingStore) ListAll(ctx context.Context) ([]*subscription.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]*subscription.Subscription(nil), s.subscriptions...), nil
}

func (s *InMemoryBillingStore) ListEventsSince(ctx context.Context, eventType types.EventType, since time.Time) ([]*subscription.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return lo.Filter(s.events, func(e *subscription.Event, _ int) bool {
		return e.Type == eventType && !e.Created.Before(since)
	}), nil
}

func (s *InMemoryBillingStore) ListRecentEvents(ctx context.Context, eventType types.EventType, limit int) ([]*subscription.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	matched := lo.Filter(s.events, func(e *subscription.Event, _ int) bool {
		return e.Type == eventType
	})
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Created.After(matched[j].Created)
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *InMemoryBillingStore) ListPaidInvoices(ctx context.Context) ([]*subscription.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return lo.Filter(s.invoices, func(i *subscription.Invoice, _ int) bool {
		return i.Status == types.InvoiceStatusPaid
	}), nil
}

func (s *InMemoryBillingStore) GetCustomerEmail(ctx context.Context, customerID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return "", s.Err
	}
	email, ok := s.customerEmails[customerID]
	if !ok || email == "" {
		return "", ierr.NewError("customer not found").
			WithHint("Customer could not be resolved").
			Mark(ierr.ErrNotFound)
	}
	return email, nil
}
