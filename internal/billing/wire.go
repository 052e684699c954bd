package billing

import (
	"encoding/json"
	"time"

	"github.com/memberpulse/memberpulse/internal/domain/subscription"
	"github.com/memberpulse/memberpulse/internal/types"
	"github.com/shopspring/decimal"
)

// Wire shapes for the provider's JSON. Timestamps are unix seconds and
// the customer field may be either a bare id or an expanded object.

type listEnvelope struct {
	Data    []json.RawMessage `json:"data"`
	HasMore bool              `json:"has_more"`
}

type wireSubscription struct {
	ID                string          `json:"id"`
	Customer          json.RawMessage `json:"customer"`
	Status            string          `json:"status"`
	Created           int64           `json:"created"`
	CanceledAt        *int64          `json:"canceled_at"`
	TrialEnd          *int64          `json:"trial_end"`
	CancelAtPeriodEnd bool            `json:"cancel_at_period_end"`
	Livemode          bool            `json:"livemode"`
	Items             struct {
		Data []wireLineItem `json:"data"`
	} `json:"items"`
}

type wireLineItem struct {
	Price struct {
		ID         string `json:"id"`
		UnitAmount int64  `json:"unit_amount"`
		Recurring  struct {
			Interval string `json:"interval"`
		} `json:"recurring"`
	} `json:"price"`
}

type wireEvent struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Created int64  `json:"created"`
	Data    struct {
		Object wireSubscription `json:"object"`
	} `json:"data"`
}

type wireInvoice struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	AmountPaid int64  `json:"amount_paid"`
	Created    int64  `json:"created"`
}

// customerRef resolves the id-or-object customer field
func customerRef(raw json.RawMessage) (id string, email string) {
	if len(raw) == 0 {
		return "", ""
	}
	if raw[0] == '"' {
		_ = json.Unmarshal(raw, &id)
		return id, ""
	}
	var c Customer
	if err := json.Unmarshal(raw, &c); err != nil {
		return "", ""
	}
	return c.ID, c.Email
}

func (w *wireSubscription) toDomain() *subscription.Subscription {
	customerID, customerEmail := customerRef(w.Customer)

	var canceledAt *time.Time
	if w.CanceledAt != nil {
		t := time.Unix(*w.CanceledAt, 0).UTC()
		canceledAt = &t
	}

	var trialEnd *time.Time
	if w.TrialEnd != nil {
		t := time.Unix(*w.TrialEnd, 0).UTC()
		trialEnd = &t
	}

	items := make([]subscription.LineItem, 0, len(w.Items.Data))
	for _, item := range w.Items.Data {
		items = append(items, subscription.LineItem{
			PriceID:    item.Price.ID,
			UnitAmount: decimal.NewFromInt(item.Price.UnitAmount).Div(decimal.NewFromInt(100)),
			Interval:   types.BillingInterval(item.Price.Recurring.Interval),
		})
	}

	return &subscription.Subscription{
		ID:                w.ID,
		CustomerID:        customerID,
		CustomerEmail:     customerEmail,
		Status:            types.SubscriptionStatus(w.Status),
		Created:           time.Unix(w.Created, 0).UTC(),
		CanceledAt:        canceledAt,
		TrialEnd:          trialEnd,
		CancelAtPeriodEnd: w.CancelAtPeriodEnd,
		Livemode:          w.Livemode,
		Items:             items,
	}
}

func (w *wireEvent) toDomain() *subscription.Event {
	customerID, customerEmail := customerRef(w.Data.Object.Customer)

	var subCreated *time.Time
	if w.Data.Object.Created != 0 {
		t := time.Unix(w.Data.Object.Created, 0).UTC()
		subCreated = &t
	}

	return &subscription.Event{
		ID:                  w.ID,
		Type:                types.EventType(w.Type),
		Created:             time.Unix(w.Created, 0).UTC(),
		SubscriptionID:      w.Data.Object.ID,
		SubscriptionCreated: subCreated,
		CustomerID:          customerID,
		CustomerEmail:       customerEmail,
	}
}

func (w *wireInvoice) toDomain() *subscription.Invoice {
	return &subscription.Invoice{
		ID:         w.ID,
		Status:     types.InvoiceStatus(w.Status),
		AmountPaid: w.AmountPaid,
		Created:    time.Unix(w.Created, 0).UTC(),
	}
}
