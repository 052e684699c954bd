package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/memberpulse/memberpulse/internal/config"
	ierr "github.com/memberpulse/memberpulse/internal/errors"
	"github.com/memberpulse/memberpulse/internal/httpclient"
	"github.com/memberpulse/memberpulse/internal/logger"
)

// providerClient talks to the billing provider's REST API. Every
// listing expands the customer so downstream classification and
// activity rendering never need a second round trip per record.
type providerClient struct {
	http httpclient.Client
	cfg  *config.Configuration
	log  *logger.Logger
}

// NewClient creates a billing provider API client
func NewClient(http httpclient.Client, cfg *config.Configuration, log *logger.Logger) Client {
	return &providerClient{
		http: http,
		cfg:  cfg,
		log:  log,
	}
}

func (c *providerClient) ListSubscriptions(ctx context.Context, params SubscriptionListParams) (*SubscriptionPage, error) {
	query := url.Values{}
	if params.Status != "" {
		query.Set("status", params.Status)
	}
	query.Set("limit", strconv.Itoa(params.Limit))
	query.Set("expand[]", "data.customer")
	if params.StartingAfter != "" {
		query.Set("starting_after", params.StartingAfter)
	}

	var envelope listEnvelope
	if err := c.list(ctx, "subscriptions", query, &envelope); err != nil {
		return nil, err
	}

	page := &SubscriptionPage{HasMore: envelope.HasMore}
	for _, raw := range envelope.Data {
		var w wireSubscription
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Provider returned a malformed subscription record").
				Mark(ierr.ErrProvider)
		}
		page.Items = append(page.Items, w.toDomain())
	}
	return page, nil
}

func (c *providerClient) ListEvents(ctx context.Context, params EventListParams) (*EventPage, error) {
	query := url.Values{}
	query.Set("type", string(params.Type))
	query.Set("limit", strconv.Itoa(params.Limit))
	if params.CreatedGTE != nil {
		query.Set("created[gte]", strconv.FormatInt(params.CreatedGTE.Unix(), 10))
	}
	if params.StartingAfter != "" {
		query.Set("starting_after", params.StartingAfter)
	}

	var envelope listEnvelope
	if err := c.list(ctx, "events", query, &envelope); err != nil {
		return nil, err
	}

	page := &EventPage{HasMore: envelope.HasMore}
	for _, raw := range envelope.Data {
		var w wireEvent
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Provider returned a malformed event record").
				Mark(ierr.ErrProvider)
		}
		page.Items = append(page.Items, w.toDomain())
	}
	return page, nil
}

func (c *providerClient) ListInvoices(ctx context.Context, params InvoiceListParams) (*InvoicePage, error) {
	query := url.Values{}
	query.Set("status", string(params.Status))
	query.Set("limit", strconv.Itoa(params.Limit))
	if params.StartingAfter != "" {
		query.Set("starting_after", params.StartingAfter)
	}

	var envelope listEnvelope
	if err := c.list(ctx, "invoices", query, &envelope); err != nil {
		return nil, err
	}

	page := &InvoicePage{HasMore: envelope.HasMore}
	for _, raw := range envelope.Data {
		var w wireInvoice
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Provider returned a malformed invoice record").
				Mark(ierr.ErrProvider)
		}
		page.Items = append(page.Items, w.toDomain())
	}
	return page, nil
}

func (c *providerClient) GetCustomer(ctx context.Context, customerID string) (*Customer, error) {
	if customerID == "" {
		return nil, ierr.NewError("customer id is required").
			WithHint("Customer id cannot be empty").
			Mark(ierr.ErrValidation)
	}

	resp, err := c.send(ctx, "customers/"+customerID, nil)
	if err != nil {
		return nil, err
	}

	var customer Customer
	if err := json.Unmarshal(resp.Body, &customer); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Provider returned a malformed customer record").
			Mark(ierr.ErrProvider)
	}
	return &customer, nil
}

func (c *providerClient) list(ctx context.Context, resource string, query url.Values, out *listEnvelope) error {
	resp, err := c.send(ctx, resource, query)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(resp.Body, out); err != nil {
		return ierr.WithError(err).
			WithHintf("Provider returned a malformed %s listing", resource).
			Mark(ierr.ErrProvider)
	}
	return nil
}

func (c *providerClient) send(ctx context.Context, path string, query url.Values) (*httpclient.Response, error) {
	endpoint := fmt.Sprintf("%s/%s", c.cfg.Billing.BaseURL, path)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	resp, err := c.http.Send(ctx, &httpclient.Request{
		Method: http.MethodGet,
		URL:    endpoint,
		Headers: map[string]string{
			"Authorization": "Bearer " + c.cfg.Billing.APIKey,
		},
	})
	if err != nil {
		if httpErr, ok := httpclient.IsHTTPError(err); ok {
			return nil, ierr.WithError(err).
				WithHint("Billing provider request failed").
				WithReportableDetails(map[string]any{
					"status_code": httpErr.StatusCode,
					"path":        path,
				}).
				Mark(ierr.ErrProvider)
		}
		return nil, err
	}
	return resp, nil
}
