package adspend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/memberpulse/memberpulse/internal/config"
	ierr "github.com/memberpulse/memberpulse/internal/errors"
	"github.com/memberpulse/memberpulse/internal/httpclient"
	"github.com/memberpulse/memberpulse/internal/logger"
	"github.com/shopspring/decimal"
)

const (
	apiVersion = "v21.0"
	graphURL   = "https://graph.facebook.com/" + apiVersion
)

// Client fetches marketing spend from the ads platform. It may be
// unavailable at any time; callers substitute a documented fallback
// constant and continue rather than failing the whole computation.
type Client interface {
	// SpendBetween returns the account-level ad spend for [start, end],
	// dates inclusive at day granularity
	SpendBetween(ctx context.Context, start, end time.Time) (decimal.Decimal, error)
}

type metaClient struct {
	http httpclient.Client
	cfg  *config.Configuration
	log  *logger.Logger
}

// NewClient creates an ads-platform insights client
func NewClient(http httpclient.Client, cfg *config.Configuration, log *logger.Logger) Client {
	return &metaClient{
		http: http,
		cfg:  cfg,
		log:  log,
	}
}

type insightsResponse struct {
	Data []struct {
		Spend string `json:"spend"`
	} `json:"data"`
}

func (c *metaClient) SpendBetween(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	if c.cfg.AdSpend.AccessToken == "" || c.cfg.AdSpend.AccountID == "" {
		return decimal.Zero, ierr.NewError("ad spend credentials not configured").
			WithHint("Ad spend access token and account id are required").
			Mark(ierr.ErrInvalidOperation)
	}

	timeRange, err := json.Marshal(map[string]string{
		"since": start.UTC().Format("2006-01-02"),
		"until": end.UTC().Format("2006-01-02"),
	})
	if err != nil {
		return decimal.Zero, err
	}

	query := url.Values{}
	query.Set("access_token", c.cfg.AdSpend.AccessToken)
	query.Set("time_range", string(timeRange))
	query.Set("fields", "spend")
	query.Set("level", "account")

	endpoint := fmt.Sprintf("%s/%s/insights?%s", graphURL, c.cfg.AdSpend.AccountID, query.Encode())

	resp, err := c.http.Send(ctx, &httpclient.Request{
		Method: http.MethodGet,
		URL:    endpoint,
	})
	if err != nil {
		return decimal.Zero, err
	}

	var insights insightsResponse
	if err := json.Unmarshal(resp.Body, &insights); err != nil {
		return decimal.Zero, ierr.WithError(err).
			WithHint("Ads platform returned a malformed insights response").
			Mark(ierr.ErrHTTPClient)
	}

	if len(insights.Data) == 0 {
		c.log.Debugw("no ad spend data for window",
			"since", start.Format("2006-01-02"),
			"until", end.Format("2006-01-02"))
		return decimal.Zero, nil
	}

	spend, err := decimal.NewFromString(insights.Data[0].Spend)
	if err != nil {
		return decimal.Zero, ierr.WithError(err).
			WithHint("Ads platform returned a non-numeric spend figure").
			Mark(ierr.ErrHTTPClient)
	}
	return spend, nil
}
