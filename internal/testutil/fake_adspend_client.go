package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// FakeAdSpendClient returns a fixed spend figure, or fails on demand to
// exercise the fallback path.
type FakeAdSpendClient struct {
	mu    sync.Mutex
	Spend decimal.Decimal
	Err   error

	// Calls records the windows requested, oldest first
	Calls [][2]time.Time
}

func NewFakeAdSpendClient() *FakeAdSpendClient {
	return &FakeAdSpendClient{}
}

func (c *FakeAdSpendClient) SpendBetween(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls = append(c.Calls, [2]time.Time{start, end})
	if c.Err != nil {
		return decimal.Zero, c.Err
	}
	return c.Spend, nil
}
