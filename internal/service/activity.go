package service

import (
	"context"
	"sort"
	"time"

	"github.com/memberpulse/memberpulse/internal/api/dto"
	"github.com/memberpulse/memberpulse/internal/cache"
	"github.com/memberpulse/memberpulse/internal/domain/subscription"
	"github.com/memberpulse/memberpulse/internal/types"
	"golang.org/x/sync/errgroup"
)

// recentActivityLimit caps both the per-type event fetch and the merged feed
const recentActivityLimit = 20

// ActivityService builds the recent signup/cancellation feed
type ActivityService interface {
	GetRecentActivity(ctx context.Context) ([]dto.ActivityEventResponse, error)
}

type activityService struct {
	ServiceParams
}

// NewActivityService creates a new ActivityService
func NewActivityService(params ServiceParams) ActivityService {
	return &activityService{ServiceParams: params}
}

func (s *activityService) GetRecentActivity(ctx context.Context) ([]dto.ActivityEventResponse, error) {
	key := cache.GenerateKey(cache.PrefixActivity, "recent")
	return cache.WithCache(ctx, s.Cache, s.Logger, key, cache.DefaultTTL, s.compute)
}

func (s *activityService) compute(ctx context.Context) ([]dto.ActivityEventResponse, error) {
	var signupEvents, cancelEvents []*subscription.Event

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		signupEvents, err = s.SubRepo.ListRecentEvents(gctx, types.EventTypeSubscriptionCreated, recentActivityLimit)
		return err
	})
	g.Go(func() error {
		var err error
		cancelEvents, err = s.SubRepo.ListRecentEvents(gctx, types.EventTypeSubscriptionDeleted, recentActivityLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	price := s.monthlyPrice()
	activities := make([]dto.ActivityEventResponse, 0, len(signupEvents)+len(cancelEvents))

	for _, e := range signupEvents {
		amount := price
		activities = append(activities, dto.ActivityEventResponse{
			ID:            e.ID,
			Type:          types.ActivityTypeSignup,
			CustomerEmail: s.resolveEmail(ctx, e),
			Date:          e.Created.Format(time.RFC3339),
			Amount:        &amount,
		})
	}

	for _, e := range cancelEvents {
		entry := dto.ActivityEventResponse{
			ID:            e.ID,
			Type:          types.ActivityTypeCancel,
			CustomerEmail: s.resolveEmail(ctx, e),
			Date:          e.Created.Format(time.RFC3339),
		}
		if periods := activePeriods(e); periods > 0 {
			entry.ActivePeriods = &periods
		}
		activities = append(activities, entry)
	}

	sort.Slice(activities, func(i, j int) bool {
		return activities[i].Date > activities[j].Date
	})

	if len(activities) > recentActivityLimit {
		activities = activities[:recentActivityLimit]
	}
	return activities, nil
}

// resolveEmail prefers the email expanded on the event and falls back
// to a customer lookup; a feed entry never fails over a missing email.
func (s *activityService) resolveEmail(ctx context.Context, e *subscription.Event) string {
	if e.CustomerEmail != "" {
		return e.CustomerEmail
	}
	if e.CustomerID == "" {
		return "Unknown"
	}
	email, err := s.SubRepo.GetCustomerEmail(ctx, e.CustomerID)
	if err != nil {
		s.Logger.Debugw("could not resolve customer email",
			"customer_id", e.CustomerID,
			"error", err)
		return "Unknown"
	}
	return email
}

// activePeriods is the number of whole-or-partial months between the
// subscription's creation and its cancellation event
func activePeriods(e *subscription.Event) int {
	if e.SubscriptionCreated == nil || !e.SubscriptionCreated.Before(e.Created) {
		return 0
	}
	months := 0
	for t := *e.SubscriptionCreated; t.Before(e.Created); t = t.AddDate(0, 1, 0) {
		months++
	}
	return months
}
