package service

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/memberpulse/memberpulse/internal/api/dto"
	"github.com/memberpulse/memberpulse/internal/cache"
	"github.com/memberpulse/memberpulse/internal/domain/subscription"
	"github.com/memberpulse/memberpulse/internal/types"
	"github.com/samber/lo"
)

// lifetimeBuckets are the churn-by-lifetime bucket labels, keyed by the
// number of whole months a member stayed before canceling.
var lifetimeBuckets = []string{"0-1 months", "1-3 months", "3-6 months", "6-12 months", "12+ months"}

// privateEmailProviders are the consumer mailbox domains used to split
// the customer base into private and business signups.
var privateEmailProviders = []string{
	"gmail.com", "hotmail.com", "hotmail.dk", "yahoo.com", "outlook.com",
	"live.dk", "live.com", "icloud.com", "me.com", "protonmail.com",
}

const (
	cohortChurnLimit = 12
	signupTrendLimit = 12
	topDomainLimit   = 10
)

// MemberInsightsService computes the member-insights report: churn
// behaviour, customer profiles and trial conversion
type MemberInsightsService interface {
	GetMemberInsights(ctx context.Context) (*dto.MemberInsightsResponse, error)
}

type memberInsightsService struct {
	ServiceParams
}

// NewMemberInsightsService creates a new MemberInsightsService
func NewMemberInsightsService(params ServiceParams) MemberInsightsService {
	return &memberInsightsService{ServiceParams: params}
}

func (s *memberInsightsService) GetMemberInsights(ctx context.Context) (*dto.MemberInsightsResponse, error) {
	key := cache.GenerateKey(cache.PrefixInsights, "members")
	return cache.WithCache(ctx, s.Cache, s.Logger, key, cache.DefaultTTL, s.compute)
}

func (s *memberInsightsService) compute(ctx context.Context) (*dto.MemberInsightsResponse, error) {
	now := time.Now().UTC()

	subs, err := s.subscriptionSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	live := lo.Filter(subs, func(sub *subscription.Subscription, _ int) bool {
		return sub.Livemode
	})

	return &dto.MemberInsightsResponse{
		ChurnAnalysis:  churnAnalysis(live),
		MemberProfiles: memberProfiles(live, now),
		GeneratedAt:    now.Format(time.RFC3339),
	}, nil
}

func churnAnalysis(live []*subscription.Subscription) dto.ChurnAnalysisResponse {
	byLifetime := make(map[string]int, len(lifetimeBuckets))
	for _, bucket := range lifetimeBuckets {
		byLifetime[bucket] = 0
	}

	totalCanceled := 0
	totalLifetimeDays := 0.0
	for _, sub := range live {
		if sub.CanceledAt == nil {
			continue
		}
		totalCanceled++
		totalLifetimeDays += sub.CanceledAt.Sub(sub.Created).Hours() / 24
		byLifetime[lifetimeBucket(wholeMonthsBetween(sub.Created, *sub.CanceledAt))]++
	}

	avgDays := 0
	if totalCanceled > 0 {
		avgDays = int(math.Round(totalLifetimeDays / float64(totalCanceled)))
	}

	scheduled := 0
	pastDue := 0
	for _, sub := range live {
		if sub.Status == types.SubscriptionStatusActive && sub.CancelAtPeriodEnd {
			scheduled++
		}
		if sub.Status == types.SubscriptionStatusPastDue {
			pastDue++
		}
	}

	return dto.ChurnAnalysisResponse{
		TotalCanceled:     totalCanceled,
		AvgLifetimeDays:   avgDays,
		AvgLifetimeMonths: int(math.Round(float64(avgDays) / 30)),
		ChurnByLifetime:   byLifetime,
		ChurnByCohort:     cohortChurn(live),
		RiskIndicators: dto.RiskIndicatorsResponse{
			ScheduledCancellations: scheduled,
			PastDue:                pastDue,
			TotalAtRisk:            scheduled + pastDue,
		},
	}
}

// cohortChurn computes per-signup-month churn rates for the most recent
// cohorts, newest first.
func cohortChurn(live []*subscription.Subscription) []dto.CohortChurnResponse {
	type tally struct {
		total    int
		canceled int
	}
	byMonth := make(map[string]*tally)
	for _, sub := range live {
		month := sub.Created.Format("2006-01")
		t, ok := byMonth[month]
		if !ok {
			t = &tally{}
			byMonth[month] = t
		}
		t.total++
		if sub.CanceledAt != nil {
			t.canceled++
		}
	}

	months := lo.Keys(byMonth)
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	if len(months) > cohortChurnLimit {
		months = months[:cohortChurnLimit]
	}

	cohorts := make([]dto.CohortChurnResponse, 0, len(months))
	for _, month := range months {
		t := byMonth[month]
		cohorts = append(cohorts, dto.CohortChurnResponse{
			Month:     month,
			Total:     t.total,
			Canceled:  t.canceled,
			ChurnRate: roundTo1(rateOf(t.canceled, t.total)),
		})
	}
	return cohorts
}

func memberProfiles(live []*subscription.Subscription, now time.Time) dto.MemberProfilesResponse {
	type profile struct {
		email   string
		created time.Time
	}

	// One profile per customer: earliest signup wins, first known email
	// sticks so multi-subscription customers are not double counted.
	customers := make(map[string]*profile)
	for _, sub := range live {
		p, ok := customers[sub.CustomerID]
		if !ok {
			customers[sub.CustomerID] = &profile{email: sub.CustomerEmail, created: sub.Created}
			continue
		}
		if sub.Created.Before(p.created) {
			p.created = sub.Created
		}
		if p.email == "" {
			p.email = sub.CustomerEmail
		}
	}

	privateEmails := 0
	businessEmails := 0
	domainCounts := make(map[string]int)
	signupsByMonth := make(map[string]int)
	for _, p := range customers {
		signupsByMonth[p.created.Format("2006-01")]++

		at := strings.LastIndex(p.email, "@")
		if at < 0 {
			continue
		}
		domain := strings.ToLower(p.email[at+1:])
		domainCounts[domain]++
		if lo.Contains(privateEmailProviders, domain) {
			privateEmails++
		} else {
			businessEmails++
		}
	}

	return dto.MemberProfilesResponse{
		TotalUniqueCustomers: len(customers),
		EmailAnalysis: dto.EmailAnalysisResponse{
			PrivateEmails:     privateEmails,
			BusinessEmails:    businessEmails,
			PrivatePercentage: roundTo1(rateOf(privateEmails, len(customers))),
			TopDomains:        topDomains(domainCounts),
		},
		SignupTrends:  signupTrends(signupsByMonth),
		TrialAnalysis: trialAnalysis(live, now),
	}
}

// topDomains ranks email domains by customer count, ties broken
// alphabetically so the ranking is stable.
func topDomains(counts map[string]int) []dto.EmailDomainResponse {
	domains := make([]dto.EmailDomainResponse, 0, len(counts))
	for domain, count := range counts {
		domains = append(domains, dto.EmailDomainResponse{Domain: domain, Count: count})
	}
	sort.Slice(domains, func(i, j int) bool {
		if domains[i].Count != domains[j].Count {
			return domains[i].Count > domains[j].Count
		}
		return domains[i].Domain < domains[j].Domain
	})
	if len(domains) > topDomainLimit {
		domains = domains[:topDomainLimit]
	}
	return domains
}

func signupTrends(byMonth map[string]int) []dto.SignupTrendResponse {
	months := lo.Keys(byMonth)
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	if len(months) > signupTrendLimit {
		months = months[:signupTrendLimit]
	}

	trends := make([]dto.SignupTrendResponse, 0, len(months))
	for _, month := range months {
		trends = append(trends, dto.SignupTrendResponse{Month: month, Signups: byMonth[month]})
	}
	return trends
}

// trialAnalysis measures trial volume and how many trials converted to
// a paid subscription. A subscription converted when it is active and
// its trial window has already closed.
func trialAnalysis(live []*subscription.Subscription, now time.Time) dto.TrialAnalysisResponse {
	current := 0
	converted := 0
	totalEver := 0
	for _, sub := range live {
		trialing := sub.Status == types.SubscriptionStatusTrialing
		if trialing {
			current++
		}
		if trialing || sub.TrialEnd != nil {
			totalEver++
		}
		if sub.Status == types.SubscriptionStatusActive && sub.TrialEnd != nil && sub.TrialEnd.Before(now) {
			converted++
		}
	}

	return dto.TrialAnalysisResponse{
		CurrentActiveTrials: current,
		TotalTrialsEver:     totalEver,
		ConvertedTrials:     converted,
		ConversionRate:      roundTo1(rateOf(converted, totalEver)),
	}
}

// wholeMonthsBetween is the number of full calendar months from one
// instant to a later one, 0 when to precedes from.
func wholeMonthsBetween(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

func lifetimeBucket(months int) string {
	switch {
	case months < 1:
		return lifetimeBuckets[0]
	case months < 3:
		return lifetimeBuckets[1]
	case months < 6:
		return lifetimeBuckets[2]
	case months < 12:
		return lifetimeBuckets[3]
	default:
		return lifetimeBuckets[4]
	}
}

func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}
