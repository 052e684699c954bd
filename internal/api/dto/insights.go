package dto

// CohortChurnResponse is the churn figure for one monthly signup cohort
type CohortChurnResponse struct {
	Month     string  `json:"month"`
	Total     int     `json:"total"`
	Canceled  int     `json:"canceled"`
	ChurnRate float64 `json:"churn_rate"`
}

// RiskIndicatorsResponse counts members at risk of leaving
type RiskIndicatorsResponse struct {
	ScheduledCancellations int `json:"scheduled_cancellations"`
	PastDue                int `json:"past_due"`
	TotalAtRisk            int `json:"total_at_risk"`
}

// ChurnAnalysisResponse summarizes how and when members leave
type ChurnAnalysisResponse struct {
	TotalCanceled     int                    `json:"total_canceled"`
	AvgLifetimeDays   int                    `json:"avg_lifetime_days"`
	AvgLifetimeMonths int                    `json:"avg_lifetime_months"`
	ChurnByLifetime   map[string]int         `json:"churn_by_lifetime"`
	ChurnByCohort     []CohortChurnResponse  `json:"churn_by_cohort"`
	RiskIndicators    RiskIndicatorsResponse `json:"risk_indicators"`
}

// EmailDomainResponse is one email domain with its customer count
type EmailDomainResponse struct {
	Domain string `json:"domain"`
	Count  int    `json:"count"`
}

// EmailAnalysisResponse splits the customer base into private and
// business email addresses
type EmailAnalysisResponse struct {
	PrivateEmails     int                   `json:"private_emails"`
	BusinessEmails    int                   `json:"business_emails"`
	PrivatePercentage float64               `json:"private_percentage"`
	TopDomains        []EmailDomainResponse `json:"top_domains"`
}

// SignupTrendResponse is the number of new customers in one month
type SignupTrendResponse struct {
	Month   string `json:"month"`
	Signups int    `json:"signups"`
}

// TrialAnalysisResponse summarizes trial volume and conversion
type TrialAnalysisResponse struct {
	CurrentActiveTrials int     `json:"current_active_trials"`
	TotalTrialsEver     int     `json:"total_trials_ever"`
	ConvertedTrials     int     `json:"converted_trials"`
	ConversionRate      float64 `json:"conversion_rate"`
}

// MemberProfilesResponse describes who the members are
type MemberProfilesResponse struct {
	TotalUniqueCustomers int                   `json:"total_unique_customers"`
	EmailAnalysis        EmailAnalysisResponse `json:"email_analysis"`
	SignupTrends         []SignupTrendResponse `json:"signup_trends"`
	TrialAnalysis        TrialAnalysisResponse `json:"trial_analysis"`
}

// MemberInsightsResponse is the full member-insights report
type MemberInsightsResponse struct {
	ChurnAnalysis  ChurnAnalysisResponse  `json:"churn_analysis"`
	MemberProfiles MemberProfilesResponse `json:"member_profiles"`
	GeneratedAt    string                 `json:"generated_at"`
}
