package types

// SubscriptionStatus is the status of a subscription as reported by the
// upstream billing provider. Statuses outside the enumerated
// classification rule are never counted as members.
type SubscriptionStatus string

const (
	SubscriptionStatusActive     SubscriptionStatus = "active"
	SubscriptionStatusTrialing   SubscriptionStatus = "trialing"
	SubscriptionStatusPastDue    SubscriptionStatus = "past_due"
	SubscriptionStatusCanceled   SubscriptionStatus = "canceled"
	SubscriptionStatusIncomplete SubscriptionStatus = "incomplete"
	SubscriptionStatusUnpaid     SubscriptionStatus = "unpaid"
)

// BillingInterval is the recurring interval of a subscription line item price
type BillingInterval string

const (
	BillingIntervalMonth BillingInterval = "month"
	BillingIntervalYear  BillingInterval = "year"
)

// EventType identifies the provider event feed entries the engine consumes
type EventType string

const (
	EventTypeSubscriptionCreated EventType = "customer.subscription.created"
	EventTypeSubscriptionDeleted EventType = "customer.subscription.deleted"
)

// InvoiceStatus filters the provider invoice listing
type InvoiceStatus string

const (
	InvoiceStatusPaid InvoiceStatus = "paid"
)

// ActivityType classifies a recent-activity entry
type ActivityType string

const (
	ActivityTypeSignup ActivityType = "signup"
	ActivityTypeCancel ActivityType = "cancel"
)
