package domain

// Plan is the subscription tier of a user. Billing lives elsewhere; the core
// only reads the tier to apply quotas.
type Plan string

const (
	PlanFree    Plan = "free"
	PlanPremium Plan = "premium"
)
