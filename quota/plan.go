// Package quota applies the subscription tier limits that gate swiping and pet creation.
package quota

import "pawmatch/domain"

// Unlimited disables a limit.
const Unlimited = -1

type Limits struct {
	DailySwipes int
	MaxPets     int
}

// Plans maps every tier to its limits. Unknown tiers fall back to free.
var Plans = map[domain.Plan]Limits{
	domain.PlanFree:    {DailySwipes: 50, MaxPets: 2},
	domain.PlanPremium: {DailySwipes: Unlimited, MaxPets: 10},
}

func LimitsFor(plan domain.Plan) Limits {
	if limits, ok := Plans[plan]; ok {
		return limits
	}
	return Plans[domain.PlanFree]
}
