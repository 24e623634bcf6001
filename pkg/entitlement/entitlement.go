package entitlement

import "postpro_backend/pkg/plan"

// NearLimitThreshold is how many remaining posts trigger the warning state.
const NearLimitThreshold = 5

type Status string

const (
	StatusOK        Status = "OK"
	StatusNearLimit Status = "NEAR_LIMIT"
	StatusAtLimit   Status = "AT_LIMIT"
	StatusBlocked   Status = "BLOCKED"
)

// Result is what the dashboard widget and the usage gate consume.
type Result struct {
	PlanName    plan.Type `json:"plan_name"`
	IsUnlimited bool      `json:"is_unlimited"`
	Remaining   int       `json:"remaining"`
	PercentUsed float64   `json:"percent_used"`
	Status      Status    `json:"status"`
}

// Evaluate computes the entitlement for a plan and the current monthly post
// count. Pure function, total over limit >= -1 and count >= 0. Bonus credits
// earned from referrals are folded into the limit by the caller.
func Evaluate(def plan.Definition, monthlyPostCount int) Result {
	return evaluate(def.Name, def.MonthlyPostLimit, monthlyPostCount)
}

// EvaluateWithBonus extends a metered plan's limit by earned bonus credits.
// Unlimited plans ignore the bonus.
func EvaluateWithBonus(def plan.Definition, monthlyPostCount, bonusCredits int) Result {
	limit := def.MonthlyPostLimit
	if limit != plan.Unlimited && bonusCredits > 0 {
		limit += bonusCredits
	}
	return evaluate(def.Name, limit, monthlyPostCount)
}

func evaluate(name plan.Type, limit, count int) Result {
	if limit == plan.Unlimited {
		return Result{
			PlanName:    name,
			IsUnlimited: true,
			Remaining:   plan.Unlimited,
			PercentUsed: 0,
			Status:      StatusOK,
		}
	}

	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}

	var percent float64
	if limit > 0 {
		percent = 100 * float64(count) / float64(limit)
		if percent > 100 {
			percent = 100
		}
	}

	status := StatusOK
	switch {
	case limit == 0:
		status = StatusBlocked
	case remaining == 0:
		status = StatusAtLimit
	case remaining <= NearLimitThreshold:
		status = StatusNearLimit
	}

	return Result{
		PlanName:    name,
		IsUnlimited: false,
		Remaining:   remaining,
		PercentUsed: percent,
		Status:      status,
	}
}
