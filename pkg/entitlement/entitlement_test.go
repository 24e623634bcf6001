package entitlement

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"postpro_backend/pkg/plan"
)

func planWithLimit(limit int) plan.Definition {
	return plan.Definition{Name: plan.StarterPlan, MonthlyPostLimit: limit}
}

func TestEvaluateRemainingClamped(t *testing.T) {
	cases := []struct {
		limit, count, remaining int
	}{
		{30, 0, 30},
		{30, 29, 1},
		{30, 30, 0},
		{30, 45, 0},
		{0, 0, 0},
		{10, 10, 0},
	}

	for _, tc := range cases {
		res := Evaluate(planWithLimit(tc.limit), tc.count)
		assert.Equal(t, tc.remaining, res.Remaining, "limit=%d count=%d", tc.limit, tc.count)
		assert.False(t, res.IsUnlimited)
	}
}

func TestEvaluateUnlimited(t *testing.T) {
	for _, count := range []int{0, 1, 10000} {
		res := Evaluate(planWithLimit(plan.Unlimited), count)
		assert.True(t, res.IsUnlimited)
		assert.Equal(t, StatusOK, res.Status)
		assert.Equal(t, float64(0), res.PercentUsed)
	}
}

func TestEvaluateZeroLimitBlocked(t *testing.T) {
	res := Evaluate(planWithLimit(0), 0)
	assert.Equal(t, StatusBlocked, res.Status)
	assert.Equal(t, float64(0), res.PercentUsed) // 0/0 reports 0%, not NaN
}

func TestEvaluateStatusBoundaries(t *testing.T) {
	cases := []struct {
		limit, count int
		status       Status
	}{
		{10, 6, StatusNearLimit}, // remaining 4
		{10, 5, StatusNearLimit}, // remaining 5, threshold inclusive
		{10, 4, StatusOK},        // remaining 6
		{10, 10, StatusAtLimit},
		{10, 11, StatusAtLimit},
		{30, 0, StatusOK},
	}

	for _, tc := range cases {
		res := Evaluate(planWithLimit(tc.limit), tc.count)
		assert.Equal(t, tc.status, res.Status, "limit=%d count=%d", tc.limit, tc.count)
	}
}

func TestEvaluatePercentUsed(t *testing.T) {
	assert.Equal(t, float64(50), Evaluate(planWithLimit(30), 15).PercentUsed)
	assert.Equal(t, float64(100), Evaluate(planWithLimit(30), 30).PercentUsed)
	assert.Equal(t, float64(100), Evaluate(planWithLimit(30), 90).PercentUsed)
}

func TestEvaluateWithBonus(t *testing.T) {
	def := planWithLimit(30)

	res := EvaluateWithBonus(def, 30, 2)
	assert.Equal(t, 2, res.Remaining)
	assert.Equal(t, StatusNearLimit, res.Status)

	// unlimited plans ignore bonus credits
	res = EvaluateWithBonus(planWithLimit(plan.Unlimited), 500, 2)
	assert.True(t, res.IsUnlimited)
	assert.Equal(t, StatusOK, res.Status)
}
