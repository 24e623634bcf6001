package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveKnownPlans(t *testing.T) {
	assert.Equal(t, 30, Resolve("STARTER").MonthlyPostLimit)
	assert.Equal(t, Unlimited, Resolve("PRO").MonthlyPostLimit)
	assert.Equal(t, Unlimited, Resolve("LIFETIME").MonthlyPostLimit)
	assert.True(t, Resolve("PRO").Features.ViralityScore)
	assert.False(t, Resolve("STARTER").Features.AIChat)
}

func TestResolveUnknownPlanFallsBackToFree(t *testing.T) {
	def := Resolve("legacy-gold")
	assert.Equal(t, FreePlan, def.Name)
	assert.NotEqual(t, Unlimited, def.MonthlyPostLimit)
}

func TestDeterminePlanType(t *testing.T) {
	assert.Equal(t, StarterPlan, DeterminePlanType("price_postpro_starter_monthly"))
	assert.Equal(t, ProAnnualPlan, DeterminePlanType("price_postpro_pro_annual"))
	assert.Equal(t, FreePlan, DeterminePlanType("price_unknown"))
}
