package usage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"postpro_backend/pkg/plan"
)

func TestEffectiveLimit(t *testing.T) {
	starter := plan.Get(plan.StarterPlan)
	assert.Equal(t, 30, EffectiveLimit(starter, 0))
	assert.Equal(t, 32, EffectiveLimit(starter, 2))
	assert.Equal(t, 30, EffectiveLimit(starter, -3))
	assert.Equal(t, plan.Unlimited, EffectiveLimit(plan.Get(plan.ProPlan), 2))
}

func TestUnlimitedOverrideAllowlist(t *testing.T) {
	InitAllowlist([]string{"ops@postpro.ai", "Founder@PostPro.ai"})
	defer InitAllowlist(nil)

	assert.True(t, IsUnlimitedOverride("ops@postpro.ai"))
	assert.True(t, IsUnlimitedOverride("founder@postpro.ai"))
	assert.False(t, IsUnlimitedOverride("someone@example.com"))
}
