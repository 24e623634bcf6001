package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"postpro_backend/pkg/plan"
)

func TestParseSubscriptionUpdateWithPriceChange(t *testing.T) {
	raw := []byte(`{
		"id": "sub_123",
		"current_period_end": 1767225600,
		"items": {"data": [{"price": {"id": "price_postpro_pro_monthly"}}]}
	}`)

	subData, newPlan, hasPlan := parseSubscriptionUpdate(raw)
	assert.Equal(t, "sub_123", subData.ID)
	assert.Equal(t, int64(1767225600), subData.CurrentPeriodEnd)
	assert.True(t, hasPlan)
	assert.Equal(t, plan.ProPlan, newPlan)
}

func TestParseSubscriptionUpdateWithoutItems(t *testing.T) {
	// Expiry-only updates carry no price item and must not look like a
	// tier change.
	raw := []byte(`{"id": "sub_456", "current_period_end": 1767225600}`)

	subData, _, hasPlan := parseSubscriptionUpdate(raw)
	assert.Equal(t, "sub_456", subData.ID)
	assert.False(t, hasPlan)
}

func TestParseSubscriptionUpdateUnknownPrice(t *testing.T) {
	raw := []byte(`{
		"id": "sub_789",
		"items": {"data": [{"price": {"id": "price_someone_elses"}}]}
	}`)

	_, newPlan, hasPlan := parseSubscriptionUpdate(raw)
	assert.True(t, hasPlan)
	assert.Equal(t, plan.FreePlan, newPlan)
}

func TestParseSubscriptionUpdateMalformed(t *testing.T) {
	subData, _, hasPlan := parseSubscriptionUpdate([]byte(`not json`))
	assert.Empty(t, subData.ID)
	assert.False(t, hasPlan)
}
