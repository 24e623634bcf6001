package referral

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"postpro_backend/pkg/plan"
)

func TestApplyRejectsSelfReferral(t *testing.T) {
	granted, err := Apply(7, 7, plan.FreePlan)
	assert.ErrorIs(t, err, ErrSelfReferral)
	assert.False(t, granted)
}

func TestIsDuplicateKey(t *testing.T) {
	// The translated error a concurrent second claim produces, bare and
	// wrapped.
	assert.True(t, isDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, isDuplicateKey(fmt.Errorf("create event: %w", gorm.ErrDuplicatedKey)))

	assert.False(t, isDuplicateKey(gorm.ErrRecordNotFound))
	assert.False(t, isDuplicateKey(errors.New("connection refused")))
	assert.False(t, isDuplicateKey(nil))
}
