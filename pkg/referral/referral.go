package referral

import (
	"errors"

	"gorm.io/gorm"

	"postpro_backend/internal/model"
	"postpro_backend/pkg/database"
	"postpro_backend/pkg/plan"
	"postpro_backend/pkg/usage"
)

// FreeReferralBonus is the number of enhancement credits a referrer earns
// when the referred user signs up on the free tier.
const FreeReferralBonus = 2

var ErrSelfReferral = errors.New("users cannot refer themselves")

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// Apply records a confirmed referral and grants the referrer's bonus.
// Duplicate calls for the same referred user are silent no-ops: the unique
// index on referred_user_id makes the grant idempotent. Returns whether a
// bonus was granted by this call.
func Apply(referrerID, referredUserID uint, referredPlan plan.Type) (bool, error) {
	if referrerID == referredUserID {
		return false, ErrSelfReferral
	}

	var existing model.ReferralEvent
	err := database.DB.Where("referred_user_id = ?", referredUserID).First(&existing).Error
	if err == nil {
		return false, nil // already attributed
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	event := model.ReferralEvent{
		ReferrerID:       referrerID,
		ReferredUserID:   referredUserID,
		ReferredUserPlan: string(referredPlan),
	}
	if err := database.DB.Create(&event).Error; err != nil {
		// Concurrent claim for the same referred user lost to the unique
		// index; same outcome as the pre-check above. Relies on the
		// TranslateError setting in InitDB.
		if isDuplicateKey(err) {
			return false, nil
		}
		return false, err
	}

	// Paid referrals only record the event; aggregation rewards are handled
	// by an external batch job over the event log.
	if referredPlan != plan.FreePlan {
		return false, nil
	}

	if err := usage.GrantBonusCredits(referrerID, FreeReferralBonus); err != nil {
		return false, err
	}
	return true, nil
}

// ListForReferrer returns a user's referral events, newest first.
func ListForReferrer(referrerID uint) ([]model.ReferralEvent, error) {
	var events []model.ReferralEvent
	err := database.DB.Where("referrer_id = ?", referrerID).
		Order("created_at DESC").
		Find(&events).Error
	return events, err
}
