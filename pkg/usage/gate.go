package usage

import (
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"postpro_backend/internal/model"
	"postpro_backend/pkg/database"
	"postpro_backend/pkg/entitlement"
	"postpro_backend/pkg/plan"
)

type DenyReason string

const (
	ReasonAtLimit DenyReason = "AT_LIMIT"
	ReasonBlocked DenyReason = "BLOCKED"
)

// Decision is the outcome of a gate check. On denial the entitlement result
// is attached so callers can render an upgrade prompt.
type Decision struct {
	Allowed bool               `json:"allowed"`
	Reason  DenyReason         `json:"reason,omitempty"`
	Result  entitlement.Result `json:"entitlement"`
}

var unlimitedEmails = map[string]bool{}

// InitAllowlist registers operator-configured emails that bypass quota
// enforcement entirely.
func InitAllowlist(emails []string) {
	unlimitedEmails = make(map[string]bool, len(emails))
	for _, e := range emails {
		unlimitedEmails[strings.ToLower(e)] = true
	}
}

func IsUnlimitedOverride(email string) bool {
	return unlimitedEmails[strings.ToLower(email)]
}

// Snapshot reads the user's usage row and resolves its plan in one query.
// The row is created with the free plan on first use.
func Snapshot(userID uint) (model.UsageRecord, plan.Definition, error) {
	var record model.UsageRecord
	err := database.DB.Where(model.UsageRecord{UserID: userID}).
		Attrs(model.UsageRecord{
			PlanName:         string(plan.FreePlan),
			MonthlyResetDate: time.Now().AddDate(0, 1, 0),
		}).
		FirstOrCreate(&record).Error
	if err != nil {
		return model.UsageRecord{}, plan.Definition{}, err
	}

	return record, plan.Resolve(record.PlanName), nil
}

// Evaluate returns the current entitlement without consuming anything.
func Evaluate(userID uint, email string) (entitlement.Result, error) {
	if IsUnlimitedOverride(email) {
		return entitlement.Evaluate(plan.Definition{Name: plan.ProPlan, MonthlyPostLimit: plan.Unlimited}, 0), nil
	}

	record, def, err := Snapshot(userID)
	if err != nil {
		return entitlement.Result{}, err
	}
	return entitlement.EvaluateWithBonus(def, record.MonthlyPostCount, record.BonusCredits), nil
}

// TryConsume runs a permission check for one enhancement and, if allowed,
// consumes one unit of quota. The increment is a single conditional UPDATE
// so concurrent requests cannot push the counter past the limit by more
// than the number of in-flight requests.
//
// On backend errors the gate fails open: quota here is a product limit, not
// a security boundary, and availability wins.
func TryConsume(userID uint, email string) Decision {
	if IsUnlimitedOverride(email) {
		return Decision{
			Allowed: true,
			Result:  entitlement.Evaluate(plan.Definition{Name: plan.ProPlan, MonthlyPostLimit: plan.Unlimited}, 0),
		}
	}

	record, def, err := Snapshot(userID)
	if err != nil {
		log.Printf("usage gate: could not read usage for user %d, allowing: %v", userID, err)
		return Decision{Allowed: true}
	}

	result := entitlement.EvaluateWithBonus(def, record.MonthlyPostCount, record.BonusCredits)

	if !result.IsUnlimited {
		switch result.Status {
		case entitlement.StatusBlocked:
			return Decision{Allowed: false, Reason: ReasonBlocked, Result: result}
		case entitlement.StatusAtLimit:
			return Decision{Allowed: false, Reason: ReasonAtLimit, Result: result}
		}
	}

	tx := database.DB.Model(&model.UsageRecord{}).
		Where("user_id = ?", userID)
	if !result.IsUnlimited {
		tx = tx.Where("monthly_post_count < ?", EffectiveLimit(def, record.BonusCredits))
	}
	tx = tx.Update("monthly_post_count", gorm.Expr("monthly_post_count + 1"))

	if tx.Error != nil {
		log.Printf("usage gate: could not increment usage for user %d, allowing: %v", userID, tx.Error)
		return Decision{Allowed: true, Result: result}
	}

	if tx.RowsAffected == 0 && !result.IsUnlimited {
		// Lost the race to the last unit. Re-read so the denial carries
		// current numbers.
		if rec, d, err := Snapshot(userID); err == nil {
			result = entitlement.EvaluateWithBonus(d, rec.MonthlyPostCount, rec.BonusCredits)
		}
		return Decision{Allowed: false, Reason: ReasonAtLimit, Result: result}
	}

	result = entitlement.EvaluateWithBonus(def, record.MonthlyPostCount+1, record.BonusCredits)
	return Decision{Allowed: true, Result: result}
}

// EffectiveLimit is the plan limit extended by earned bonus credits.
// Unlimited plans stay unlimited.
func EffectiveLimit(def plan.Definition, bonusCredits int) int {
	if def.MonthlyPostLimit == plan.Unlimited {
		return plan.Unlimited
	}
	if bonusCredits < 0 {
		bonusCredits = 0
	}
	return def.MonthlyPostLimit + bonusCredits
}

// SwitchPlan moves a user to a new tier and resets their counters, used by
// the Stripe webhook and checkout flow. Plan and counters change together so
// a later check never mixes old usage with a new plan.
func SwitchPlan(userID uint, newPlan plan.Type) error {
	record, _, err := Snapshot(userID)
	if err != nil {
		return err
	}

	return database.DB.Model(&record).Updates(map[string]interface{}{
		"plan_name":          string(newPlan),
		"monthly_post_count": 0,
		"limit_warning_sent": false,
		"monthly_reset_date": time.Now().AddDate(0, 1, 0),
	}).Error
}

// GrantBonusCredits adds referral bonus credits to a user's usage row.
func GrantBonusCredits(userID uint, credits int) error {
	record, _, err := Snapshot(userID)
	if err != nil {
		return err
	}
	return database.DB.Model(&record).
		Update("bonus_credits", gorm.Expr("bonus_credits + ?", credits)).Error
}

// ResetMonthlyCounters zeroes every usage row whose reset date has passed
// and advances the date by one period. Safe to re-run: a reset row's date is
// in the future, so a second sweep skips it.
func ResetMonthlyCounters(now time.Time) (int64, error) {
	tx := database.DB.Model(&model.UsageRecord{}).
		Where("monthly_reset_date <= ?", now).
		Updates(map[string]interface{}{
			"monthly_post_count": 0,
			"limit_warning_sent": false,
			"monthly_reset_date": gorm.Expr("monthly_reset_date + INTERVAL '1 month'"),
		})
	return tx.RowsAffected, tx.Error
}
