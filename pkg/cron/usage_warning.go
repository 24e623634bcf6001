package cron

import (
	"log"

	"github.com/robfig/cron/v3"

	"postpro_backend/internal/model"
	"postpro_backend/pkg/database"
	"postpro_backend/pkg/email"
	"postpro_backend/pkg/entitlement"
	"postpro_backend/pkg/plan"
	"postpro_backend/pkg/usage"
)

func InitUsageWarningCron() {
	c := cron.New()

	_, err := c.AddFunc("0 9 * * *", func() {
		sendUsageWarnings()
	})

	if err != nil {
		log.Printf("Could not initialize usage warning cron: %v", err)
		return
	}

	c.Start()
}

// sendUsageWarnings emails users who have crossed the near-limit threshold
// since their last warning. The limit_warning_sent flag keeps this
// idempotent until the monthly reset clears it.
func sendUsageWarnings() {
	log.Println("Checking for users near their usage limit...")

	var records []model.UsageRecord
	err := database.DB.Where("limit_warning_sent = ?", false).
		Preload("User").
		Find(&records).Error
	if err != nil {
		log.Printf("Error fetching usage records: %v", err)
		return
	}

	warned := 0
	for _, record := range records {
		def := plan.Resolve(record.PlanName)
		result := entitlement.EvaluateWithBonus(def, record.MonthlyPostCount, record.BonusCredits)

		if result.IsUnlimited {
			continue
		}
		if result.Status != entitlement.StatusNearLimit && result.Status != entitlement.StatusAtLimit {
			continue
		}

		if email.GlobalEmailService != nil {
			err := email.GlobalEmailService.SendUsageWarningEmail(
				record.User.Email,
				record.User.DisplayName,
				record.PlanName,
				result.Remaining,
				usage.EffectiveLimit(def, record.BonusCredits),
				record.MonthlyResetDate,
			)
			if err != nil {
				log.Printf("Error sending usage warning to %s: %v", record.User.Email, err)
				continue
			}
		}

		if err := database.DB.Model(&record).Update("limit_warning_sent", true).Error; err != nil {
			log.Printf("Error marking warning sent for user %d: %v", record.UserID, err)
			continue
		}
		warned++
	}

	if warned > 0 {
		log.Printf("Sent usage warnings to %d users", warned)
	}
}
