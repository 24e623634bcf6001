package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"postpro_backend/internal/model"
	"postpro_backend/pkg/database"
	"postpro_backend/pkg/email"
	"postpro_backend/pkg/plan"
	"postpro_backend/pkg/referral"
	"postpro_backend/pkg/utils/jwt"
)

type ClaimReferralInput struct {
	ReferralCode string `json:"referral_code" validate:"required"`
}

// ClaimReferral lets a signed-up user submit a referral code after the fact.
// The event log's unique index keeps repeat claims from double-granting.
func ClaimReferral(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(ClaimReferralInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var referrer model.User
	if err := database.GetDB().Where("referral_code = ?", input.ReferralCode).First(&referrer).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Referral code not found",
		})
	}

	var me model.User
	if err := database.GetDB().First(&me, claims.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	referredPlan, err := referralPlanOf(me.ID)
	if err != nil {
		log.Printf("Could not resolve plan for referral claim by user %d: %v", me.ID, err)
	}

	granted, err := referral.Apply(referrer.ID, me.ID, referredPlan)
	if err != nil {
		if errors.Is(err, referral.ErrSelfReferral) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "You cannot use your own referral code",
				"reason": "SELF_REFERRAL",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not record referral",
		})
	}

	if granted {
		usageCache.InvalidateUsage(c.Context(), referrer.ID)
		if email.GlobalEmailService != nil {
			if err := email.GlobalEmailService.SendReferralBonusEmail(
				referrer.Email, referrer.DisplayName, me.DisplayName, referral.FreeReferralBonus,
			); err != nil {
				log.Printf("Could not send referral bonus email: %v", err)
			}
		}
	}

	return c.JSON(fiber.Map{
		"message": "Referral recorded",
	})
}

func referralPlanOf(userID uint) (plan.Type, error) {
	var record model.UsageRecord
	if err := database.GetDB().Where("user_id = ?", userID).First(&record).Error; err != nil {
		return plan.FreePlan, err
	}
	return plan.Resolve(record.PlanName).Name, nil
}

// GetMyReferrals returns the caller's referral history and totals.
func GetMyReferrals(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	events, err := referral.ListForReferrer(claims.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch referrals",
		})
	}

	type referralView struct {
		ReferredUserID   uint   `json:"referred_user_id"`
		ReferredUserPlan string `json:"referred_user_plan"`
		CreatedAt        string `json:"created_at"`
	}

	views := make([]referralView, 0, len(events))
	freeCount := 0
	for _, e := range events {
		views = append(views, referralView{
			ReferredUserID:   e.ReferredUserID,
			ReferredUserPlan: e.ReferredUserPlan,
			CreatedAt:        e.CreatedAt.Format("2006-01-02"),
		})
		if e.ReferredUserPlan == string(plan.FreePlan) {
			freeCount++
		}
	}

	return c.JSON(fiber.Map{
		"referrals":      views,
		"total":          len(events),
		"credits_earned": freeCount * referral.FreeReferralBonus,
	})
}
