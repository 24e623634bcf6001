package controller

import (
	"github.com/gofiber/fiber/v2"

	"postpro_backend/pkg/entitlement"
	"postpro_backend/pkg/usage"
	"postpro_backend/pkg/utils/jwt"
)

type usagePayload struct {
	Entitlement entitlement.Result `json:"entitlement"`
	ResetDate   string             `json:"reset_date,omitempty"`
	PostCount   int                `json:"monthly_post_count"`
	Bonus       int                `json:"bonus_credits"`
}

// GetUsage feeds the dashboard usage widget. Snapshots are cached for a few
// seconds in Redis; the cache is dropped whenever the counters change.
func GetUsage(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var cached usagePayload
	if usageCache.GetUsage(c.Context(), claims.UserID, &cached) {
		return c.JSON(cached)
	}

	if usage.IsUnlimitedOverride(claims.Email) {
		result, _ := usage.Evaluate(claims.UserID, claims.Email)
		return c.JSON(usagePayload{Entitlement: result})
	}

	record, def, err := usage.Snapshot(claims.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch usage",
		})
	}

	payload := usagePayload{
		Entitlement: entitlement.EvaluateWithBonus(def, record.MonthlyPostCount, record.BonusCredits),
		ResetDate:   record.MonthlyResetDate.Format("2006-01-02"),
		PostCount:   record.MonthlyPostCount,
		Bonus:       record.BonusCredits,
	}

	usageCache.SetUsage(c.Context(), claims.UserID, payload)

	return c.JSON(payload)
}
