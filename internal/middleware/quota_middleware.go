package middleware

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"postpro_backend/pkg/plan"
	"postpro_backend/pkg/usage"
	"postpro_backend/pkg/utils/jwt"
)

// CheckEnhancementQuota consumes one unit of the user's monthly quota before
// the enhancement handler runs. Denials carry the entitlement result so the
// frontend can render the upgrade prompt with live numbers.
func CheckEnhancementQuota() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := c.Locals("user").(*jwt.Claims)

		decision := usage.TryConsume(claims.UserID, claims.Email)
		if !decision.Allowed {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":       "You have reached your monthly enhancement limit. Please upgrade your plan.",
				"reason":      decision.Reason,
				"entitlement": decision.Result,
			})
		}

		c.Locals("usage_decision", decision)
		return c.Next()
	}
}

// CheckFeatureAccess gates a route on a plan feature switch.
func CheckFeatureAccess(pick func(plan.Features) bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := c.Locals("user").(*jwt.Claims)

		if usage.IsUnlimitedOverride(claims.Email) {
			return c.Next()
		}

		_, def, err := usage.Snapshot(claims.UserID)
		if err != nil {
			// Same permissive policy as the quota gate: log-and-continue
			// beats blocking paying users on a read failure.
			log.Printf("feature gate: could not read usage for user %d, allowing: %v", claims.UserID, err)
			return c.Next()
		}

		if !pick(def.Features) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "This feature requires a higher subscription plan",
			})
		}

		return c.Next()
	}
}
