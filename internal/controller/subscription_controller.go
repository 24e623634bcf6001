package controller

import (
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/customer"
	"github.com/stripe/stripe-go/v74/subscription"
	"github.com/stripe/stripe-go/v74/webhook"

	"postpro_backend/internal/model"
	"postpro_backend/pkg/database"
	"postpro_backend/pkg/email"
	"postpro_backend/pkg/plan"
	"postpro_backend/pkg/usage"
	"postpro_backend/pkg/utils/jwt"
)

type SubscriptionInput struct {
	PlanID string `json:"plan_id" validate:"required"`
}

func InitSubscriptionController() {}

func ListPlans(c *fiber.Ctx) error {
	var plans []model.PlanPrice
	if err := database.DB.Find(&plans).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch subscription plans",
		})
	}

	return c.JSON(plans)
}

func Subscribe(c *fiber.Ctx) error {
	input := new(SubscriptionInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	claims := c.Locals("user").(*jwt.Claims)

	var price model.PlanPrice
	if err := database.DB.First(&price, "stripe_price_id = ?", input.PlanID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Subscription plan not found",
		})
	}

	var user model.User
	if err := database.DB.First(&user, claims.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	customerParams := &stripe.CustomerParams{
		Email: stripe.String(user.Email),
		Name:  stripe.String(user.DisplayName),
	}

	stripeCustomer, err := customer.New(customerParams)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create Stripe customer",
		})
	}

	subscriptionParams := &stripe.SubscriptionParams{
		Customer: stripe.String(stripeCustomer.ID),
		Items: []*stripe.SubscriptionItemsParams{
			{
				Price: stripe.String(price.StripePriceID),
			},
		},
	}

	stripeSubscription, err := subscription.New(subscriptionParams)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create subscription",
		})
	}

	expiresAt := time.Unix(stripeSubscription.CurrentPeriodEnd, 0).Format(time.RFC3339)

	userSubscription := model.UserSubscription{
		UserID:      claims.UserID,
		PlanPriceID: price.ID,
		Status:      "active",
		StripeSubID: stripeSubscription.ID,
		ExpiresAt:   expiresAt,
	}

	if err := database.DB.Create(&userSubscription).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save subscription",
		})
	}

	// Plan and counters swap together so the next quota check never sees
	// old usage against the new tier.
	newPlan := plan.DeterminePlanType(price.StripePriceID)
	if err := usage.SwitchPlan(claims.UserID, newPlan); err != nil {
		log.Printf("Could not switch plan for user %d: %v", claims.UserID, err)
	}
	usageCache.InvalidateUsage(c.Context(), claims.UserID)

	if email.GlobalEmailService != nil {
		periodEnd, _ := time.Parse(time.RFC3339, userSubscription.ExpiresAt)
		err := email.GlobalEmailService.SendSubscriptionStartedEmail(
			user.Email,
			user.DisplayName,
			price.Name,
			price.Price,
			"USD",
			price.Interval,
			periodEnd,
			false,
		)
		if err != nil {
			log.Printf("Could not send subscription email: %v", err)
		}
	}

	return c.JSON(fiber.Map{
		"message":      "Subscription created successfully",
		"subscription": userSubscription,
	})
}

func CancelSubscription(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var userSub model.UserSubscription
	if err := database.DB.Where("user_id = ? AND status = ?", claims.UserID, "active").
		Preload("User").
		Preload("PlanPrice").
		First(&userSub).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No active subscription found",
		})
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	_, err := subscription.Cancel(userSub.StripeSubID, nil)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not cancel Stripe subscription",
		})
	}

	userSub.Status = "cancelled"
	if err := database.DB.Save(&userSub).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update subscription status",
		})
	}

	if email.GlobalEmailService != nil {
		expiresAt, _ := time.Parse(time.RFC3339, userSub.ExpiresAt)
		err := email.GlobalEmailService.SendSubscriptionCancelledEmail(
			userSub.User.Email,
			userSub.User.DisplayName,
			userSub.PlanPrice.Name,
			expiresAt,
		)
		if err != nil {
			log.Printf("Could not send subscription cancellation email: %v", err)
		}
	}

	return c.JSON(fiber.Map{
		"message": "Subscription cancelled successfully",
	})
}

func GetMySubscription(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var userSub model.UserSubscription
	if err := database.DB.Where("user_id = ? AND status = ?", claims.UserID, "active").
		Preload("PlanPrice").First(&userSub).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No active subscription found",
		})
	}

	return c.JSON(userSub)
}

type subscriptionUpdateData struct {
	ID               string `json:"id"`
	CurrentPeriodEnd int64  `json:"current_period_end"`
	Items            struct {
		Data []struct {
			Price struct {
				ID string `json:"id"`
			} `json:"price"`
		} `json:"data"`
	} `json:"items"`
}

// parseSubscriptionUpdate extracts the subscription payload of a
// customer.subscription.updated event and, when the payload carries a price
// item, the plan tier it maps to.
func parseSubscriptionUpdate(raw []byte) (subscriptionUpdateData, plan.Type, bool) {
	var subData subscriptionUpdateData
	if err := json.Unmarshal(raw, &subData); err != nil {
		return subscriptionUpdateData{}, plan.FreePlan, false
	}
	if len(subData.Items.Data) == 0 || subData.Items.Data[0].Price.ID == "" {
		return subData, plan.FreePlan, false
	}
	return subData, plan.DeterminePlanType(subData.Items.Data[0].Price.ID), true
}

func HandleStripeWebhook(c *fiber.Ctx) error {
	webhookSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")

	payload := c.Body()
	signatureHeader := c.Get("Stripe-Signature")

	event, err := webhook.ConstructEvent(payload, signatureHeader, webhookSecret)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook signature",
		})
	}

	log.Printf("Processing Stripe webhook event: %s", event.Type)

	switch event.Type {
	case "customer.subscription.deleted":
		var subData struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(event.Data.Raw, &subData); err != nil {
			return c.Status(fiber.StatusBadRequest).Send(nil)
		}

		var userSub model.UserSubscription
		if err := database.DB.Where("stripe_sub_id = ?", subData.ID).
			Preload("User").
			First(&userSub).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not find subscription",
			})
		}

		if err := database.DB.Model(&userSub).Update("status", "cancelled").Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not update subscription status",
			})
		}

		// Back to the free tier.
		if err := usage.SwitchPlan(userSub.UserID, plan.FreePlan); err != nil {
			log.Printf("Could not downgrade user %d: %v", userSub.UserID, err)
		}
		usageCache.InvalidateUsage(c.Context(), userSub.UserID)

		log.Printf("Subscription %s cancelled successfully", subData.ID)

	case "customer.subscription.updated":
		subData, newPlan, hasPlan := parseSubscriptionUpdate(event.Data.Raw)
		if subData.ID == "" {
			return c.Status(fiber.StatusBadRequest).Send(nil)
		}

		expiresAt := time.Unix(subData.CurrentPeriodEnd, 0).Format(time.RFC3339)

		if err := database.DB.Model(&model.UserSubscription{}).
			Where("stripe_sub_id = ?", subData.ID).
			Update("expires_at", expiresAt).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not update subscription expiry",
			})
		}

		// Upgrades and downgrades made on Stripe's side arrive through this
		// event too. Only an actual tier change swaps the usage row; plain
		// renewals must not reset anyone's counters.
		if hasPlan {
			var userSub model.UserSubscription
			if err := database.DB.Where("stripe_sub_id = ?", subData.ID).
				First(&userSub).Error; err == nil {
				var record model.UsageRecord
				if err := database.DB.Where("user_id = ?", userSub.UserID).
					First(&record).Error; err == nil &&
					plan.Resolve(record.PlanName).Name != newPlan {
					if err := usage.SwitchPlan(userSub.UserID, newPlan); err != nil {
						log.Printf("Could not switch plan for user %d: %v", userSub.UserID, err)
					}
					usageCache.InvalidateUsage(c.Context(), userSub.UserID)
				}
			}
		}

		log.Printf("Subscription %s updated successfully", subData.ID)
	}

	return c.SendStatus(fiber.StatusOK)
}
