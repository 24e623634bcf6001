package controller

import (
	"encoding/json"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"

	"postpro_backend/internal/model"
	"postpro_backend/pkg/ai"
	"postpro_backend/pkg/cache"
	"postpro_backend/pkg/database"
	"postpro_backend/pkg/plan"
	"postpro_backend/pkg/usage"
	"postpro_backend/pkg/utils/jwt"
)

var (
	aiClient   *ai.Client
	usageCache *cache.Cache
)

func InitPostController(client *ai.Client, c *cache.Cache) {
	aiClient = client
	usageCache = c
}

// toneOptions is ordered: metered plans unlock a prefix of this list.
var toneOptions = []string{
	"professional",
	"casual",
	"friendly",
	"witty",
	"inspirational",
	"bold",
	"urgent",
	"sarcastic",
}

type EnhanceInput struct {
	Text     string `json:"text" validate:"required,min=1,max=5000"`
	Tone     string `json:"tone"`
	Platform string `json:"platform"`
}

func toneAllowed(def plan.Definition, tone string) bool {
	if tone == "" {
		return true
	}
	limit := def.ToneOptionsLimit
	if limit == plan.Unlimited {
		limit = len(toneOptions)
	}
	for i, t := range toneOptions {
		if t == strings.ToLower(tone) {
			return i < limit
		}
	}
	return false
}

// EnhancePost runs one AI enhancement. Quota is consumed by the
// CheckEnhancementQuota middleware before this handler runs.
func EnhancePost(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	input := new(EnhanceInput)
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

	_, def, err := usage.Snapshot(claims.UserID)
	if err != nil {
		log.Printf("Could not resolve plan for user %d: %v", claims.UserID, err)
		def = plan.Get(plan.FreePlan)
	}

	if !toneAllowed(def, input.Tone) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "This tone is not available on your plan",
		})
	}

	result, err := aiClient.EnhancePost(ai.EnhanceRequest{
		Text:     input.Text,
		Tone:     input.Tone,
		Platform: input.Platform,
		Advanced: def.Features.AdvancedAI,
	})
	if err != nil {
		log.Printf("AI enhancement failed for user %d: %v", claims.UserID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Enhancement service is temporarily unavailable",
		})
	}

	options, _ := json.Marshal(fiber.Map{
		"tone":     input.Tone,
		"platform": input.Platform,
		"advanced": def.Features.AdvancedAI,
	})

	post := model.EnhancedPost{
		UserID:        claims.UserID,
		OriginalText:  input.Text,
		EnhancedText:  result.EnhancedText,
		Hashtags:      strings.Join(result.Hashtags, " "),
		ViralityScore: result.ViralityScore,
		Options:       datatypes.JSON(options),
	}
	if err := database.GetDB().Create(&post).Error; err != nil {
		log.Printf("Could not save enhanced post for user %d: %v", claims.UserID, err)
	}

	usageCache.InvalidateUsage(c.Context(), claims.UserID)

	response := fiber.Map{
		"id":            post.ID,
		"enhanced_text": result.EnhancedText,
		"hashtags":      result.Hashtags,
	}
	if def.Features.ViralityScore {
		response["virality_score"] = result.ViralityScore
	}
	if decision, ok := c.Locals("usage_decision").(usage.Decision); ok {
		response["entitlement"] = decision.Result
	}

	return c.JSON(response)
}

// SuggestHashtags proxies the trending-hashtag endpoint. Gated on the
// trending hashtags plan feature, does not consume quota.
func SuggestHashtags(c *fiber.Ctx) error {
	input := new(EnhanceInput)
	if err := c.BodyParser(input); err != nil || input.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	result, err := aiClient.SuggestHashtags(input.Text, input.Platform)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Hashtag service is temporarily unavailable",
		})
	}

	return c.JSON(result)
}

// PredictEngagement proxies the engagement-prediction endpoint, gated on
// the virality score feature.
func PredictEngagement(c *fiber.Ctx) error {
	input := new(EnhanceInput)
	if err := c.BodyParser(input); err != nil || input.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	result, err := aiClient.PredictEngagement(input.Text, input.Platform)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Engagement service is temporarily unavailable",
		})
	}

	return c.JSON(result)
}

// GetPostHistory lists the user's past enhancements, newest first.
func GetPostHistory(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	var posts []model.EnhancedPost
	if err := database.GetDB().Where("user_id = ?", claims.UserID).
		Order("created_at DESC").
		Limit(50).
		Find(&posts).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch post history",
		})
	}

	return c.JSON(posts)
}
