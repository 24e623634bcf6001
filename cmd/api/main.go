package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"postpro_backend/internal/controller"
	"postpro_backend/internal/middleware"
	"postpro_backend/internal/model"
	"postpro_backend/pkg/ai"
	"postpro_backend/pkg/cache"
	"postpro_backend/pkg/config"
	"postpro_backend/pkg/cron"
	"postpro_backend/pkg/database"
	"postpro_backend/pkg/email"
	"postpro_backend/pkg/plan"
	"postpro_backend/pkg/seed"
	"postpro_backend/pkg/usage"
)

func setupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Auth Routes
	auth := api.Group("/auth")
	auth.Post("/register", controller.Register)
	auth.Post("/login", controller.Login)
	auth.Post("/request-reset", controller.RequestPasswordReset)
	auth.Post("/reset-password", controller.ResetPassword)

	// Protected Routes
	protected := api.Group("/", middleware.AuthMiddleware())
	protected.Get("/me", controller.GetMe)

	// Enhancement routes: the quota gate consumes one unit before the
	// handler runs; hashtags and engagement are feature-gated, not metered
	posts := protected.Group("/posts")
	posts.Post("/enhance", middleware.CheckEnhancementQuota(), controller.EnhancePost)
	posts.Post("/hashtags", middleware.CheckFeatureAccess(func(f plan.Features) bool { return f.TrendingHashtags }), controller.SuggestHashtags)
	posts.Post("/engagement", middleware.CheckFeatureAccess(func(f plan.Features) bool { return f.ViralityScore }), controller.PredictEngagement)
	posts.Get("/history", controller.GetPostHistory)

	// Usage widget
	protected.Get("/usage", controller.GetUsage)

	// Referral routes
	referrals := protected.Group("/referrals")
	referrals.Post("/claim", controller.ClaimReferral)
	referrals.Get("/mine", controller.GetMyReferrals)

	// Settings routes
	settings := api.Group("/settings", middleware.AuthMiddleware())
	settings.Get("/profile", controller.GetProfile)
	settings.Put("/profile", controller.UpdateProfile)
	settings.Post("/avatar", controller.UploadAvatar)

	// Subscription routes
	subscriptions := api.Group("/subscriptions")
	subscriptions.Get("/plans", controller.ListPlans)

	subProtected := subscriptions.Use(middleware.AuthMiddleware())
	subProtected.Post("/subscribe", controller.Subscribe)
	subProtected.Post("/cancel-subscription", controller.CancelSubscription)
	subProtected.Get("/my", controller.GetMySubscription)

	// Stripe webhook
	api.Post("/webhook", controller.HandleStripeWebhook)
}

func main() {
	cfg := config.Load()

	if err := email.InitEmailService(cfg.Email.ResendAPIKey); err != nil {
		log.Printf("Email service disabled: %v", err)
	}

	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL is not set in .env")
	}

	database.InitDB(cfg.Database.URL)
	err := database.MigrateDatabase(
		&model.User{},
		&model.PlanPrice{},
		&model.UserSubscription{},
		&model.UsageRecord{},
		&model.ReferralEvent{},
		&model.EnhancedPost{},
		&model.LoginHistory{},
	)
	if err != nil {
		log.Printf("Migration warning: %v", err)
	}

	seed.SeedPlanPrices(database.GetDB())

	usage.InitAllowlist(cfg.Quota.UnlimitedEmails)

	usageCache := cache.New(cfg.Redis.Addr, cfg.Redis.Password, 30*time.Second)
	aiClient := ai.NewClient(cfg.AI.BaseURL, cfg.AI.APIKey)

	controller.InitAuthController()
	controller.InitSubscriptionController()
	controller.InitPostController(aiClient, usageCache)

	cron.InitUsageResetCron()
	cron.InitUsageWarningCron()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New())

	setupRoutes(app)

	log.Printf("Server is running on port %s", cfg.Server.Port)
	log.Fatal(app.Listen(":" + cfg.Server.Port))
}
