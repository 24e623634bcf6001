package seed

import (
	"log"

	"gorm.io/gorm"

	"postpro_backend/internal/model"
	"postpro_backend/pkg/plan"
)

func SeedPlanPrices(db *gorm.DB) {
	prices := []model.PlanPrice{
		{
			Name:            "Starter",
			PlanName:        string(plan.StarterPlan),
			Description:     "30 enhancements per month, premium templates and trending hashtags",
			Price:           9.99,
			Interval:        "month",
			StripeProductID: "prod_postpro_starter",
			StripePriceID:   "price_postpro_starter_monthly",
		},
		{
			Name:            "Pro",
			PlanName:        string(plan.ProPlan),
			Description:     "Unlimited enhancements, virality score, AI chat and analytics",
			Price:           19.99,
			Interval:        "month",
			StripeProductID: "prod_postpro_pro",
			StripePriceID:   "price_postpro_pro_monthly",
		},
		{
			Name:            "Starter Annual",
			PlanName:        string(plan.StarterAnnualPlan),
			Description:     "Starter billed yearly, two months free",
			Price:           99.99,
			Interval:        "year",
			StripeProductID: "prod_postpro_starter",
			StripePriceID:   "price_postpro_starter_annual",
		},
		{
			Name:            "Pro Annual",
			PlanName:        string(plan.ProAnnualPlan),
			Description:     "Pro billed yearly, two months free",
			Price:           199.99,
			Interval:        "year",
			StripeProductID: "prod_postpro_pro",
			StripePriceID:   "price_postpro_pro_annual",
		},
		{
			Name:            "Lifetime",
			PlanName:        string(plan.LifetimePlan),
			Description:     "Everything in Pro, forever, one payment",
			Price:           299.99,
			Interval:        "once",
			StripeProductID: "prod_postpro_lifetime",
			StripePriceID:   "price_postpro_lifetime",
		},
	}

	for _, price := range prices {
		result := db.FirstOrCreate(&price, model.PlanPrice{Name: price.Name})
		if result.Error != nil {
			log.Printf("Error creating plan price %s: %v", price.Name, result.Error)
		}
	}

	log.Println("Plan prices seeded successfully!")
}
