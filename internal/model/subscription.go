package model

import "gorm.io/gorm"

// PlanPrice is the billing-facing mirror of the static plan catalog. Seeded
// at startup so the pricing page and Stripe checkout share one source of
// price IDs.
type PlanPrice struct {
	gorm.Model
	Name            string  `json:"name" gorm:"not null"`
	PlanName        string  `json:"plan_name" gorm:"not null"`
	Description     string  `json:"description"`
	Price           float64 `json:"price" gorm:"not null"`
	Interval        string  `json:"interval" gorm:"not null"` // month, year, once
	StripeProductID string  `json:"stripe_product_id"`
	StripePriceID   string  `json:"stripe_price_id"`

	UserSubscriptions []UserSubscription
}

type UserSubscription struct {
	gorm.Model
	UserID      uint   `json:"user_id"`
	PlanPriceID uint   `json:"plan_price_id"`
	Status      string `json:"status" gorm:"default:'active'"`
	StripeSubID string `json:"stripe_subscription_id"`
	ExpiresAt   string `json:"expires_at"`

	User      User      `gorm:"foreignKey:UserID"`
	PlanPrice PlanPrice `gorm:"foreignKey:PlanPriceID"`
}
