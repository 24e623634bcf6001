package model

import (
	"time"

	"gorm.io/gorm"
)

// UsageRecord tracks one user's monthly enhancement quota. One row per user,
// created on first authenticated action with the free plan.
type UsageRecord struct {
	gorm.Model
	UserID           uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	PlanName         string    `json:"plan_name" gorm:"not null;default:'FREE'"`
	MonthlyPostCount int       `json:"monthly_post_count" gorm:"not null;default:0"`
	BonusCredits     int       `json:"bonus_credits" gorm:"not null;default:0"`
	MonthlyResetDate time.Time `json:"monthly_reset_date"`
	LimitWarningSent bool      `json:"limit_warning_sent" gorm:"default:false"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}
