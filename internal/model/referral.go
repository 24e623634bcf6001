package model

import "time"

// ReferralEvent is an append-only attribution record. The unique index on
// ReferredUserID guarantees a referred user is only ever attributed once.
type ReferralEvent struct {
	ID               uint      `gorm:"primaryKey"`
	ReferrerID       uint      `gorm:"index;not null"`
	ReferredUserID   uint      `gorm:"uniqueIndex;not null"`
	ReferredUserPlan string    `gorm:"not null"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`

	Referrer     User `gorm:"foreignKey:ReferrerID"`
	ReferredUser User `gorm:"foreignKey:ReferredUserID"`
}
