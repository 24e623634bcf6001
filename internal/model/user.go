package model

import (
	"strings"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email       string `gorm:"uniqueIndex;not null"`
	Password    string `gorm:"not null"`
	Username    string `gorm:"uniqueIndex;not null"`
	DisplayName string `json:"display_name" gorm:"not null"`

	// Optional profile fields, updated from settings
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Bio             string `json:"bio"`
	Avatar          string `json:"avatar"`
	TwitterHandle   string `json:"twitter_handle"`
	LinkedInProfile string `json:"linkedin_profile"`

	// System fields
	IsVerified   bool   `json:"is_verified" gorm:"default:false"`
	ReferralCode string `json:"referral_code" gorm:"uniqueIndex"`
	ReferredByID *uint  `json:"referred_by_id"`

	// Relations
	UsageRecord   *UsageRecord   `json:"-" gorm:"foreignKey:UserID"`
	EnhancedPosts []EnhancedPost `json:"-"`
	ReferredBy    *User          `json:"-" gorm:"foreignKey:ReferredByID"`
}

func (u *User) GetFullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) GetPublicProfile() map[string]interface{} {
	return map[string]interface{}{
		"id":               u.ID,
		"username":         u.Username,
		"display_name":     u.DisplayName,
		"full_name":        u.GetFullName(),
		"bio":              u.Bio,
		"avatar":           u.Avatar,
		"twitter_handle":   u.TwitterHandle,
		"linkedin_profile": u.LinkedInProfile,
		"referral_code":    u.ReferralCode,
		"is_verified":      u.IsVerified,
	}
}
