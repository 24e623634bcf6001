package model

import "time"

type LoginHistory struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null"`
	Device    string    `gorm:"size:100"` // Chrome on Windows, Safari on iPhone
	IP        string    `gorm:"size:50"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
