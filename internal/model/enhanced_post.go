package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EnhancedPost is one completed enhancement: the pasted original, the AI
// rewrite, and the options the user picked (tone, platform, hashtag and
// virality extras) as a JSON blob.
type EnhancedPost struct {
	gorm.Model
	UserID        uint           `json:"user_id" gorm:"index;not null"`
	OriginalText  string         `json:"original_text" gorm:"type:text;not null"`
	EnhancedText  string         `json:"enhanced_text" gorm:"type:text"`
	Hashtags      string         `json:"hashtags"`
	ViralityScore int            `json:"virality_score"`
	Options       datatypes.JSON `json:"options"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}
