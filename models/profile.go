package models

import "time"

// Profile represents a user's profile (one-to-one with User)
type Profile struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"-"`
	UserID    uint       `gorm:"uniqueIndex;not null" json:"user_id"` // one-to-one relation
	User      User       `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	FullName  string     `gorm:"size:255" json:"full_name"`
	AvatarURL string     `gorm:"size:512" json:"avatar_url"`
	// Uploads is a one-to-many relation from Profile to Upload
	Uploads []Upload `gorm:"foreignKey:ProfileID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
}
