package models

import (
	"time"
)

// Upload represents a profile-related uploaded file (currently avatars).
type Upload struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"-"`
	FileName    string    `gorm:"size:255;not null" json:"file_name"`
	StorePath   string    `gorm:"column:store_path;size:512" json:"store_path"` // public relative path (e.g. public/avatars/xxx.jpg)
	ProfileID   uint      `gorm:"index;not null" json:"profile_id"`             // FK to profiles.id (profile_id)
	Profile     Profile   `gorm:"foreignKey:ProfileID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	ContentType string    `gorm:"size:128" json:"content_type"`
	// Mark upload as failed when the backing file goes missing (do not delete
	// the record so the front-end/admin can review)
	Failed       bool   `gorm:"default:false;index" json:"failed"`
	FailedReason string `gorm:"size:255" json:"failed_reason,omitempty"`
}
