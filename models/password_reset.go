package models

import "time"

// PasswordReset stores a hashed single-use token for the email reset flow.
// RedirectTo is the target the caller asked to be sent back to after the reset.
type PasswordReset struct {
	ID         uint `gorm:"primaryKey"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	UserID     uint      `gorm:"index;not null"`
	TokenHash  string    `gorm:"size:128;not null;uniqueIndex"`
	ExpiresAt  time.Time `gorm:"index;not null"`
	Used       bool      `gorm:"default:false"`
	RedirectTo string    `gorm:"size:512"`
}
