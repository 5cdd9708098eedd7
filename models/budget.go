package models

import "time"

// Budget periods.
const (
	PeriodMonthly   = "monthly"
	PeriodQuarterly = "quarterly"
	PeriodYearly    = "yearly"
)

// Budget is a per-category spending limit. Nothing enforces one budget per
// (user, category); overrun math evaluates each row independently.
type Budget struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Category  string    `gorm:"size:128;not null;index" json:"category"` // stored lower-case
	Amount    int64     `gorm:"not null" json:"amount"`                  // smallest currency unit
	Period    string    `gorm:"size:16;not null" json:"period"`
}
