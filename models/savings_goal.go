package models

import "time"

// SavingsGoal tracks progress towards a target amount. CurrentAmount may
// exceed TargetAmount; display progress is clamped but the stored value is not.
type SavingsGoal struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"-"`
	UserID        uint       `gorm:"index;not null" json:"user_id"`
	Name          string     `gorm:"size:255;not null" json:"name"`
	TargetAmount  int64      `gorm:"not null" json:"target_amount"` // smallest currency unit
	CurrentAmount int64      `gorm:"not null;default:0" json:"current_amount"`
	Deadline      *time.Time `json:"deadline"`
	Completed     bool       `gorm:"default:false;index" json:"completed"`
}
