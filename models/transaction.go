package models

import "time"

// Transaction types. Amounts are always positive; the type decides the sign
// in every aggregation.
const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

// Transaction represents a single income or expense entry belonging to a user.
// Transactions are immutable once created (no update endpoint exists).
type Transaction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"-"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Amount      int64     `gorm:"not null" json:"amount"` // smallest currency unit (e.g. cents)
	Type        string    `gorm:"size:16;not null;index" json:"type"`
	Category    string    `gorm:"size:128;not null;index" json:"category"` // stored lower-case
	Date        time.Time `gorm:"not null;index" json:"date"`
	Description *string   `gorm:"size:512" json:"description"`
}
