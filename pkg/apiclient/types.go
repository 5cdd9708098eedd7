package apiclient

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoSession is returned by authenticated calls when nobody is signed in.
var ErrNoSession = errors.New("apiclient: no session")

// ErrUnauthorized wraps 401 responses.
var ErrUnauthorized = errors.New("apiclient: unauthorized")

// APIError is any non-2xx response that is not a plain 401.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("apiclient: %s (status %d)", e.Message, e.Status)
}

// User is the authenticated subject as the API reports it.
type User struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}

// sessionPayload is the token bundle returned by register/login/refresh.
type sessionPayload struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

// Transaction mirrors the server's stored row.
type Transaction struct {
	ID          uint      `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UserID      uint      `json:"user_id"`
	Name        string    `json:"name"`
	Amount      int64     `json:"amount"`
	Type        string    `json:"type"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
	Description *string   `json:"description"`
}

// NewTransaction is the insert payload. Date defaults to now when empty.
type NewTransaction struct {
	Name        string  `json:"name"`
	Amount      int64   `json:"amount"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Date        string  `json:"date,omitempty"`
	Description *string `json:"description,omitempty"`
}

// TransactionFilter narrows list queries.
type TransactionFilter struct {
	Type     string
	Category string
	Order    string // "asc" or "desc" on date
	Limit    int
}

type Budget struct {
	ID        uint      `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `json:"user_id"`
	Category  string    `json:"category"`
	Amount    int64     `json:"amount"`
	Period    string    `json:"period"`
}

type NewBudget struct {
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
	Period   string `json:"period"`
}

// SavingsGoal includes the server-computed display progress.
type SavingsGoal struct {
	ID            uint       `json:"id"`
	CreatedAt     time.Time  `json:"created_at"`
	UserID        uint       `json:"user_id"`
	Name          string     `json:"name"`
	TargetAmount  int64      `json:"target_amount"`
	CurrentAmount int64      `json:"current_amount"`
	Deadline      *time.Time `json:"deadline"`
	Completed     bool       `json:"completed"`
	Progress      float64    `json:"progress"`
	Completable   bool       `json:"completable"`
}

type NewSavingsGoal struct {
	Name          string `json:"name"`
	TargetAmount  int64  `json:"target_amount"`
	CurrentAmount int64  `json:"current_amount"`
	Deadline      string `json:"deadline,omitempty"`
}

type FinancialSummary struct {
	Income      int64   `json:"income"`
	Expenses    int64   `json:"expenses"`
	Balance     int64   `json:"balance"`
	SavingsRate float64 `json:"savings_rate"`
}

type MonthlySummary struct {
	Month    string `json:"month"`
	Income   int64  `json:"income"`
	Expenses int64  `json:"expenses"`
}

type Dashboard struct {
	Summary            FinancialSummary `json:"summary"`
	Chart              []MonthlySummary `json:"chart"`
	RecentTransactions []Transaction    `json:"recent_transactions"`
	Goals              []SavingsGoal    `json:"goals"`
}

type BudgetCut struct {
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
}

type MonthlyReport struct {
	HighestExpenseCategory string      `json:"highest_expense_category"`
	HighestExpenseAmount   int64       `json:"highest_expense_amount"`
	SavingsChange          float64     `json:"savings_change"`
	RecommendedBudgetCuts  []BudgetCut `json:"recommended_budget_cuts"`
	TargetSavings          int64       `json:"target_savings"`
}
