// Package summary computes financial rollups from flat transaction lists:
// monthly income/expense totals, savings rates, chart series, category
// breakdowns and budget recommendations. All functions are pure; amounts are
// in the smallest currency unit (cents) and rates are percentages.
package summary

import (
	"strings"
	"time"
)

// Transaction types.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Transaction is the minimal view of a stored transaction the engine needs.
type Transaction struct {
	Amount   int64 // always positive; Type decides the sign
	Type     string
	Category string
	Date     time.Time
}

// FinancialSummary is the per-month derived rollup. Never persisted.
type FinancialSummary struct {
	Income      int64   `json:"income"`
	Expenses    int64   `json:"expenses"`
	Balance     int64   `json:"balance"`
	SavingsRate float64 `json:"savings_rate"` // percent; 0 when income is 0
}

// MonthlySummary is one chart-series entry.
type MonthlySummary struct {
	Month    string `json:"month"` // short name, e.g. "Jan"
	Income   int64  `json:"income"`
	Expenses int64  `json:"expenses"`
}

// MonthRange returns the half-open [start, end) range of the calendar month
// containing ref. A transaction dated on the last day of the month is inside
// the range; the first instant of the next month is not.
func MonthRange(ref time.Time) (start, end time.Time) {
	y, m, _ := ref.Date()
	start = time.Date(y, m, 1, 0, 0, 0, 0, ref.Location())
	return start, start.AddDate(0, 1, 0)
}

// MonthlyTotals sums amounts over transactions whose date falls in
// [start, end), partitioned by type. Unknown types are ignored.
func MonthlyTotals(txs []Transaction, start, end time.Time) (income, expenses int64) {
	for _, t := range txs {
		if t.Date.Before(start) || !t.Date.Before(end) {
			continue
		}
		switch t.Type {
		case TypeIncome:
			income += t.Amount
		case TypeExpense:
			expenses += t.Amount
		}
	}
	return income, expenses
}

// Summarize derives balance and savings rate from monthly totals.
// The savings rate is 0 when there is no income (never divides by zero).
func Summarize(income, expenses int64) FinancialSummary {
	s := FinancialSummary{Income: income, Expenses: expenses, Balance: income - expenses}
	if income > 0 {
		s.SavingsRate = float64(s.Balance) / float64(income) * 100
	}
	return s
}

// SixMonthSeries returns exactly 6 entries, oldest to newest, ending at the
// month containing ref. Months without transactions yield {0, 0}.
func SixMonthSeries(txs []Transaction, ref time.Time) []MonthlySummary {
	first, _ := MonthRange(ref)
	out := make([]MonthlySummary, 0, 6)
	for i := 5; i >= 0; i-- {
		// stepping from the first of the month keeps AddDate away from
		// end-of-month normalization
		start := first.AddDate(0, -i, 0)
		end := start.AddDate(0, 1, 0)
		income, expenses := MonthlyTotals(txs, start, end)
		out = append(out, MonthlySummary{Month: start.Format("Jan"), Income: income, Expenses: expenses})
	}
	return out
}

// ExpensesByCategory totals expense-type transactions per category. Category
// keys are lower-cased so mixed-case rows cannot split a category; storage
// already normalizes on insert, this is defensive.
func ExpensesByCategory(txs []Transaction) map[string]int64 {
	totals := make(map[string]int64)
	for _, t := range txs {
		if t.Type != TypeExpense {
			continue
		}
		totals[NormalizeCategory(t.Category)] += t.Amount
	}
	return totals
}

// NormalizeCategory is the single place category keys are canonicalized.
func NormalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}

// SavingsChange is the delta between two savings rates in percentage points.
// Positive means the current month improved on the prior one.
func SavingsChange(currentRate, priorRate float64) float64 {
	return currentRate - priorRate
}
