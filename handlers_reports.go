package main

import (
	"net/http"
	"time"

	"fintrack/models"
	"fintrack/pkg/summary"

	"github.com/gin-gonic/gin"
)

// engineTransactions converts stored rows into the aggregation engine's view.
func engineTransactions(rows []models.Transaction) []summary.Transaction {
	out := make([]summary.Transaction, 0, len(rows))
	for _, r := range rows {
		out = append(out, summary.Transaction{
			Amount:   r.Amount,
			Type:     r.Type,
			Category: r.Category,
			Date:     r.Date,
		})
	}
	return out
}

// fetchTransactionsBetween loads the user's rows with date in [start, end).
func fetchTransactionsBetween(userID uint, start, end time.Time) ([]models.Transaction, error) {
	var rows []models.Transaction
	err := db.Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).Find(&rows).Error
	return rows, err
}

// dashboardHandler returns the current-month financial summary, the 6-month
// chart series, the 5 most recent transactions and the top active goals.
func dashboardHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	now := time.Now()
	curStart, curEnd := summary.MonthRange(now)
	windowStart := curStart.AddDate(0, -5, 0) // oldest month of the chart

	rows, err := fetchTransactionsBetween(user.ID, windowStart, curEnd)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	txs := engineTransactions(rows)

	income, expenses := summary.MonthlyTotals(txs, curStart, curEnd)
	fs := summary.Summarize(income, expenses)
	chart := summary.SixMonthSeries(txs, now)

	var recent []models.Transaction
	if err := db.Where("user_id = ?", user.ID).Order("date desc").Limit(5).Find(&recent).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	if recent == nil {
		recent = []models.Transaction{}
	}

	var goals []models.SavingsGoal
	if err := db.Where("user_id = ? AND completed = ?", user.ID, false).Order("created_at desc").Limit(3).Find(&goals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	goalViews := make([]goalView, 0, len(goals))
	for _, g := range goals {
		goalViews = append(goalViews, viewGoal(g))
	}

	c.JSON(http.StatusOK, gin.H{
		"summary":             fs,
		"chart":               chart,
		"recent_transactions": recent,
		"goals":               goalViews,
	})
}

// monthlyReportHandler compares the current month against the prior one and
// produces the recommendation set: highest expense category, savings-rate
// change, suggested budget cuts and a target savings amount.
func monthlyReportHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	now := time.Now()
	curStart, curEnd := summary.MonthRange(now)
	priorStart := curStart.AddDate(0, -1, 0)

	rows, err := fetchTransactionsBetween(user.ID, priorStart, curEnd)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	txs := engineTransactions(rows)

	curIncome, curExpenses := summary.MonthlyTotals(txs, curStart, curEnd)
	priorIncome, priorExpenses := summary.MonthlyTotals(txs, priorStart, curStart)
	curRate := summary.Summarize(curIncome, curExpenses).SavingsRate
	priorRate := summary.Summarize(priorIncome, priorExpenses).SavingsRate

	var cur []summary.Transaction
	for _, t := range txs {
		if !t.Date.Before(curStart) && t.Date.Before(curEnd) {
			cur = append(cur, t)
		}
	}
	byCategory := summary.ExpensesByCategory(cur)
	highest := summary.HighestExpenseCategory(byCategory)

	var budgetRows []models.Budget
	if err := db.Where("user_id = ?", user.ID).Find(&budgetRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	budgets := make([]summary.Budget, 0, len(budgetRows))
	for _, b := range budgetRows {
		budgets = append(budgets, summary.Budget{Category: b.Category, Amount: b.Amount})
	}
	cuts := summary.BudgetOverruns(budgets, byCategory)
	if cuts == nil {
		cuts = []summary.BudgetCut{}
	}

	c.JSON(http.StatusOK, gin.H{
		"highest_expense_category": highest,
		"highest_expense_amount":   byCategory[highest],
		"savings_change":           summary.SavingsChange(curRate, priorRate),
		"recommended_budget_cuts":  cuts,
		"target_savings":           summary.TargetSavings(curIncome, curExpenses),
	})
}
