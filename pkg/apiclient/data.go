package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Me returns the authenticated subject.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/me", nil, &u, true); err != nil {
		return nil, err
	}
	return &u, nil
}

// Dashboard fetches the derived dashboard payload.
func (c *Client) Dashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	if err := c.do(ctx, http.MethodGet, "/dashboard", nil, &d, true); err != nil {
		return nil, err
	}
	return &d, nil
}

// MonthlyReport fetches the recommendation set for the current month.
func (c *Client) MonthlyReport(ctx context.Context) (*MonthlyReport, error) {
	var r MonthlyReport
	if err := c.do(ctx, http.MethodGet, "/reports/monthly", nil, &r, true); err != nil {
		return nil, err
	}
	return &r, nil
}

// Transactions lists the subject's transactions, newest first by default.
func (c *Client) Transactions(ctx context.Context, f TransactionFilter) ([]Transaction, error) {
	q := url.Values{}
	if f.Type != "" {
		q.Set("type", f.Type)
	}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Order != "" {
		q.Set("order", f.Order)
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	path := "/transactions"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var items []Transaction
	if err := c.do(ctx, http.MethodGet, path, nil, &items, true); err != nil {
		return nil, err
	}
	return items, nil
}

// CreateTransaction inserts a row and returns it as stored.
func (c *Client) CreateTransaction(ctx context.Context, nt NewTransaction) (*Transaction, error) {
	var t Transaction
	if err := c.do(ctx, http.MethodPost, "/transactions", nt, &t, true); err != nil {
		return nil, err
	}
	return &t, nil
}

// Budgets lists the subject's budgets.
func (c *Client) Budgets(ctx context.Context) ([]Budget, error) {
	var items []Budget
	if err := c.do(ctx, http.MethodGet, "/budgets", nil, &items, true); err != nil {
		return nil, err
	}
	return items, nil
}

// CreateBudget inserts a budget row.
func (c *Client) CreateBudget(ctx context.Context, nb NewBudget) (*Budget, error) {
	var b Budget
	if err := c.do(ctx, http.MethodPost, "/budgets", nb, &b, true); err != nil {
		return nil, err
	}
	return &b, nil
}

// SavingsGoals lists goals; completed filters by the stored flag when non-nil.
func (c *Client) SavingsGoals(ctx context.Context, completed *bool) ([]SavingsGoal, error) {
	path := "/savings_goals"
	if completed != nil {
		path += "?completed=" + strconv.FormatBool(*completed)
	}
	var items []SavingsGoal
	if err := c.do(ctx, http.MethodGet, path, nil, &items, true); err != nil {
		return nil, err
	}
	return items, nil
}

// CreateSavingsGoal inserts a goal.
func (c *Client) CreateSavingsGoal(ctx context.Context, ng NewSavingsGoal) (*SavingsGoal, error) {
	var g SavingsGoal
	if err := c.do(ctx, http.MethodPost, "/savings_goals", ng, &g, true); err != nil {
		return nil, err
	}
	return &g, nil
}

// UpdateSavingsGoal applies a partial update; nil fields are left unchanged.
func (c *Client) UpdateSavingsGoal(ctx context.Context, id uint, currentAmount, targetAmount *int64, deadline *string) (*SavingsGoal, error) {
	body := map[string]any{}
	if currentAmount != nil {
		body["current_amount"] = *currentAmount
	}
	if targetAmount != nil {
		body["target_amount"] = *targetAmount
	}
	if deadline != nil {
		body["deadline"] = *deadline
	}
	var g SavingsGoal
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/savings_goals/%d", id), body, &g, true); err != nil {
		return nil, err
	}
	return &g, nil
}

// CompleteSavingsGoal marks a fully-funded goal completed.
func (c *Client) CompleteSavingsGoal(ctx context.Context, id uint) (*SavingsGoal, error) {
	var g SavingsGoal
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/savings_goals/%d/complete", id), nil, &g, true); err != nil {
		return nil, err
	}
	return &g, nil
}
