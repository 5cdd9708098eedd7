package main

import (
	"net/http"
	"strconv"
	"time"

	"fintrack/models"
	"fintrack/pkg/summary"

	"github.com/gin-gonic/gin"
)

const maxListLimit = 200

// listLimit parses the limit query param, defaulting and capping.
func listLimit(c *gin.Context, def int) int {
	limit := def
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return limit
}

// createTransactionHandler records an income or expense row for the
// authenticated user. Transactions are immutable afterwards.
func createTransactionHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req struct {
		Name        string  `json:"name" binding:"required"`
		Amount      int64   `json:"amount" binding:"required,gt=0"`
		Type        string  `json:"type" binding:"required,oneof=income expense"`
		Category    string  `json:"category" binding:"required"`
		Date        string  `json:"date"` // optional ISO8601
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tx := models.Transaction{
		UserID:      user.ID,
		Name:        req.Name,
		Amount:      req.Amount,
		Type:        req.Type,
		Category:    summary.NormalizeCategory(req.Category),
		Date:        time.Now(),
		Description: req.Description,
	}
	if tx.Category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category required"})
		return
	}
	if req.Date != "" {
		t, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be RFC3339"})
			return
		}
		tx.Date = t
	}
	if err := db.Create(&tx).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusOK, tx)
}

// listTransactionsHandler lists the user's transactions with optional
// type/category equality filters, date ordering and a limit.
func listTransactionsHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	q := db.Model(&models.Transaction{}).Where("user_id = ?", user.ID)
	if t := c.Query("type"); t != "" {
		q = q.Where("type = ?", t)
	}
	if cat := c.Query("category"); cat != "" {
		q = q.Where("category = ?", summary.NormalizeCategory(cat))
	}
	order := "date desc"
	if c.Query("order") == "asc" {
		order = "date asc"
	}
	var items []models.Transaction
	if err := q.Order(order).Limit(listLimit(c, maxListLimit)).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	if items == nil {
		items = []models.Transaction{}
	}
	c.JSON(http.StatusOK, items)
}

func createBudgetHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req struct {
		Category string `json:"category" binding:"required"`
		Amount   int64  `json:"amount" binding:"required,gt=0"`
		Period   string `json:"period" binding:"required,oneof=monthly quarterly yearly"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b := models.Budget{
		UserID:   user.ID,
		Category: summary.NormalizeCategory(req.Category),
		Amount:   req.Amount,
		Period:   req.Period,
	}
	if b.Category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category required"})
		return
	}
	if err := db.Create(&b).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusOK, b)
}

func listBudgetsHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var items []models.Budget
	if err := db.Where("user_id = ?", user.ID).Order("created_at desc").Limit(listLimit(c, maxListLimit)).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	if items == nil {
		items = []models.Budget{}
	}
	c.JSON(http.StatusOK, items)
}

// goalView is a SavingsGoal plus its clamped display progress and whether the
// "mark complete" action is available.
type goalView struct {
	models.SavingsGoal
	Progress    float64 `json:"progress"`
	Completable bool    `json:"completable"`
}

func viewGoal(g models.SavingsGoal) goalView {
	return goalView{
		SavingsGoal: g,
		Progress:    summary.GoalProgress(g.CurrentAmount, g.TargetAmount),
		Completable: summary.GoalCompletable(g.CurrentAmount, g.TargetAmount),
	}
}

func createSavingsGoalHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req struct {
		Name          string `json:"name" binding:"required"`
		TargetAmount  int64  `json:"target_amount" binding:"required,gt=0"`
		CurrentAmount int64  `json:"current_amount" binding:"gte=0"`
		Deadline      string `json:"deadline"` // optional YYYY-MM-DD
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	g := models.SavingsGoal{
		UserID:        user.ID,
		Name:          req.Name,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
	}
	if req.Deadline != "" {
		t, err := time.Parse("2006-01-02", req.Deadline)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "deadline must be YYYY-MM-DD"})
			return
		}
		g.Deadline = &t
	}
	if err := db.Create(&g).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusOK, viewGoal(g))
}

func listSavingsGoalsHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	q := db.Where("user_id = ?", user.ID)
	switch c.Query("completed") {
	case "true":
		q = q.Where("completed = ?", true)
	case "false":
		q = q.Where("completed = ?", false)
	}
	var goals []models.SavingsGoal
	if err := q.Order("created_at desc").Limit(listLimit(c, maxListLimit)).Find(&goals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	views := make([]goalView, 0, len(goals))
	for _, g := range goals {
		views = append(views, viewGoal(g))
	}
	c.JSON(http.StatusOK, views)
}

// findOwnGoal loads the goal in the path param and checks ownership.
func findOwnGoal(c *gin.Context, userID uint) (*models.SavingsGoal, bool) {
	var g models.SavingsGoal
	if err := db.First(&g, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "goal not found"})
		return nil, false
	}
	if g.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return nil, false
	}
	return &g, true
}

// updateSavingsGoalHandler applies a partial update to current/target/deadline.
func updateSavingsGoalHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	g, ok := findOwnGoal(c, user.ID)
	if !ok {
		return
	}
	var req struct {
		CurrentAmount *int64  `json:"current_amount"`
		TargetAmount  *int64  `json:"target_amount"`
		Deadline      *string `json:"deadline"` // "" clears the deadline
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updates := map[string]any{}
	if req.CurrentAmount != nil {
		if *req.CurrentAmount < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "current_amount must be >= 0"})
			return
		}
		updates["current_amount"] = *req.CurrentAmount
	}
	if req.TargetAmount != nil {
		if *req.TargetAmount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "target_amount must be > 0"})
			return
		}
		updates["target_amount"] = *req.TargetAmount
	}
	if req.Deadline != nil {
		if *req.Deadline == "" {
			updates["deadline"] = nil
		} else {
			t, err := time.Parse("2006-01-02", *req.Deadline)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "deadline must be YYYY-MM-DD"})
				return
			}
			updates["deadline"] = t
		}
	}
	if len(updates) == 0 {
		c.JSON(http.StatusOK, viewGoal(*g))
		return
	}
	if err := db.Model(g).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	var fresh models.SavingsGoal
	if err := db.First(&fresh, g.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, viewGoal(fresh))
}

// completeSavingsGoalHandler marks a fully-funded goal as completed. The
// action is only available once clamped progress has reached 100.
func completeSavingsGoalHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	g, ok := findOwnGoal(c, user.ID)
	if !ok {
		return
	}
	if !summary.GoalCompletable(g.CurrentAmount, g.TargetAmount) {
		c.JSON(http.StatusConflict, gin.H{"error": "goal is not fully funded"})
		return
	}
	if err := db.Model(g).Update("completed", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	g.Completed = true
	c.JSON(http.StatusOK, viewGoal(*g))
}
