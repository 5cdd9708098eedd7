package main

import (
	"log"
	"os"
	"strings"

	"fintrack/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

func initDB() {
	var err error
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN is not set. This project requires a Postgres DSN in DB_DSN.")
	}
	db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect postgres database:", err)
	}
	// Control schema migrations with env DB_AUTO_MIGRATE (default true). Any permission errors will be logged and ignored.
	shouldMigrate := true
	if v := os.Getenv("DB_AUTO_MIGRATE"); v != "" {
		lv := strings.ToLower(v)
		if lv == "false" || lv == "0" || lv == "no" {
			shouldMigrate = false
		}
	}
	if !shouldMigrate {
		return
	}
	// Migrate models individually so a failure on one doesn't block others.
	// Users first so the dependent tables can apply their FKs safely.
	if err := db.AutoMigrate(&models.User{}); err != nil {
		log.Printf("migration warning (users): %v", err)
	}
	if err := db.AutoMigrate(&models.Profile{}); err != nil {
		log.Printf("migration warning (profiles): %v", err)
	}
	if err := db.AutoMigrate(&models.RefreshToken{}); err != nil {
		log.Printf("migration warning (refresh_tokens): %v", err)
	}
	if err := db.AutoMigrate(&models.PasswordReset{}); err != nil {
		log.Printf("migration warning (password_resets): %v", err)
	}
	if err := db.AutoMigrate(&models.Transaction{}); err != nil {
		log.Printf("migration warning (transactions): %v", err)
	}
	if err := db.AutoMigrate(&models.Budget{}); err != nil {
		log.Printf("migration warning (budgets): %v", err)
	}
	if err := db.AutoMigrate(&models.SavingsGoal{}); err != nil {
		log.Printf("migration warning (savings_goals): %v", err)
	}
	if err := db.AutoMigrate(&models.Upload{}); err != nil {
		log.Printf("migration warning (uploads): %v", err)
	}
}
