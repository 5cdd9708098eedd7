package main

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"fintrack/models"

	"golang.org/x/crypto/bcrypt"
)

const (
	refreshTokenTTL  = 30 * 24 * time.Hour
	passwordResetTTL = time.Hour
)

// RegisterUser creates a user with a bcrypt-hashed password and its
// one-to-one profile. The email is normalized to lower case.
func RegisterUser(email, password, fullName string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("valid email required")
	}
	if len(password) < 6 { // basic password policy
		return nil, fmt.Errorf("password too short (min 6)")
	}
	// pre-check existing (optimistic)
	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("user already exists")
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := models.User{Email: email, HashedPassword: hashedPassword}
	if err := db.Create(&user).Error; err != nil {
		if isUniqueConstraintError(err) { // race condition after initial check
			return nil, fmt.Errorf("user already exists")
		}
		return nil, err
	}
	profile := models.Profile{UserID: user.ID, FullName: strings.TrimSpace(fullName)}
	if err := db.Create(&profile).Error; err != nil {
		return nil, fmt.Errorf("failed to create profile: %v", err)
	}
	return &user, nil
}

// Authenticate verifies email+password and returns the user. The error never
// reveals which of the two was wrong.
func Authenticate(email, password string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return models.User{}, fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(user.HashedPassword, []byte(password)); err != nil {
		return models.User{}, fmt.Errorf("invalid credentials")
	}
	return user, nil
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "already exists")
}

// newRawToken returns a random 32-byte token as hex plus its sha256 hash for storage.
func newRawToken() (raw, hash string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	raw = hex.EncodeToString(b)
	return raw, hashToken(raw), nil
}

func hashToken(raw string) string {
	h := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(h[:])
}

// createAndStoreRefreshToken generates a random refresh token, stores its hash with expiry and returns the raw token string
func createAndStoreRefreshToken(userID uint) (string, error) {
	raw, hash, err := newRawToken()
	if err != nil {
		return "", err
	}
	rt := models.RefreshToken{UserID: userID, TokenHash: hash, ExpiresAt: time.Now().Add(refreshTokenTTL)}
	if err := db.Create(&rt).Error; err != nil {
		return "", err
	}
	return raw, nil
}

// findRefreshTokenByRaw looks up a refresh token record by its raw token string.
func findRefreshTokenByRaw(token string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	if err := db.Where("token_hash = ?", hashToken(token)).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

// createPasswordReset stores a single-use reset token for the user and
// returns the raw token. A real deployment would mail it; here it is logged
// so the reset flow can be exercised end to end.
func createPasswordReset(userID uint, redirectTo string) (string, error) {
	raw, hash, err := newRawToken()
	if err != nil {
		return "", err
	}
	pr := models.PasswordReset{UserID: userID, TokenHash: hash, ExpiresAt: time.Now().Add(passwordResetTTL), RedirectTo: redirectTo}
	if err := db.Create(&pr).Error; err != nil {
		return "", err
	}
	return raw, nil
}

// consumePasswordReset validates a raw reset token and marks it used.
func consumePasswordReset(raw string) (*models.PasswordReset, error) {
	var pr models.PasswordReset
	if err := db.Where("token_hash = ?", hashToken(raw)).First(&pr).Error; err != nil {
		return nil, fmt.Errorf("invalid or expired reset token")
	}
	if pr.Used || time.Now().After(pr.ExpiresAt) {
		return nil, fmt.Errorf("invalid or expired reset token")
	}
	if err := db.Model(&models.PasswordReset{}).Where("id = ?", pr.ID).Update("used", true).Error; err != nil {
		return nil, err
	}
	return &pr, nil
}

// setPassword replaces the user's password hash.
func setPassword(userID uint, password string) error {
	if len(password) < 6 {
		return fmt.Errorf("password too short (min 6)")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return db.Model(&models.User{}).Where("id = ?", userID).Update("hashed_password", hashed).Error
}
