package domain

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	UsernameMinLen = 3
	UsernameMaxLen = 20
	PasswordMinLen = 6

	// PasswordCost is the bcrypt work factor for stored credentials.
	PasswordCost = 12
)

// User models a player account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	GoogleID     string    `json:"-"`
	BestScore    int       `json:"bestScore"`
	IsAdmin      bool      `json:"isAdmin"`
	IsActive     bool      `json:"isActive"`
	LastLoginAt  time.Time `json:"lastLoginAt"`
	LoginCount   int       `json:"loginCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// HashPassword returns the bcrypt hash stored for a local account.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// NewLocalUser builds an account that signs in with email and password.
// The first login is recorded at creation.
func NewLocalUser(username, email, passwordHash string, now time.Time) *User {
	return &User{
		Username:     strings.TrimSpace(username),
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		IsActive:     true,
		LastLoginAt:  now,
		LoginCount:   1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NewOAuthUser builds an account keyed by a third-party identity; it has no password.
func NewOAuthUser(username string, identity *ExternalIdentity, now time.Time) *User {
	return &User{
		Username:    username,
		Email:       NormalizeEmail(identity.Email),
		GoogleID:    identity.Subject,
		IsActive:    true,
		LastLoginAt: now,
		LoginCount:  1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// HasPassword reports whether the account can use the local credential path.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// PasswordMatches compares a submitted password against the stored hash.
func (u *User) PasswordMatches(password string) bool {
	if !u.HasPassword() {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// RecordLogin applies the login bookkeeping in memory. Repositories persist
// the same change atomically.
func (u *User) RecordLogin(now time.Time) {
	u.LastLoginAt = now
	u.LoginCount++
	u.UpdatedAt = now
}

// ApplyScore raises the best score when score is strictly greater and reports
// whether it did.
func (u *User) ApplyScore(score int) bool {
	if score <= u.BestScore {
		return false
	}
	u.BestScore = score
	return true
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
