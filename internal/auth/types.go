package auth

import (
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/kestrelworks/aquamon-core/internal/access"
)

// User represents an account.
type User struct {
	ID           string      `json:"id"`
	Email        string      `json:"email"`
	Name         string      `json:"name"`
	PasswordHash string      `json:"-"` // never serialised
	Role         access.Role `json:"role"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// Principal returns the access-layer principal for this user.
func (u *User) Principal() *access.Principal {
	return &access.Principal{ID: u.ID, Role: u.Role}
}

// RefreshToken represents a stored refresh token for session management.
// Only the SHA-256 hash of the raw token is persisted.
type RefreshToken struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"-"` // never serialised
	ExpiresAt time.Time `json:"expires_at"`
	Revoked   bool      `json:"revoked"`
	CreatedAt time.Time `json:"created_at"`
}

// Sentinel errors for auth persistence.
var (
	ErrUserNotFound  = errors.New("auth: user not found")
	ErrEmailExists   = errors.New("auth: email already exists")
	ErrTokenNotFound = errors.New("auth: refresh token not found")
)

// minPasswordLength is the minimum accepted password length.
const minPasswordLength = 8

// NormalizeEmail lower-cases and trims an email address.
// Every lookup and every stored email goes through this, which is what
// makes registration with "Test@Example.com" and login with
// "test@example.com" resolve to the same account.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidEmail performs a minimal structural check on an address.
func IsValidEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t\n")
}

// ValidatePassword checks the password policy: at least 8 characters
// containing a lowercase letter, an uppercase letter, and a digit.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return access.Validation("password must be at least 8 characters")
	}

	var hasLower, hasUpper, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLower || !hasUpper || !hasDigit {
		return access.Validation("password must contain lowercase, uppercase, and a digit")
	}

	return nil
}
