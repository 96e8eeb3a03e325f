package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kestrelworks/aquamon-core/internal/access"
	"github.com/kestrelworks/aquamon-core/internal/audit"
	"github.com/kestrelworks/aquamon-core/internal/infrastructure/config"
	"github.com/kestrelworks/aquamon-core/internal/infrastructure/logging"
)

// Service handles account registration, login, and session lifecycle.
type Service struct {
	users  UserRepository
	tokens TokenRepository
	jwt    config.JWTConfig
	trail  *audit.Trail
	logger *logging.Logger
}

// NewService creates an auth service.
func NewService(users UserRepository, tokens TokenRepository, jwt config.JWTConfig, logger *logging.Logger) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		jwt:    jwt,
		logger: logger,
	}
}

// SetTrail enables activity trail recording. A nil trail records nothing.
func (s *Service) SetTrail(trail *audit.Trail) {
	s.trail = trail
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"` // seconds until the access token expires
}

// RegisterInput carries the fields for account creation.
type RegisterInput struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Register creates a new account. Email is normalised before the uniqueness
// check so the same address cannot register twice with different casing.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	email := NormalizeEmail(in.Email)
	if !IsValidEmail(email) {
		return nil, access.Validation("email address is not valid")
	}
	name := in.Name
	if name == "" {
		// Fall back to the local part of the address.
		name = email[:strings.Index(email, "@")]
	}
	if err := ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, access.Internal(fmt.Errorf("hashing password: %w", err))
	}

	user := &User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         access.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, access.Conflict("an account with this email already exists")
		}
		return nil, access.Internal(err)
	}

	s.logger.Info("user registered", "user_id", user.ID)
	s.trail.Record(ctx, audit.ActionRegister, audit.EntityUser, user.ID, user.ID, nil)
	return user, nil
}

// Login verifies credentials and issues a token pair. Unknown email and
// wrong password produce the same error so the two cannot be told apart.
func (s *Service) Login(ctx context.Context, email, password string) (*User, *TokenPair, error) {
	email = NormalizeEmail(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil, access.InvalidCredentials()
		}
		return nil, nil, access.Internal(err)
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return nil, nil, access.InvalidCredentials()
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	s.trail.Record(ctx, audit.ActionLogin, audit.EntityUser, user.ID, user.ID, nil)
	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a new token pair. The old
// token is revoked so each refresh token is single use.
func (s *Service) Refresh(ctx context.Context, rawToken string) (*TokenPair, error) {
	record, err := s.tokens.GetByTokenHash(ctx, HashToken(rawToken))
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return nil, access.Unauthenticated()
		}
		return nil, access.Internal(err)
	}

	if record.Revoked || time.Now().UTC().After(record.ExpiresAt) {
		return nil, access.Unauthenticated()
	}

	user, err := s.users.GetByID(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, access.Unauthenticated()
		}
		return nil, access.Internal(err)
	}

	if err := s.tokens.Revoke(ctx, record.ID); err != nil {
		return nil, access.Internal(err)
	}

	return s.issueTokens(ctx, user)
}

// Logout revokes the presented refresh token. Revoking an already revoked
// or unknown token is not an error.
func (s *Service) Logout(ctx context.Context, rawToken string) error {
	record, err := s.tokens.GetByTokenHash(ctx, HashToken(rawToken))
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return nil
		}
		return access.Internal(err)
	}

	if err := s.tokens.Revoke(ctx, record.ID); err != nil && !errors.Is(err, ErrTokenNotFound) {
		return access.Internal(err)
	}
	return nil
}

// GetProfile returns the authenticated user's own account.
func (s *Service) GetProfile(ctx context.Context, p *access.Principal) (*User, error) {
	if err := access.Require(p, access.CapAuthenticated); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, p.ID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, access.Unauthenticated()
		}
		return nil, access.Internal(err)
	}
	return user, nil
}

// UpdateProfileInput carries optional profile changes. Nil fields are left
// unchanged.
type UpdateProfileInput struct {
	Email *string `json:"email"`
	Name  *string `json:"name"`
}

// UpdateProfile changes the authenticated user's own email or name.
func (s *Service) UpdateProfile(ctx context.Context, p *access.Principal, in UpdateProfileInput) (*User, error) {
	if err := access.Require(p, access.CapAuthenticated); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, p.ID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, access.Unauthenticated()
		}
		return nil, access.Internal(err)
	}

	if in.Email != nil {
		email := NormalizeEmail(*in.Email)
		if !IsValidEmail(email) {
			return nil, access.Validation("email address is not valid")
		}
		user.Email = email
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, access.Validation("name cannot be empty")
		}
		user.Name = *in.Name
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, access.Conflict("an account with this email already exists")
		}
		return nil, access.Internal(err)
	}

	return user, nil
}

// ChangePassword verifies the current password, stores a new hash, and
// revokes every outstanding refresh token for the account.
func (s *Service) ChangePassword(ctx context.Context, p *access.Principal, current, next string) error {
	if err := access.Require(p, access.CapAuthenticated); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, p.ID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return access.Unauthenticated()
		}
		return access.Internal(err)
	}

	if !VerifyPassword(current, user.PasswordHash) {
		return access.InvalidCredentials()
	}
	if err := ValidatePassword(next); err != nil {
		return err
	}

	hash, err := HashPassword(next)
	if err != nil {
		return access.Internal(fmt.Errorf("hashing password: %w", err))
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return access.Internal(err)
	}
	if err := s.tokens.RevokeAllForUser(ctx, user.ID); err != nil {
		return access.Internal(err)
	}

	s.logger.Info("password changed", "user_id", user.ID)
	return nil
}

// DeleteAccount removes the authenticated user's own account. Owned
// devices, readings, and alert rules cascade at the schema level.
func (s *Service) DeleteAccount(ctx context.Context, p *access.Principal, password string) error {
	if err := access.Require(p, access.CapAuthenticated); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, p.ID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return access.Unauthenticated()
		}
		return access.Internal(err)
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return access.InvalidCredentials()
	}

	if err := s.users.Delete(ctx, user.ID); err != nil {
		return access.Internal(err)
	}

	s.logger.Info("account deleted", "user_id", user.ID)
	return nil
}

// UserPage is a page of accounts from the admin listing.
type UserPage struct {
	Users []User `json:"users"`
	Total int    `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

const (
	defaultUserPageLimit = 10
	maxUserPageLimit     = 100
)

// ListUsers returns a page of all accounts. Admin only.
func (s *Service) ListUsers(ctx context.Context, p *access.Principal, page, limit int, search string) (*UserPage, error) {
	if err := access.Require(p, access.CapAdmin); err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultUserPageLimit
	}
	if limit > maxUserPageLimit {
		return nil, access.Validation(fmt.Sprintf("limit must be at most %d", maxUserPageLimit))
	}

	users, total, err := s.users.List(ctx, page, limit, search)
	if err != nil {
		return nil, access.Internal(err)
	}

	return &UserPage{Users: users, Total: total, Page: page, Limit: limit}, nil
}

// CleanupExpiredTokens removes refresh tokens past their expiry.
func (s *Service) CleanupExpiredTokens(ctx context.Context) (int, error) {
	return s.tokens.DeleteExpired(ctx)
}

// VerifyAccessToken parses and validates an access token, returning the
// principal it represents.
func (s *Service) VerifyAccessToken(tokenString string) (*access.Principal, error) {
	claims, err := ParseToken(tokenString, s.jwt.Secret)
	if err != nil {
		return nil, access.Unauthenticated()
	}
	return claims.Principal(), nil
}

func (s *Service) issueTokens(ctx context.Context, user *User) (*TokenPair, error) {
	accessToken, err := GenerateAccessToken(user, s.jwt.Secret, s.jwt.AccessTokenTTL)
	if err != nil {
		return nil, access.Internal(fmt.Errorf("signing access token: %w", err))
	}

	rawRefresh, err := GenerateRefreshToken()
	if err != nil {
		return nil, access.Internal(fmt.Errorf("generating refresh token: %w", err))
	}

	record := &RefreshToken{
		UserID:    user.ID,
		TokenHash: HashToken(rawRefresh),
		ExpiresAt: time.Now().UTC().Add(time.Duration(s.jwt.RefreshTokenTTL) * time.Minute),
	}
	if err := s.tokens.Create(ctx, record); err != nil {
		return nil, access.Internal(err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: rawRefresh,
		ExpiresIn:    s.jwt.AccessTokenTTL * 60,
	}, nil
}
