package auth

import (
	"context"
	"fmt"
	"os"

	"github.com/kestrelworks/aquamon-core/internal/access"
	"github.com/kestrelworks/aquamon-core/internal/infrastructure/logging"
)

// SeedAdmin creates the initial admin account when the user table is empty.
// Credentials come from AQUAMON_ADMIN_EMAIL and AQUAMON_ADMIN_PASSWORD; when
// unset, seeding is skipped so a fresh install without credentials boots
// with no accounts rather than a well-known default.
func SeedAdmin(ctx context.Context, users UserRepository, logger *logging.Logger) error {
	count, err := users.Count(ctx)
	if err != nil {
		return fmt.Errorf("checking user count: %w", err)
	}
	if count > 0 {
		return nil
	}

	email := NormalizeEmail(os.Getenv("AQUAMON_ADMIN_EMAIL"))
	password := os.Getenv("AQUAMON_ADMIN_PASSWORD")
	if email == "" || password == "" {
		logger.Warn("no accounts exist and no admin credentials configured, skipping seed")
		return nil
	}

	if !IsValidEmail(email) {
		return fmt.Errorf("seed admin email %q is not valid", email)
	}
	if err := ValidatePassword(password); err != nil {
		return fmt.Errorf("seed admin password rejected: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing seed password: %w", err)
	}

	admin := &User{
		Email:        email,
		Name:         "Administrator",
		PasswordHash: hash,
		Role:         access.RoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		return fmt.Errorf("creating seed admin: %w", err)
	}

	logger.Info("seeded initial admin account", "user_id", admin.ID, "email", email)
	return nil
}
