// Package bootstrap handles one-time initialization tasks for the application.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nkozdemir/fakestore-backend-sub000/internal/auth"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/domain"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/repository"
)

// AdminConfig contains configuration for the initial admin user.
type AdminConfig struct {
	Username string
	Email    string
	Password string
}

// Validate checks that the admin configuration is valid.
func (c *AdminConfig) Validate() error {
	if c.Username == "" {
		return errors.New("admin username is required")
	}
	if c.Email == "" {
		return errors.New("admin email is required")
	}
	if len(c.Password) < 12 {
		return errors.New("admin password must be at least 12 characters")
	}
	return nil
}

// EnsureAdmin creates the initial superuser if it doesn't exist.
// This function is idempotent - safe to call on every startup.
//
// If the account already exists (by username), it returns without error.
// If AdminConfig is nil or has empty Username/Password, it logs a warning
// and skips, which allows running without an admin in dev.
func EnsureAdmin(ctx context.Context, store repository.Store, cfg *AdminConfig, logger *slog.Logger) error {
	if cfg == nil || cfg.Username == "" || cfg.Password == "" {
		logger.Warn("bootstrap: skipping admin creation - FAKESTORE_ADMIN_USERNAME or FAKESTORE_ADMIN_PASSWORD not set",
			"hint", "Set these environment variables to create an admin user on first startup",
		)
		return nil
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("bootstrap: invalid admin config: %w", err)
	}

	_, err := store.Users().GetByUsername(ctx, cfg.Username)
	switch {
	case err == nil:
		logger.Info("bootstrap: admin user already exists",
			slog.String("username", cfg.Username))
		return nil
	case !errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("bootstrap: failed to look up admin user: %w", err)
	}

	hash, err := auth.HashPassword(cfg.Password)
	if err != nil {
		return fmt.Errorf("bootstrap: failed to hash admin password: %w", err)
	}

	admin := &domain.User{
		Username:     cfg.Username,
		Email:        cfg.Email,
		PasswordHash: hash,
		Staff:        true,
		Superuser:    true,
	}
	if err := store.Users().Create(ctx, admin); err != nil {
		// A concurrent startup may have created it first.
		if errors.Is(err, repository.ErrConflict) {
			logger.Info("bootstrap: admin user already exists",
				slog.String("username", cfg.Username))
			return nil
		}
		return fmt.Errorf("bootstrap: failed to create admin user: %w", err)
	}

	logger.Info("bootstrap: created admin user",
		slog.String("username", cfg.Username),
		slog.Int64("user_id", admin.ID))
	return nil
}
