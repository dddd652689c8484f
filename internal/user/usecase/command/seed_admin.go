package command

import (
	"fmt"
	"os"
	"time"

	"github.com/thukha/backoffice/internal/user/domain"
	"github.com/thukha/backoffice/pkg/auth"
	"github.com/thukha/backoffice/pkg/logger"
)

// EnsureAdmin creates the bootstrap admin account on first start.
// Credentials come from ADMIN_USERNAME / ADMIN_PASSWORD; no-op when
// an admin already exists.
func EnsureAdmin(repo domain.UserRepository) error {
	admins, err := repo.CountByRole(domain.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if admins > 0 {
		return nil
	}

	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" {
		username = "admin"
	}
	if password == "" {
		password = "admin123"
		logger.Logger.Warn().Msg("ADMIN_PASSWORD not set, using default bootstrap password")
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &domain.User{
		Username:  username,
		Email:     username + "@backoffice.local",
		Password:  hashed,
		FullName:  "Administrator",
		Role:      domain.RoleAdmin,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := repo.Create(admin); err != nil {
		return fmt.Errorf("failed to create bootstrap admin: %w", err)
	}

	logger.Logger.Info().Str("username", username).Msg("Bootstrap admin account created")
	return nil
}
