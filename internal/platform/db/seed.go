package db

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"tikidan/internal/domain/rbac"
	"tikidan/internal/domain/users"
	"tikidan/internal/platform/config"
)

// Seed creates the first administrator when no account uses the seed email.
func Seed(ctx context.Context, svc *users.Service, cfg config.Config) error {
	email := strings.TrimSpace(cfg.SeedAdminEmail)
	if email == "" || cfg.SeedAdminPassword == "" {
		slog.Warn("seed skipped: SEED_ADMIN_EMAIL or SEED_ADMIN_PASSWORD not set")
		return nil
	}
	_, err := svc.RegisterEmployee(ctx, users.EmployeeInput{
		Email:     email,
		Password:  cfg.SeedAdminPassword,
		Role:      rbac.RoleAdmin,
		FirstName: "Administrator",
	})
	if errors.Is(err, users.ErrEmailTaken) {
		return nil
	}
	if err != nil {
		return err
	}
	slog.Info("seeded admin account", "email", strings.ToLower(email))
	return nil
}
