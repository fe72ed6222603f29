package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/yashodhank/tincanz/internal/config"
	inbox "github.com/yashodhank/tincanz/internal/pkg/inbox/application/domain"
	inboxhttp "github.com/yashodhank/tincanz/internal/pkg/inbox/presentation/http"

	"go.uber.org/zap"
)

// bootstrapAdmin makes sure the configured admin account exists. In development it
// also logs a session token so the admin pages can be opened right away.
func bootstrapAdmin(ctx context.Context, deps inboxhttp.Deps, cfg *config.Config, logger *zap.Logger) error {
	admin, err := deps.Users.FindByEmail(ctx, cfg.Bootstrap.AdminEmail)
	switch {
	case errors.Is(err, inbox.ErrUserNotFound):
		admin = &inbox.User{Email: cfg.Bootstrap.AdminEmail, Admin: true}
		if err := deps.Users.Create(ctx, admin); err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		logger.Info("created admin user", zap.String("email", admin.Email), zap.String("id", admin.ID))
	case err != nil:
		return fmt.Errorf("find admin: %w", err)
	case !admin.IsAdmin():
		logger.Warn("bootstrap user exists but is not an admin", zap.String("email", admin.Email))
		return nil
	}

	if cfg.IsDevelopment() {
		token, err := deps.Tokens.Issue(*admin)
		if err != nil {
			return fmt.Errorf("issue token: %w", err)
		}
		logger.Info("admin session token (POST it as 'token' to /admin/session, or send as Bearer)",
			zap.String("email", admin.Email), zap.String("token", token))
	}
	return nil
}
