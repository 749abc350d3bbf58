package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"loan-predict/internal/domain"
	"loan-predict/internal/service/security"
)

// AdminAccount describes an administrator account created outside the API.
type AdminAccount struct {
	Username string
	Email    string
	Password string
}

// EnsureAdmin creates an active admin account unless the username or email
// is already taken. It reports whether an account was created. Idempotent.
func EnsureAdmin(ctx context.Context, accounts domain.AccountRepository, hasher security.Hasher, admin AdminAccount, logger *slog.Logger) (bool, error) {
	username := strings.TrimSpace(admin.Username)
	email := strings.TrimSpace(admin.Email)
	if username == "" || email == "" {
		return false, domain.ErrValidation("admin username and email are required")
	}

	exists, err := accounts.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return false, fmt.Errorf("check existing admin: %w", err)
	}
	if exists {
		logger.Debug("admin account already present", "username", username)
		return false, nil
	}

	if err := security.ValidatePassword(admin.Password); err != nil {
		return false, err
	}
	hash, err := hasher.Hash(admin.Password)
	if err != nil {
		return false, err
	}

	account, err := accounts.Create(ctx, &domain.Account{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		IsActive:     true,
	})
	if err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	logger.Info("admin account created", "account_id", account.ID, "username", account.Username)
	return true, nil
}
