package security

import (
	"context"
	"errors"
	"log/slog"

	"loan-predict/internal/domain"
)

// TokenVerifier verifies access tokens.
type TokenVerifier interface {
	Verify(token string) (*SessionClaims, error)
}

// Guard resolves bearer tokens to active accounts. Every failure surfaces as
// the same UnauthenticatedError; the cause is only logged.
type Guard struct {
	tokens   TokenVerifier
	accounts domain.AccountRepository
	logger   *slog.Logger
}

// NewGuard creates a Guard.
func NewGuard(tokens TokenVerifier, accounts domain.AccountRepository, logger *slog.Logger) *Guard {
	return &Guard{tokens: tokens, accounts: accounts, logger: logger.With("component", "guard")}
}

var _ domain.Authenticator = (*Guard)(nil)

// Authenticate implements domain.Authenticator.
func (g *Guard) Authenticate(ctx context.Context, token string) (*domain.Account, error) {
	claims, err := g.tokens.Verify(token)
	if err != nil {
		g.logger.InfoContext(ctx, "token rejected", "reason", FailureReason(err))
		return nil, domain.ErrUnauthenticated()
	}

	account, err := g.accounts.GetByUsername(ctx, claims.Subject)
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			g.logger.InfoContext(ctx, "token rejected", "reason", "unknown_account", "subject", claims.Subject)
			return nil, domain.ErrUnauthenticated()
		}
		return nil, err
	}
	if !account.IsActive {
		g.logger.InfoContext(ctx, "token rejected", "reason", "inactive_account", "account_id", account.ID)
		return nil, domain.ErrUnauthenticated()
	}
	return account, nil
}
