package security

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"loan-predict/internal/domain"
)

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Issue(subject string, accountID int64) (*domain.AccessToken, error)
}

// Gateway runs the credential flows: registration, login, password reset,
// activation and admin account management.
type Gateway struct {
	accounts domain.AccountRepository
	hasher   Hasher
	tokens   TokenIssuer
	logger   *slog.Logger

	decoyMu sync.Mutex
	decoy   string
}

// NewGateway creates a Gateway.
func NewGateway(accounts domain.AccountRepository, hasher Hasher, tokens TokenIssuer, logger *slog.Logger) *Gateway {
	return &Gateway{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger.With("component", "auth-gateway"),
	}
}

// Register creates an active account with the user role.
func (g *Gateway) Register(ctx context.Context, req domain.RegisterRequest) (*domain.Account, error) {
	username, email, err := normalizeIdentity(req.Username, req.Email)
	if err != nil {
		return nil, err
	}
	taken, err := g.accounts.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrAccountTaken()
	}
	if err := ValidatePassword(req.Password); err != nil {
		return nil, err
	}
	hash, err := g.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	account, err := g.accounts.Create(ctx, &domain.Account{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		IsActive:     true,
	})
	if err != nil {
		return nil, err
	}
	g.logger.InfoContext(ctx, "account registered", "account_id", account.ID)
	return account, nil
}

// Login checks the credentials and issues an access token whose subject is
// the username. Unknown usernames, wrong passwords and inactive accounts
// return the same error.
func (g *Gateway) Login(ctx context.Context, username, password string) (*domain.AccessToken, error) {
	account, err := g.accounts.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		var notFound *domain.NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		// Spend the same bcrypt work as a real comparison.
		g.hasher.Verify(password, g.decoyHash(ctx))
		g.logger.InfoContext(ctx, "login failed", "reason", "unknown_account")
		return nil, domain.ErrUnauthenticated()
	}

	if !g.hasher.Verify(password, account.PasswordHash) {
		g.logger.InfoContext(ctx, "login failed", "reason", "wrong_password", "account_id", account.ID)
		return nil, domain.ErrUnauthenticated()
	}
	if !account.IsActive {
		g.logger.InfoContext(ctx, "login failed", "reason", "inactive_account", "account_id", account.ID)
		return nil, domain.ErrUnauthenticated()
	}

	return g.tokens.Issue(account.Username, account.ID)
}

// ResetPassword replaces the principal's password. Tokens issued before the
// reset stay valid until they expire.
func (g *Gateway) ResetPassword(ctx context.Context, principal *domain.Account, newPassword *string) error {
	if principal == nil {
		return domain.ErrUnauthenticated()
	}
	if newPassword == nil || *newPassword == "" {
		return domain.ErrValidation("new password is required")
	}
	if err := ValidatePassword(*newPassword); err != nil {
		return err
	}
	hash, err := g.hasher.Hash(*newPassword)
	if err != nil {
		return err
	}
	if err := g.accounts.UpdatePasswordHash(ctx, principal.ID, hash); err != nil {
		return err
	}
	g.logger.InfoContext(ctx, "password reset", "account_id", principal.ID)
	return nil
}

// Activate sets the password of an inactive account and activates it.
func (g *Gateway) Activate(ctx context.Context, email, password string) error {
	account, err := g.accounts.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return err
	}
	if account.IsActive {
		return domain.ErrAlreadyActive()
	}
	if err := ValidatePassword(password); err != nil {
		return err
	}
	hash, err := g.hasher.Hash(password)
	if err != nil {
		return err
	}
	if err := g.accounts.Activate(ctx, account.ID, hash); err != nil {
		return err
	}
	g.logger.InfoContext(ctx, "account activated", "account_id", account.ID)
	return nil
}

// CreateAccount lets an admin create an inactive account. Without a password
// the account gets an unusable digest and can only be entered through
// activation.
func (g *Gateway) CreateAccount(ctx context.Context, principal *domain.Account, req domain.CreateAccountRequest) (*domain.Account, error) {
	if err := domain.RequireRole(principal, domain.RoleAdmin); err != nil {
		return nil, err
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}
	username, email, err := normalizeIdentity(req.Username, req.Email)
	if err != nil {
		return nil, err
	}
	taken, err := g.accounts.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrAccountTaken()
	}

	var hash string
	if req.Password != "" {
		if err := ValidatePassword(req.Password); err != nil {
			return nil, err
		}
		hash, err = g.hasher.Hash(req.Password)
	} else {
		hash, err = UnusableHash(g.hasher)
	}
	if err != nil {
		return nil, err
	}

	account, err := g.accounts.Create(ctx, &domain.Account{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     false,
	})
	if err != nil {
		return nil, err
	}
	g.logger.InfoContext(ctx, "account created", "account_id", account.ID, "role", role, "created_by", principal.ID)
	return account, nil
}

// ListAccounts lists all accounts for an admin and only the caller's own
// account otherwise.
func (g *Gateway) ListAccounts(ctx context.Context, principal *domain.Account, page domain.PageRequest) ([]domain.Account, int64, error) {
	if principal == nil {
		return nil, 0, domain.ErrUnauthenticated()
	}
	filter := domain.AccountFilter{Page: page}
	if !principal.IsAdmin() {
		filter.OwnerID = &principal.ID
	}
	return g.accounts.List(ctx, filter)
}

// decoyHash returns a digest for comparisons against unknown usernames. A
// failed hash is logged and retried on the next call.
func (g *Gateway) decoyHash(ctx context.Context) string {
	g.decoyMu.Lock()
	defer g.decoyMu.Unlock()
	if g.decoy != "" {
		return g.decoy
	}
	decoy, err := UnusableHash(g.hasher)
	if err != nil {
		g.logger.ErrorContext(ctx, "build decoy hash", "error", err)
		return ""
	}
	g.decoy = decoy
	return g.decoy
}

func normalizeIdentity(username, email string) (string, string, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" {
		return "", "", domain.ErrValidation("username is required")
	}
	if email == "" {
		return "", "", domain.ErrValidation("email is required")
	}
	return username, email, nil
}
