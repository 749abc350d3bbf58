// Package api provides the HTTP handlers of the loan prediction REST API.
package api

import (
	"context"
	"log/slog"

	"loan-predict/internal/domain"
)

// authService defines the credential operations used by the API handler.
type authService interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.Account, error)
	Login(ctx context.Context, username, password string) (*domain.AccessToken, error)
	ResetPassword(ctx context.Context, principal *domain.Account, newPassword *string) error
	Activate(ctx context.Context, email, password string) error
	CreateAccount(ctx context.Context, principal *domain.Account, req domain.CreateAccountRequest) (*domain.Account, error)
	ListAccounts(ctx context.Context, principal *domain.Account, page domain.PageRequest) ([]domain.Account, int64, error)
}

// loanService defines the loan operations used by the API handler.
type loanService interface {
	Request(ctx context.Context, principal *domain.Account, f domain.LoanFeatures) (*domain.LoanRequest, error)
	History(ctx context.Context, principal *domain.Account, page domain.PageRequest) ([]domain.LoanRequest, int64, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// APIHandler serves the /api/v1 routes.
type APIHandler struct {
	auth   authService
	loans  loanService
	health Pinger
	logger *slog.Logger
}

// NewHandler creates a new APIHandler.
func NewHandler(auth authService, loans loanService, health Pinger, logger *slog.Logger) *APIHandler {
	return &APIHandler{
		auth:   auth,
		loans:  loans,
		health: health,
		logger: logger.With("component", "api"),
	}
}

// principal returns the account stored by the Authenticate middleware.
func principal(ctx context.Context) *domain.Account {
	p, _ := domain.PrincipalFromContext(ctx)
	return p
}
