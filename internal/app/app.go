// Package app provides application-level wiring and dependency injection
// for the loan prediction service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"loan-predict/internal/api"
	"loan-predict/internal/config"
	"loan-predict/internal/db"
	"loan-predict/internal/db/repository"
	"loan-predict/internal/middleware"
	"loan-predict/internal/service/loan"
	"loan-predict/internal/service/security"
)

// Deps holds the external dependencies that main() must provide.
type Deps struct {
	Cfg    *config.Config
	Pools  *db.Pools
	Logger *slog.Logger
}

// App holds the fully-wired application.
type App struct {
	Handler  http.Handler
	Gateway  *security.Gateway
	Guard    *security.Guard
	Loans    *loan.Service
	Accounts *repository.AccountRepo
	Hasher   security.Hasher
}

// New wires repositories, services and the router from the provided deps,
// then creates the bootstrap admin when one is configured. ctx bounds the
// background work of the router middleware.
func New(ctx context.Context, deps Deps) (*App, error) {
	cfg := deps.Cfg

	// === Repositories ===
	accountRepo := repository.NewAccountRepo(deps.Pools.Write, deps.Pools.Read)
	loanRepo := repository.NewLoanRepo(deps.Pools.Write, deps.Pools.Read)

	// === Credentials ===
	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)
	tokens, err := security.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.Issuer)
	if err != nil {
		return nil, fmt.Errorf("token service: %w", err)
	}
	guard := security.NewGuard(tokens, accountRepo, deps.Logger)
	gateway := security.NewGateway(accountRepo, hasher, tokens, deps.Logger)

	// === Loans ===
	card, err := loan.LoadScorecard(cfg.LoanModelPath)
	if err != nil {
		return nil, fmt.Errorf("load loan model: %w", err)
	}
	loanSvc := loan.NewService(loanRepo, loan.NewScorecardPredictor(card), deps.Logger)
	deps.Logger.Info("loan model loaded", "model", card.Name, "threshold", card.Threshold)

	// === Bootstrap admin ===
	if cfg.Auth.HasBootstrapAdmin() {
		_, err := EnsureAdmin(ctx, accountRepo, hasher, AdminAccount{
			Username: cfg.Auth.BootstrapAdminUsername,
			Email:    cfg.Auth.BootstrapAdminEmail,
			Password: cfg.Auth.BootstrapAdminPassword,
		}, deps.Logger)
		if err != nil {
			return nil, fmt.Errorf("bootstrap admin: %w", err)
		}
	}

	// === HTTP ===
	handler := api.NewHandler(gateway, loanSvc, deps.Pools, deps.Logger)
	router := api.NewRouter(ctx, handler, api.RouterConfig{
		Authenticator:      guard,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimit: middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimitRPS,
			Burst:             cfg.RateLimitBurst,
		},
		Logger: deps.Logger,
	})

	return &App{
		Handler:  router,
		Gateway:  gateway,
		Guard:    guard,
		Loans:    loanSvc,
		Accounts: accountRepo,
		Hasher:   hasher,
	}, nil
}
