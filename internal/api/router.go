package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"loan-predict/internal/domain"
	"loan-predict/internal/middleware"
)

// RouterConfig holds what the router needs beyond the handler itself.
type RouterConfig struct {
	Authenticator      domain.Authenticator
	CORSAllowedOrigins []string
	RateLimit          middleware.RateLimitConfig
	Logger             *slog.Logger
}

// NewRouter builds the HTTP router. ctx bounds background work started by
// the middleware.
func NewRouter(ctx context.Context, h *APIHandler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader, "Retry-After"},
		AllowCredentials: !allowsAnyOrigin(cfg.CORSAllowedOrigins),
		MaxAge:           300,
	}))

	r.Get("/healthz", h.Health)

	authenticate := middleware.Authenticate(cfg.Authenticator, cfg.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimiter(ctx, cfg.RateLimit))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.Post("/activate", h.Activate)
			r.Post("/logout", h.Logout)
			r.With(authenticate).Post("/reset-password", h.ResetPassword)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/users/me", h.Me)
			r.Post("/loans/request", h.RequestLoan)
			r.Get("/loans/history", h.LoanHistory)

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(domain.RoleAdmin))
				r.Post("/users", h.CreateUser)
				r.Get("/users", h.ListUsers)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Code: http.StatusNotFound, Message: "route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Code: http.StatusMethodNotAllowed, Message: "method not allowed"})
	})

	return r
}

func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
