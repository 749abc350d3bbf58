package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"loan-predict/internal/domain"
)

// Authenticate resolves the Authorization: Bearer token through authn and
// stores the account in the request context. Any failure is a 401 with the
// shared credentials message.
func Authenticate(authn domain.Authenticator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeUnauthorized(w)
				return
			}

			principal, err := authn.Authenticate(r.Context(), token)
			if err != nil {
				var unauth *domain.UnauthenticatedError
				if errors.As(err, &unauth) {
					writeUnauthorized(w)
					return
				}
				logger.ErrorContext(r.Context(), "authenticate request",
					"error", err, "request_id", RequestIDFromContext(r.Context()))
				writeJSONError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			next.ServeHTTP(w, r.WithContext(domain.WithPrincipal(r.Context(), principal)))
		})
	}
}

// RequireRole rejects callers that do not hold role. It must run after
// Authenticate: a missing principal is a 401, a wrong role a 403.
func RequireRole(role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, _ := domain.PrincipalFromContext(r.Context())
			if err := domain.RequireRole(principal, role); err != nil {
				var denied *domain.AccessDeniedError
				if errors.As(err, &denied) {
					writeJSONError(w, http.StatusForbidden, denied.Message)
					return
				}
				writeUnauthorized(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeJSONError(w, http.StatusUnauthorized, domain.UnauthenticatedMessage)
}
