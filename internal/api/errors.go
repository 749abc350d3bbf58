package api

import (
	"errors"
	"net/http"

	"loan-predict/internal/domain"
	"loan-predict/internal/middleware"
)

// httpStatusFromDomainError maps domain errors to HTTP status codes.
// Conflicts are reported as 400 so that a duplicate registration looks like
// any other rejected input.
func httpStatusFromDomainError(err error) int {
	var notFound *domain.NotFoundError
	var accessDenied *domain.AccessDeniedError
	var unauthenticated *domain.UnauthenticatedError
	var validation *domain.ValidationError
	var conflict *domain.ConflictError

	switch {
	case errors.As(err, &unauthenticated):
		return http.StatusUnauthorized
	case errors.As(err, &accessDenied):
		return http.StatusForbidden
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &validation), errors.As(err, &conflict):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// domainMessage returns the client-facing message of a domain error,
// without any wrapping context added on the way up.
func domainMessage(err error) string {
	var notFound *domain.NotFoundError
	var accessDenied *domain.AccessDeniedError
	var validation *domain.ValidationError
	var conflict *domain.ConflictError

	switch {
	case errors.As(err, &notFound):
		return notFound.Message
	case errors.As(err, &accessDenied):
		return accessDenied.Message
	case errors.As(err, &validation):
		return validation.Message
	case errors.As(err, &conflict):
		return conflict.Message
	default:
		return err.Error()
	}
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// writeError renders err as {"code","message"}. Unauthenticated errors always
// carry the shared credentials message; unexpected errors are logged and
// hidden behind a generic 500.
func (h *APIHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := httpStatusFromDomainError(err)
	var message string
	switch status {
	case http.StatusUnauthorized:
		w.Header().Set("WWW-Authenticate", "Bearer")
		message = domain.UnauthenticatedMessage
	case http.StatusInternalServerError:
		h.logger.ErrorContext(r.Context(), "request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.RequestIDFromContext(r.Context()))
		message = "internal server error"
	default:
		message = domainMessage(err)
	}
	writeJSON(w, status, errorResponse{Code: status, Message: message})
}
