package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-predict/internal/domain"
)

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestHTTPStatusFromDomainError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", domain.ErrValidation("bad"), http.StatusBadRequest},
		{"conflict", domain.ErrAccountTaken(), http.StatusBadRequest},
		{"unauthenticated", domain.ErrUnauthenticated(), http.StatusUnauthorized},
		{"access denied", domain.ErrAccessDenied("no"), http.StatusForbidden},
		{"not found", domain.ErrNotFound("gone"), http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("lookup: %w", domain.ErrNotFound("gone")), http.StatusNotFound},
		{"unknown", errBoom, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, httpStatusFromDomainError(tt.err))
		})
	}
}

func TestDomainMessage_StripsWrapping(t *testing.T) {
	err := fmt.Errorf("insert account: %w", domain.ErrAccountTaken())
	assert.Equal(t, "username or email already in use", domainMessage(err))
}
