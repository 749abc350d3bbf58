// Package middleware provides the HTTP middleware of the API: request IDs,
// access logging, rate limiting and bearer authentication.
package middleware

import (
	"encoding/json"
	"net/http"
)

// writeJSONError writes the API's {"code","message"} error body.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    status,
		"message": message,
	})
}
