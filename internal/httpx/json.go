// Package httpx holds the small JSON response helpers shared by the HTTP handlers.
package httpx

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the uniform error payload: a stable machine-readable tag plus
// a human-readable message.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// WriteJSON serializes payload with the given status code.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}

// WriteError writes a tagged error response.
func WriteError(w http.ResponseWriter, status int, tag, message string) {
	WriteJSON(w, status, ErrorBody{Error: tag, Message: message})
}
