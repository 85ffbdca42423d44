// Package server wires the service layer to the HTTP surface: JSON
// request decoding, route registration and error-to-status mapping.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mmynk/rondo/internal/apperrors"
	"github.com/mmynk/rondo/internal/auth"
)

// readJSON decodes a request body into dst, rejecting unknown fields.
func readJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperrors.Validation("invalid request body")
	}
	return nil
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			slog.Error("Failed to encode response", "error", err)
		}
	}
}

// writeError maps an error to its HTTP status and writes the JSON error
// body. Credential failures read as 401; everything unclassified is a
// 500 with the detail kept out of the response.
func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, auth.ErrInvalidCredentials) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
		return
	}

	status := apperrors.HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("Request failed", "error", err)
		message = "internal server error"
	}
	writeJSON(w, status, map[string]string{"error": message})
}
