package handler

// RESPONSE HELPERS:
// These functions standardise how we send JSON responses and errors.
//
// CONSISTENT SHAPES:
// Every error response from the API is `{"error": "<human-readable>"}` with
// the appropriate 4xx/5xx status. Mutations that return no record answer
// `{"success": true}`. The frontend never has to guess the shape.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nadia/studydesk/internal/apperror"
)

// errorResponse is the standard error format returned by all API endpoints.
type errorResponse struct {
	Error string `json:"error"`
}

// successResponse acknowledges a mutation. Redirect is only set by login.
type successResponse struct {
	Success  bool   `json:"success"`
	Redirect string `json:"redirect,omitempty"`
}

// writeJSON sends a JSON response with the given status code.
//
// HEADER ORDER MATTERS:
// Headers and status code MUST be set before writing the body. Once Encode
// writes the first byte, the headers are on the wire and any later change
// is silently ignored.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent — we can only log it.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeSuccess sends {"success": true}.
func writeSuccess(w http.ResponseWriter, status int) {
	writeJSON(w, status, successResponse{Success: true})
}

// writeError maps a domain error to the appropriate HTTP status code and sends it.
//
// ERROR MAPPING:
// The service layer returns apperror values; this is the single place they
// become HTTP statuses. errors.Is() walks the wrapped chain (via Unwrap),
// so a service error like fmt.Errorf("creating task: %w", ValidationFailed(...))
// still matches ErrValidation.
//
// Unknown errors become a generic 500. NEVER expose internal error details
// to the client — raw messages can contain SQL fragments or file paths.
// The handler has already logged the real error server-side.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
		}

		writeJSON(w, status, errorResponse{Error: appErr.Message})
		return
	}

	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Error: "an internal error occurred",
	})
}
