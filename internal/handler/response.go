package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/food-gallery/internal/apperror"
)

// ErrorResponse is the standard error format returned by all API endpoints.
// Every handler answers through writeJSON or writeError, so every error
// response has the same shape:
//
//	{"error": "not_found", "message": "post not found with id abc123"}
//	{"error": "validation_error", "message": "title is required", "field": "title"}
//
// The frontend can always parse errors the same way, whatever the status.
type ErrorResponse struct {
	Error   string `json:"error"`           // Machine-readable error type (e.g., "not_found")
	Message string `json:"message"`         // Human-readable description
	Field   string `json:"field,omitempty"` // Input field at fault, when there is one
}

// writeJSON sends a JSON response with the given status code.
//
// HEADER ORDER MATTERS:
// Headers and status must be set before the body is written; once Encode
// writes the first byte, later header changes are silently ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// errorMapping is checked in order; the first sentinel found in the chain wins.
var errorMapping = []struct {
	target error
	status int
	code   string
}{
	{apperror.ErrAuthentication, http.StatusBadRequest, "authentication_failed"},
	{apperror.ErrValidation, http.StatusBadRequest, "validation_error"},
	{apperror.ErrMediaProcessing, http.StatusBadRequest, "media_processing_error"},
	{apperror.ErrNotFound, http.StatusNotFound, "not_found"},
	{apperror.ErrWriteTimeout, http.StatusGatewayTimeout, "write_timeout"},
	{apperror.ErrWriteFailed, http.StatusBadGateway, "write_failed"},
}

// writeError maps a domain error to its HTTP status and sends it.
//
// The service layer never knows about status codes; this is the one place
// where apperror sentinels become 400/404/502/504. errors.Is walks the
// whole chain, so a sentinel wrapped by fmt.Errorf("...: %w") still matches.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		for _, m := range errorMapping {
			if errors.Is(err, m.target) {
				writeJSON(w, m.status, ErrorResponse{
					Error:   m.code,
					Message: appErr.Message,
					Field:   appErr.Field,
				})
				return
			}
		}
	}

	// Unknown error: never expose internals (paths, queries) to the client.
	slog.Error("unhandled error", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

// decodeJSON reads a single JSON value from the body into v.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperror.ValidationFailed("body", "invalid JSON body")
	}
	return nil
}
