// Package apperror defines the domain errors shared by every layer.
//
// Services and repositories return these; only the HTTP layer decides
// which status code each one becomes (see handler.writeError).
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation error")
	ErrAuthentication  = errors.New("authentication failed")
	ErrMediaProcessing = errors.New("media processing failed")
	ErrWriteTimeout    = errors.New("write timed out")
	ErrWriteFailed     = errors.New("write failed")
)

type AppError struct {
	Err     error  // sentinel, one of the Err* values above
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
	Cause   error  // Optional: underlying error, kept for logs only
}

func (e *AppError) Error() string {
	return e.Message
}

// Unwrap exposes both the sentinel and the cause, so errors.Is matches
// either one (e.g. ErrWriteTimeout and context.DeadlineExceeded).
func (e *AppError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// AuthenticationFailed is returned for any token that does not verify.
// The cause is never shown to the client.
func AuthenticationFailed(cause error) *AppError {
	return &AppError{
		Err:     ErrAuthentication,
		Message: "invalid or expired token",
		Cause:   cause,
	}
}

// MediaProcessingFailed aborts a whole attachment batch.
func MediaProcessingFailed(filename string, cause error) *AppError {
	return &AppError{
		Err:     ErrMediaProcessing,
		Message: fmt.Sprintf("failed to process media file %s", filename),
		Field:   "media",
		Cause:   cause,
	}
}

func WriteTimeout(resource string, cause error) *AppError {
	return &AppError{
		Err:     ErrWriteTimeout,
		Message: fmt.Sprintf("timed out waiting for %s write acknowledgment", resource),
		Cause:   cause,
	}
}

func WriteFailed(resource string, cause error) *AppError {
	return &AppError{
		Err:     ErrWriteFailed,
		Message: fmt.Sprintf("failed to write %s", resource),
		Cause:   cause,
	}
}
