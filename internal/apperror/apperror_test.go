package apperror

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// TABLE-DRIVEN TESTS:
// One slice of cases, one loop. Each case shows up by name in `go test -v`.

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("post", "abc123"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("title", "title is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "AuthenticationFailed wraps ErrAuthentication",
			err:       AuthenticationFailed(errors.New("bad signature")),
			target:    ErrAuthentication,
			wantMatch: true,
		},
		{
			name:      "WriteTimeout wraps ErrWriteTimeout",
			err:       WriteTimeout("post", context.DeadlineExceeded),
			target:    ErrWriteTimeout,
			wantMatch: true,
		},
		{
			name:      "WriteTimeout also matches its cause",
			err:       WriteTimeout("post", context.DeadlineExceeded),
			target:    context.DeadlineExceeded,
			wantMatch: true,
		},
		{
			name:      "wrapped WriteFailed still matches",
			err:       fmt.Errorf("creating post: %w", WriteFailed("post", errors.New("boom"))),
			target:    ErrWriteFailed,
			wantMatch: true,
		},
		{
			name:      "MediaProcessingFailed wraps ErrMediaProcessing",
			err:       MediaProcessingFailed("cake.png", errors.New("read error")),
			target:    ErrMediaProcessing,
			wantMatch: true,
		},
		{
			name:      "NotFound does NOT match ErrValidation",
			err:       NotFound("post", "abc123"),
			target:    ErrValidation,
			wantMatch: false,
		},
		{
			name:      "WriteFailed does NOT match ErrWriteTimeout",
			err:       WriteFailed("post", errors.New("boom")),
			target:    ErrWriteTimeout,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{
			name:        "NotFound message includes resource and id",
			err:         NotFound("post", "abc123"),
			wantMessage: "post not found with id abc123",
		},
		{
			name:        "ValidationFailed uses custom message",
			err:         ValidationFailed("title", "title is required"),
			wantMessage: "title is required",
		},
		{
			name:        "AuthenticationFailed hides the cause",
			err:         AuthenticationFailed(errors.New("crypto/rsa: verification error")),
			wantMessage: "invalid or expired token",
		},
		{
			name:        "MediaProcessingFailed names the file",
			err:         MediaProcessingFailed("cake.png", errors.New("eof")),
			wantMessage: "failed to process media file cake.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

func TestValidationFailedField(t *testing.T) {
	err := ValidationFailed("description", "description is required")

	if err.Field != "description" {
		t.Errorf("Field = %q, want %q", err.Field, "description")
	}
}

func TestErrorsAs(t *testing.T) {
	wrapped := fmt.Errorf("service/post: %w", NotFound("post", "p1"))

	var appErr *AppError
	if !errors.As(wrapped, &appErr) {
		t.Fatal("errors.As() should find the *AppError in the chain")
	}
	if appErr.Message != "post not found with id p1" {
		t.Errorf("Message = %q", appErr.Message)
	}
}
