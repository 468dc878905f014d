// Package auth verifies identity tokens issued by an external provider.
//
// HOW IDENTITY WORKS HERE:
// The server never sees a password. The client signs in with the identity
// provider (Firebase Auth in production), receives a signed ID token, and
// sends that token in the request body. A Verifier checks the signature and
// expiry and returns the claims we care about.
//
// IMPLEMENTATIONS:
//   - FirebaseVerifier: Firebase Auth ID tokens (production default)
//   - GoogleVerifier:   raw Google Sign-In ID tokens via OpenID Connect
//   - LocalVerifier:    HS256 tokens minted by this binary, for development
//   - CachingVerifier:  wraps any of the above with an in-process cache
package auth

import (
	"context"
	"errors"
	"time"
)

// ErrVerification is wrapped by every verifier failure: malformed, expired,
// bad signature, wrong audience or an empty token. Callers only ever need
// errors.Is(err, ErrVerification).
var ErrVerification = errors.New("auth: token verification failed")

// Identity is the subset of token claims the application uses.
type Identity struct {
	Subject     string
	Email       string
	DisplayName string
	AvatarURL   string
	ExpiresAt   time.Time
}

type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// verificationError wraps cause so that both ErrVerification and the
// underlying library error stay reachable through errors.Is.
type verificationError struct {
	cause error
}

func (e *verificationError) Error() string {
	if e.cause == nil {
		return ErrVerification.Error()
	}
	return ErrVerification.Error() + ": " + e.cause.Error()
}

func (e *verificationError) Unwrap() []error {
	if e.cause == nil {
		return []error{ErrVerification}
	}
	return []error{ErrVerification, e.cause}
}

func verificationFailed(cause error) error {
	return &verificationError{cause: cause}
}

var errEmptyToken = errors.New("empty token")

// stringClaim reads a string claim from a generic claim map.
func stringClaim(claims map[string]any, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
