package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const localIssuer = "food-gallery"

// LocalVerifier issues and verifies HS256 tokens with a shared secret.
//
// Production tokens come from Firebase. For running the server on a laptop
// (or in tests) with no cloud project, LocalVerifier plays the provider's
// role: `food-gallery token` mints a token with Issue, and the server
// verifies it with the same secret.
//
// JWT STRUCTURE (three base64-encoded parts separated by dots):
//
//	HEADER.PAYLOAD.SIGNATURE
//	- Header: {"alg":"HS256","typ":"JWT"}
//	- Payload: {"sub":"...","email":"...","name":"...","exp":...}
//	- Signature: HMAC-SHA256(header+"."+payload, secret)
type LocalVerifier struct {
	secret []byte
	now    func() time.Time
}

// NewLocalVerifier rejects secrets shorter than 16 characters.
// Example: LOCAL_TOKEN_SECRET=$(openssl rand -hex 32)
func NewLocalVerifier(secret string) (*LocalVerifier, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: local token secret must be at least 16 characters")
	}
	return &LocalVerifier{secret: []byte(secret), now: time.Now}, nil
}

// localClaims mirrors the claim names Firebase puts in its ID tokens, so a
// local token looks like the real thing to everything downstream.
type localClaims struct {
	jwt.RegisteredClaims
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// Issue signs a token for id that expires after ttl.
// id.ExpiresAt is ignored.
func (v *LocalVerifier) Issue(id Identity, ttl time.Duration) (string, error) {
	if id.Subject == "" {
		return "", errors.New("auth: identity has no subject")
	}

	now := v.now()
	c := localClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    localIssuer,
		},
		Email:   id.Email,
		Name:    id.DisplayName,
		Picture: id.AvatarURL,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, the issuer and the expiry.
//
// ALGORITHM CONFUSION ATTACK:
// Without pinning the algorithm, a token with "alg":"none" (or an RSA
// public key used as an HMAC secret) could pass. jwt.WithValidMethods
// rejects anything that is not HS256.
func (v *LocalVerifier) Verify(_ context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, verificationFailed(errEmptyToken)
	}

	parsed, err := jwt.ParseWithClaims(
		token,
		&localClaims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return v.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(localIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return nil, verificationFailed(err)
	}

	c, ok := parsed.Claims.(*localClaims)
	if !ok || !parsed.Valid {
		return nil, verificationFailed(errors.New("invalid token claims"))
	}
	if c.Subject == "" {
		return nil, verificationFailed(errors.New("token has no subject"))
	}

	return &Identity{
		Subject:     c.Subject,
		Email:       c.Email,
		DisplayName: c.Name,
		AvatarURL:   c.Picture,
		ExpiresAt:   c.ExpiresAt.Time,
	}, nil
}
