package auth

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =========================================================================
// FIREBASE
// =========================================================================

type fakeFirebaseClient struct {
	token *fbauth.Token
	err   error
}

func (f *fakeFirebaseClient) VerifyIDToken(context.Context, string) (*fbauth.Token, error) {
	return f.token, f.err
}

func TestFirebaseVerifier_MapsClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()
	v := &FirebaseVerifier{client: &fakeFirebaseClient{token: &fbauth.Token{
		UID:     "fb-uid",
		Expires: exp,
		Claims: map[string]any{
			"email":   "a@example.com",
			"name":    "Ann",
			"picture": "https://example.com/ann.png",
		},
	}}}

	id, err := v.Verify(context.Background(), "any")
	require.NoError(t, err)
	assert.Equal(t, &Identity{
		Subject:     "fb-uid",
		Email:       "a@example.com",
		DisplayName: "Ann",
		AvatarURL:   "https://example.com/ann.png",
		ExpiresAt:   time.Unix(exp, 0),
	}, id)
}

func TestFirebaseVerifier_MissingClaimsAreEmpty(t *testing.T) {
	v := &FirebaseVerifier{client: &fakeFirebaseClient{token: &fbauth.Token{UID: "u"}}}

	id, err := v.Verify(context.Background(), "any")
	require.NoError(t, err)
	assert.Empty(t, id.Email)
	assert.Empty(t, id.DisplayName)
}

func TestFirebaseVerifier_Errors(t *testing.T) {
	v := &FirebaseVerifier{client: &fakeFirebaseClient{err: errors.New("ID token has expired")}}

	_, err := v.Verify(context.Background(), "any")
	assert.ErrorIs(t, err, ErrVerification)

	_, err = v.Verify(context.Background(), "")
	assert.ErrorIs(t, err, ErrVerification)
}

// =========================================================================
// GOOGLE (OIDC)
// =========================================================================

const testClientID = "client-123.apps.googleusercontent.com"

type googleTestClaims struct {
	jwt.RegisteredClaims
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// newOfflineGoogleVerifier checks signatures against a local RSA key instead
// of Google's published JWKS, so the test needs no network.
func newOfflineGoogleVerifier(t *testing.T) (*GoogleVerifier, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	keySet := &oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{key.Public()}}
	return newGoogleVerifier(oidc.NewVerifier(googleIssuer, keySet, &oidc.Config{ClientID: testClientID})), key
}

func signGoogleToken(t *testing.T, key *rsa.PrivateKey, aud string, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodRS256, googleTestClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    googleIssuer,
			Subject:   "google-sub-1",
			Audience:  jwt.ClaimStrings{aud},
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Email:   "g@example.com",
		Name:    "Gus",
		Picture: "https://example.com/gus.png",
	}).SignedString(key)
	require.NoError(t, err)
	return tok
}

func TestGoogleVerifier_Valid(t *testing.T) {
	v, key := newOfflineGoogleVerifier(t)
	token := signGoogleToken(t, key, testClientID, time.Now().Add(time.Hour))

	id, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "google-sub-1", id.Subject)
	assert.Equal(t, "g@example.com", id.Email)
	assert.Equal(t, "Gus", id.DisplayName)
	assert.Equal(t, "https://example.com/gus.png", id.AvatarURL)
}

func TestGoogleVerifier_Rejects(t *testing.T) {
	v, key := newOfflineGoogleVerifier(t)
	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"wrong audience", signGoogleToken(t, key, "someone-else", time.Now().Add(time.Hour))},
		{"expired", signGoogleToken(t, key, testClientID, time.Now().Add(-time.Hour))},
		{"unknown key", signGoogleToken(t, otherKey, testClientID, time.Now().Add(time.Hour))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), tt.token)
			assert.ErrorIs(t, err, ErrVerification)
		})
	}
}
