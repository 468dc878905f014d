package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// newTestLocalVerifier uses a fixed, known secret so tests are deterministic.
func newTestLocalVerifier(t *testing.T) *LocalVerifier {
	t.Helper()
	v, err := NewLocalVerifier("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewLocalVerifier: %v", err)
	}
	return v
}

func testIdentity() Identity {
	return Identity{
		Subject:     "uid-123",
		Email:       "chef@example.com",
		DisplayName: "Chef",
		AvatarURL:   "https://example.com/chef.png",
	}
}

// =========================================================================
// CONSTRUCTION
// =========================================================================

func TestNewLocalVerifier_ShortSecret(t *testing.T) {
	if _, err := NewLocalVerifier("short"); err == nil {
		t.Fatal("NewLocalVerifier() should reject secrets shorter than 16 chars")
	}
}

func TestNewLocalVerifier_ValidSecret(t *testing.T) {
	if _, err := NewLocalVerifier("this-is-16-chars"); err != nil {
		t.Fatalf("NewLocalVerifier() unexpected error for valid secret: %v", err)
	}
}

// =========================================================================
// ISSUE / VERIFY
// =========================================================================

func TestIssue_LooksLikeJWT(t *testing.T) {
	v := newTestLocalVerifier(t)

	token, err := v.Issue(testIdentity(), time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if got := strings.Count(token, "."); got != 2 {
		t.Errorf("Issue() token has %d dots, want 2", got)
	}
}

func TestIssue_RequiresSubject(t *testing.T) {
	v := newTestLocalVerifier(t)

	if _, err := v.Issue(Identity{Email: "x@example.com"}, time.Hour); err == nil {
		t.Fatal("Issue() should fail without a subject")
	}
}

func TestVerify_RoundTrip(t *testing.T) {
	v := newTestLocalVerifier(t)
	want := testIdentity()

	token, err := v.Issue(want, time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	got, err := v.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if got.Subject != want.Subject || got.Email != want.Email ||
		got.DisplayName != want.DisplayName || got.AvatarURL != want.AvatarURL {
		t.Errorf("Verify() = %+v, want claims of %+v", got, want)
	}
	if got.ExpiresAt.IsZero() {
		t.Error("Verify() did not set ExpiresAt")
	}
}

func TestVerify_Rejects(t *testing.T) {
	v := newTestLocalVerifier(t)
	other, _ := NewLocalVerifier("a-completely-different-secret")

	expired, _ := v.Issue(testIdentity(), -time.Minute)
	foreign, _ := other.Issue(testIdentity(), time.Hour)
	valid, _ := v.Issue(testIdentity(), time.Hour)

	// Same secret, wrong issuer.
	wrongIssuer, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "uid-123",
		Issuer:    "someone-else",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("test-secret-at-least-16-chars!!"))

	// "alg":"none" must never pass.
	unsigned, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "uid-123",
		Issuer:    localIssuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"expired", expired},
		{"signed with another secret", foreign},
		{"wrong issuer", wrongIssuer},
		{"alg none", unsigned},
		{"tampered", valid[:len(valid)-2] + "xx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), tt.token)
			if !errors.Is(err, ErrVerification) {
				t.Errorf("Verify() error = %v, want ErrVerification", err)
			}
		})
	}
}

func TestVerify_UsesInjectedClock(t *testing.T) {
	v := newTestLocalVerifier(t)
	token, _ := v.Issue(testIdentity(), time.Minute)

	v.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	if _, err := v.Verify(context.Background(), token); !errors.Is(err, ErrVerification) {
		t.Errorf("Verify() after expiry error = %v, want ErrVerification", err)
	}
}
