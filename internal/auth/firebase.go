package auth

import (
	"context"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
)

// idTokenVerifier is the one method of *fbauth.Client this package needs.
type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

var _ idTokenVerifier = (*fbauth.Client)(nil)

// FirebaseVerifier checks Firebase Auth ID tokens.
//
// VerifyIDToken fetches Google's public signing keys (cached by the SDK
// according to their Cache-Control header), checks the signature, the
// audience (project id), the issuer and the expiry.
type FirebaseVerifier struct {
	client idTokenVerifier
}

func NewFirebaseVerifier(client *fbauth.Client) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, verificationFailed(errEmptyToken)
	}

	tok, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, verificationFailed(err)
	}

	return &Identity{
		Subject:     tok.UID,
		Email:       stringClaim(tok.Claims, "email"),
		DisplayName: stringClaim(tok.Claims, "name"),
		AvatarURL:   stringClaim(tok.Claims, "picture"),
		ExpiresAt:   time.Unix(tok.Expires, 0),
	}, nil
}
