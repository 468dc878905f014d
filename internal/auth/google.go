package auth

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
)

const googleIssuer = "https://accounts.google.com"

// GoogleVerifier checks Google Sign-In ID tokens issued for one OAuth client.
type GoogleVerifier struct {
	verifier *oidc.IDTokenVerifier
}

type googleClaims struct {
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// NewGoogleVerifier discovers Google's OpenID configuration (one HTTP call)
// and binds the verifier to clientID as the expected audience.
func NewGoogleVerifier(ctx context.Context, clientID string) (*GoogleVerifier, error) {
	p, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, fmt.Errorf("auth: new oidc provider: %w", err)
	}
	return newGoogleVerifier(p.Verifier(&oidc.Config{ClientID: clientID})), nil
}

func newGoogleVerifier(v *oidc.IDTokenVerifier) *GoogleVerifier {
	return &GoogleVerifier{verifier: v}
}

func (g *GoogleVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, verificationFailed(errEmptyToken)
	}

	idTok, err := g.verifier.Verify(ctx, token)
	if err != nil {
		return nil, verificationFailed(err)
	}

	var c googleClaims
	if err := idTok.Claims(&c); err != nil {
		return nil, verificationFailed(fmt.Errorf("read claims: %w", err))
	}

	return &Identity{
		Subject:     idTok.Subject,
		Email:       c.Email,
		DisplayName: c.Name,
		AvatarURL:   c.Picture,
		ExpiresAt:   idTok.Expiry,
	}, nil
}
