package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sakif/food-gallery/internal/apperror"
	"github.com/sakif/food-gallery/internal/auth"
	"github.com/sakif/food-gallery/internal/model"
	"github.com/sakif/food-gallery/internal/repository"
)

// AuthService turns a verified identity token into a stored profile.
//
//	AuthHandler (HTTP) → AuthService → Verifier (token → Identity)
//	                                 ↘ UserRepository (profile)
//
// The server never issues its own session: the token the client sent is
// what it keeps using. "Login" here means "make sure a profile exists".
type AuthService struct {
	users    repository.UserRepository
	verifier auth.Verifier
	logger   *slog.Logger
	now      func() time.Time
}

func NewAuthService(users repository.UserRepository, verifier auth.Verifier, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		verifier: verifier,
		logger:   logger,
		now:      time.Now,
	}
}

// LoginResult echoes the client's own token next to its profile.
type LoginResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// ProfilePatch is the input to MergeProfile.
type ProfilePatch struct {
	UID           string
	Email         string
	DisplayName   string
	PhotoURL      string
	OverwriteName bool // signup and update-profile set the name; login never does
}

// MergeProfile applies in to existing and returns the record to store.
//
// Rules:
//   - existing == nil: a new profile with uid and email from the patch and
//     createdAt = now (RFC 3339, UTC).
//   - displayName changes only when in.OverwriteName is set.
//   - photoURL changes only when in.PhotoURL is non-empty, so an update
//     without a new image keeps the old avatar.
//   - uid, email and createdAt of an existing profile never change.
//
// existing is not modified.
func MergeProfile(existing *model.User, in ProfilePatch, now time.Time) *model.User {
	var out model.User
	if existing != nil {
		out = *existing
	} else {
		out = model.User{
			UID:       in.UID,
			Email:     in.Email,
			CreatedAt: now.UTC().Format(time.RFC3339),
		}
	}

	if in.OverwriteName {
		out.DisplayName = in.DisplayName
	}
	if in.PhotoURL != "" {
		out.PhotoURL = in.PhotoURL
	}
	return &out
}

// Signup creates the profile if needed and always sets the display name.
func (s *AuthService) Signup(ctx context.Context, idToken, displayName, profileImage string) (*model.User, error) {
	id, err := s.verify(ctx, idToken)
	if err != nil {
		return nil, err
	}

	existing, err := s.lookup(ctx, id.Subject)
	if err != nil {
		return nil, err
	}

	user := MergeProfile(existing, ProfilePatch{
		UID:           id.Subject,
		Email:         id.Email,
		DisplayName:   displayName,
		PhotoURL:      profileImage,
		OverwriteName: true,
	}, s.now())

	if err := s.save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user signed up",
		slog.String("uid", user.UID),
		slog.Bool("new", existing == nil),
		slog.Bool("avatar", profileImage != ""),
	)
	return user, nil
}

// Login returns the stored profile, creating it from the token's claims on
// first sight. An existing profile is returned as is, with no write.
func (s *AuthService) Login(ctx context.Context, idToken string) (*LoginResult, error) {
	id, err := s.verify(ctx, idToken)
	if err != nil {
		return nil, err
	}

	user, err := s.lookup(ctx, id.Subject)
	if err != nil {
		return nil, err
	}

	if user == nil {
		user = MergeProfile(nil, ProfilePatch{
			UID:           id.Subject,
			Email:         id.Email,
			DisplayName:   id.DisplayName,
			PhotoURL:      id.AvatarURL,
			OverwriteName: true,
		}, s.now())

		if err := s.save(ctx, user); err != nil {
			return nil, err
		}
		s.logger.Info("user created on first login", slog.String("uid", user.UID))
	}

	s.logger.Info("user logged in", slog.String("uid", user.UID))
	return &LoginResult{Token: idToken, User: user}, nil
}

// UpdateProfile changes the name (always) and avatar (when given) of an
// existing profile. An unknown subject is apperror.ErrNotFound and nothing
// is written.
func (s *AuthService) UpdateProfile(ctx context.Context, idToken, displayName, profileImage string) (*model.User, error) {
	id, err := s.verify(ctx, idToken)
	if err != nil {
		return nil, err
	}

	existing, err := s.lookup(ctx, id.Subject)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperror.NotFound("user", id.Subject)
	}

	user := MergeProfile(existing, ProfilePatch{
		DisplayName:   displayName,
		PhotoURL:      profileImage,
		OverwriteName: true,
	}, s.now())

	if err := s.save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("profile updated", slog.String("uid", user.UID))
	return user, nil
}

// verify maps every verifier failure to the one client-facing auth error.
// The token itself is never logged.
func (s *AuthService) verify(ctx context.Context, idToken string) (*auth.Identity, error) {
	id, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		s.logger.Warn("token verification failed", slog.String("error", err.Error()))
		return nil, apperror.AuthenticationFailed(err)
	}
	return id, nil
}

// lookup returns (nil, nil) when the profile does not exist.
func (s *AuthService) lookup(ctx context.Context, uid string) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, uid)
	if err == nil {
		return user, nil
	}
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, nil
	}

	s.logger.Error("failed to load user", slog.String("uid", uid), slog.String("error", err.Error()))
	return nil, fmt.Errorf("service/auth: loading user %s: %w", uid, err)
}

func (s *AuthService) save(ctx context.Context, user *model.User) error {
	if err := s.users.Save(ctx, user); err != nil {
		s.logger.Error("failed to save user", slog.String("uid", user.UID), slog.String("error", err.Error()))
		return fmt.Errorf("service/auth: saving user %s: %w", user.UID, apperror.WriteFailed("user", err))
	}
	return nil
}
