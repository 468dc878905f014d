package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/food-gallery/internal/service"
)

// AuthHandler exposes signup, login and profile updates.
//
// There are no cookies and no server-issued sessions: every request carries
// the provider's ID token in its JSON body and the service verifies it.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// profileRequest is the body of signup and update-profile.
// ProfileImage is optional; an empty string means "keep the current one".
type profileRequest struct {
	IDToken      string `json:"idToken"`
	DisplayName  string `json:"displayName"`
	ProfileImage string `json:"profileImage"`
}

type loginRequest struct {
	IDToken string `json:"idToken"`
}

// HandleSignup creates (or refreshes) the caller's profile.
//
// HTTP: POST /api/auth/signup
// REQUEST BODY: {"idToken": "...", "displayName": "Ann", "profileImage": "data:..."}
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("signup requested", slog.Bool("avatar", req.ProfileImage != ""))

	user, err := h.auth.Signup(r.Context(), req.IDToken, req.DisplayName, req.ProfileImage)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleLogin returns {"token": <the same idToken>, "user": {...}}.
//
// HTTP: POST /api/auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.auth.Login(r.Context(), req.IDToken)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// HandleUpdateProfile changes the caller's display name and, optionally,
// their avatar. 404 when the caller never signed up.
//
// HTTP: PUT /api/auth/update-profile
func (h *AuthHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.auth.UpdateProfile(r.Context(), req.IDToken, req.DisplayName, req.ProfileImage)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
