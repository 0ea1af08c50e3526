// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"inkpress/internal/apperr"
	"inkpress/internal/middleware"
	"inkpress/internal/models"
	"inkpress/internal/session"
	"inkpress/internal/store"
)

// totpIssuer is the issuer name shown in authenticator apps.
const totpIssuer = "InkPress"

// Auth groups the authentication handlers: password login, the TOTP
// enrollment and verification flow for privileged accounts, and logout.
type Auth struct {
	sessions *session.Store
	users    *store.UserStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions *session.Store, users *store.UserStore) *Auth {
	return &Auth{sessions: sessions, users: users}
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token          string      `json:"token"`
	Needs2FASetup  bool        `json:"needs_2fa_setup"`
	Needs2FAVerify bool        `json:"needs_2fa_verify"`
	User           userProfile `json:"user"`
}

type userProfile struct {
	Email       string      `json:"email"`
	DisplayName string      `json:"display_name"`
	Role        models.Role `json:"role"`
}

// Login checks credentials and opens a session. Privileged accounts get
// a session with 2FA pending: the token works for the TOTP endpoints but
// nothing else until verification completes. Reader accounts skip 2FA.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.FindByEmail(in.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil || !h.users.CheckPassword(user, in.Password) {
		// Same response for unknown email and wrong password.
		writeErrorBody(w, http.StatusUnauthorized, &errorBody{Message: "invalid email or password"})
		return
	}

	privileged := user.Role != models.RoleUser
	token, err := h.sessions.Create(r.Context(), &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
		TwoFADone:   !privileged,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, loginResponse{
		Token:          token,
		Needs2FASetup:  privileged && user.Needs2FASetup(),
		Needs2FAVerify: privileged && !user.Needs2FASetup(),
		User: userProfile{
			Email:       user.Email,
			DisplayName: user.DisplayName,
			Role:        user.Role,
		},
	})
}

// Logout destroys the session behind the presented token.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context(), r); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// TwoFASetup generates a fresh TOTP secret for the authenticated user and
// responds with the enrollment QR code as a PNG. Calling it again before
// verification replaces the pending secret.
func (h *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess.Role == models.RoleUser {
		writeError(w, apperr.Permission("two-factor enrollment"))
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: sess.Email,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.users.SetTOTPSecret(sess.UserID, key.Secret()); err != nil {
		writeError(w, err)
		return
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if _, err := w.Write(qrPNG); err != nil {
		slog.Error("qr write failed", "error", err)
	}
}

type verifyInput struct {
	Code string `json:"code"`
}

// TwoFAVerify checks a TOTP code against the user's secret. On first
// successful verification the enrollment is marked complete; every
// success marks the session 2FA-done so write endpoints open up.
func (h *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var in verifyInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.FindByID(sess.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil || user.TOTPSecret == nil {
		writeError(w, apperr.Validation("code", "two-factor enrollment has not started"))
		return
	}

	if !totp.Validate(in.Code, *user.TOTPSecret) {
		writeErrorBody(w, http.StatusUnauthorized, &errorBody{Message: "invalid code"})
		return
	}

	if !user.TOTPEnabled {
		if err := h.users.EnableTOTP(user.ID); err != nil {
			writeError(w, err)
			return
		}
	}

	sess.TwoFADone = true
	if err := h.sessions.Update(r.Context(), r, sess); err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, map[string]string{"status": "verified"})
}

// Me reports the profile behind the presented token.
func (h *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	writeData(w, http.StatusOK, userProfile{
		Email:       sess.Email,
		DisplayName: sess.DisplayName,
		Role:        sess.Role,
	})
}
