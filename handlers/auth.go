// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/petition-desk/auth"
	"github.com/danielhkuo/petition-desk/cliparse"
	"github.com/danielhkuo/petition-desk/metrics"
	"github.com/danielhkuo/petition-desk/middleware"
	"github.com/danielhkuo/petition-desk/models"
	"github.com/danielhkuo/petition-desk/store"
)

type AuthHandler struct {
	users    UserStore
	sessions *auth.Sessions
	metrics  *metrics.Metrics
	cfg      cliparse.Config
}

func NewAuthHandler(users UserStore, sessions *auth.Sessions, m *metrics.Metrics, cfg cliparse.Config) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions, metrics: m, cfg: cfg}
}

// Login handles POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.BodyError(w, err)
		return
	}
	username := req.Username.Trimmed()
	password := req.Password.Trimmed()

	// Unknown user and wrong password answer identically.
	u, err := h.users.FindUser(r.Context(), username)
	if errors.Is(err, store.ErrNotFound) {
		h.metrics.Login(false)
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.ErrInvalidCredentials, "")
		return
	}
	if err != nil {
		writeStoreError(w, err, "failed to query user")
		return
	}
	if !auth.CheckPassword(password, u.PasswordHash) {
		h.metrics.Login(false)
		slog.Warn("login rejected", "username", username, "remote", middleware.GetClientIP(r))
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.ErrInvalidCredentials, "")
		return
	}

	name := u.Name
	if name == "" {
		name = u.Username
	}
	isSuper := u.Username == h.cfg.SuperUsername

	if _, err := h.sessions.Issue(w, r, u.Username, name, isSuper); err != nil {
		slog.Error("failed to issue session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrServerError, err.Error())
		return
	}
	h.metrics.Login(true)
	slog.Info("officer logged in", "username", u.Username, "super", isSuper)

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		OK:        true,
		IsOfficer: true,
		Username:  u.Username,
		Name:      name,
		IsSuper:   isSuper,
	})
}

// Logout handles POST /api/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w, r)
	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}

// Me handles GET /api/me. It never fails; without a valid session the
// caller is reported as not an officer.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessions.Current(r)
	if !ok {
		middleware.JSONResponse(w, http.StatusOK, models.AnonymousMeResponse{OK: true, IsOfficer: false})
		return
	}

	name := s.DisplayName
	if name == "" {
		name = s.Username
	}
	middleware.JSONResponse(w, http.StatusOK, models.MeResponse{
		OK:        true,
		IsOfficer: s.IsOfficer,
		Username:  s.Username,
		Name:      name,
		IsSuper:   s.IsSuper,
	})
}
