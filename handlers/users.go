// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/petition-desk/auth"
	"github.com/danielhkuo/petition-desk/cliparse"
	"github.com/danielhkuo/petition-desk/middleware"
	"github.com/danielhkuo/petition-desk/models"
)

type UserHandler struct {
	users UserStore
	cfg   cliparse.Config
}

func NewUserHandler(users UserStore, cfg cliparse.Config) *UserHandler {
	return &UserHandler{users: users, cfg: cfg}
}

func (h *UserHandler) reserved(username string) bool {
	return strings.EqualFold(username, h.cfg.SuperUsername)
}

// List handles GET /api/admin/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		writeStoreError(w, err, "failed to list users")
		return
	}
	for i := range users {
		users[i].IsSuper = users[i].Username == h.cfg.SuperUsername
	}
	middleware.JSONResponse(w, http.StatusOK, models.UserListResponse{OK: true, Users: users})
}

// Create handles POST /api/admin/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.BodyError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrMissingFields, "")
		return
	}

	username := req.Username.Trimmed()
	if !models.ValidUsername(username) {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrBadUsername, "")
		return
	}
	if h.reserved(username) {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrReservedUsername, "")
		return
	}

	hash, err := auth.HashPassword(req.Password.Trimmed())
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrServerError, err.Error())
		return
	}
	if err := h.users.CreateUser(r.Context(), username, hash, req.Name.Trimmed()); err != nil {
		writeStoreError(w, err, "failed to create user", "username", username)
		return
	}

	slog.Info("officer account created", "username", username)
	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}

// Update handles PATCH /api/admin/users/{username}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	target := strings.TrimSpace(r.PathValue("username"))

	var req models.UpdateUserRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.BodyError(w, err)
		return
	}

	// Fields that are absent or not strings are left unchanged.
	var name, hash *string
	if n, ok := req.NameValue(); ok {
		n = strings.TrimSpace(n)
		name = &n
	}
	if p, ok := req.PasswordValue(); ok {
		if p = strings.TrimSpace(p); p != "" {
			hashed, err := auth.HashPassword(p)
			if err != nil {
				slog.Error("failed to hash password", "error", err)
				middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrServerError, err.Error())
				return
			}
			hash = &hashed
		}
	}

	if err := h.users.UpdateUser(r.Context(), target, name, hash); err != nil {
		writeStoreError(w, err, "failed to update user", "username", target)
		return
	}

	slog.Info("officer account updated", "username", target, "name_changed", name != nil, "password_changed", hash != nil)
	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}

// Delete handles DELETE /api/admin/users/{username}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	target := strings.TrimSpace(r.PathValue("username"))
	if h.reserved(target) {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrCannotDeleteSuper, "")
		return
	}

	if err := h.users.DeleteUser(r.Context(), target); err != nil {
		writeStoreError(w, err, "failed to delete user", "username", target)
		return
	}

	slog.Info("officer account deleted", "username", target)
	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}
