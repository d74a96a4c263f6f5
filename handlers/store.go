// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/petition-desk/images"
	"github.com/danielhkuo/petition-desk/middleware"
	"github.com/danielhkuo/petition-desk/models"
	"github.com/danielhkuo/petition-desk/store"
)

// PetitionStore is the petition persistence used by PetitionHandler.
type PetitionStore interface {
	CreatePetition(ctx context.Context, p models.NewPetition) (string, error)
	ResolveCode(ctx context.Context, code string) (string, error)
	GetPetition(ctx context.Context, code string) (models.Petition, error)
	ListPetitions(ctx context.Context) ([]models.Petition, error)
	UpdateStatus(ctx context.Context, code, status, note string) (string, error)
	AddImages(ctx context.Context, code, kind string, urls []string) error
	DeletePetition(ctx context.Context, code string) error
}

// UserStore is the officer account persistence used by AuthHandler and
// UserHandler.
type UserStore interface {
	FindUser(ctx context.Context, username string) (store.UserRecord, error)
	ListUsers(ctx context.Context) ([]models.AdminUser, error)
	CreateUser(ctx context.Context, username, passwordHash, name string) error
	UpdateUser(ctx context.Context, username string, name, passwordHash *string) error
	DeleteUser(ctx context.Context, username string) error
}

// ImageIngestor stores submitted data URLs and returns their URLs.
type ImageIngestor interface {
	Ingest(ctx context.Context, code, kind string, items []string) ([]string, error)
}

// writeStoreError maps storage and ingestion errors onto the error
// envelope. Anything unrecognized is logged and reported as server_error
// with the underlying message.
func writeStoreError(w http.ResponseWriter, err error, msg string, args ...any) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, models.ErrNotFound, "")
	case errors.Is(err, store.ErrUsernameExists):
		middleware.ErrorResponse(w, http.StatusConflict, models.ErrUsernameExists, "")
	case errors.Is(err, images.ErrNotConfigured):
		slog.Error(msg, append(args, "error", err)...)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrMissingUploadDir, "")
	default:
		slog.Error(msg, append(args, "error", err)...)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrServerError, err.Error())
	}
}
