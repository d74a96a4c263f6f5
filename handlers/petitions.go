// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/petition-desk/metrics"
	"github.com/danielhkuo/petition-desk/middleware"
	"github.com/danielhkuo/petition-desk/models"
)

type PetitionHandler struct {
	store   PetitionStore
	images  ImageIngestor
	metrics *metrics.Metrics
}

func NewPetitionHandler(s PetitionStore, ingestor ImageIngestor, m *metrics.Metrics) *PetitionHandler {
	return &PetitionHandler{store: s, images: ingestor, metrics: m}
}

// Create handles POST /api/petitions
func (h *PetitionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePetitionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.BodyError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrMissingFields, "")
		return
	}

	code, err := h.store.CreatePetition(r.Context(), req.Petition())
	if err != nil {
		writeStoreError(w, err, "failed to create petition")
		return
	}
	h.metrics.PetitionEvent(metrics.EventCreated)
	slog.Info("petition created", "code", code, "village", req.Village.Trimmed(), "topic", req.Topic.Trimmed())

	// A non-array imagesBefore is treated as no images.
	before, _ := models.ImageList(req.ImagesBefore)
	if err := h.attach(r, code, models.KindBefore, before); err != nil {
		writeStoreError(w, err, "failed to store before images", "code", code)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CreatePetitionResponse{OK: true, Code: code})
}

// Track handles GET /api/track/{code}
func (h *PetitionHandler) Track(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.GetPetition(r.Context(), r.PathValue("code"))
	if err != nil {
		writeStoreError(w, err, "failed to load petition", "code", r.PathValue("code"))
		return
	}
	h.metrics.PetitionEvent(metrics.EventTracked)
	middleware.JSONResponse(w, http.StatusOK, models.PetitionResponse{OK: true, Item: p})
}

// List handles GET /api/admin/petitions
func (h *PetitionHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListPetitions(r.Context())
	if err != nil {
		writeStoreError(w, err, "failed to list petitions")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.PetitionListResponse{OK: true, Items: items})
}

// Get handles GET /api/admin/petitions/{code}
func (h *PetitionHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.GetPetition(r.Context(), r.PathValue("code"))
	if err != nil {
		writeStoreError(w, err, "failed to load petition", "code", r.PathValue("code"))
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.PetitionResponse{OK: true, Item: p})
}

// UpdateStatus handles PATCH /api/admin/petitions/{code}/status
func (h *PetitionHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	var req models.UpdateStatusRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.BodyError(w, err)
		return
	}

	status, err := h.store.UpdateStatus(r.Context(), code, req.Status.Trimmed(), string(req.Note))
	if err != nil {
		writeStoreError(w, err, "failed to update status", "code", code)
		return
	}
	h.metrics.PetitionEvent(metrics.EventStatusUpdated)

	officer, _ := middleware.SessionFrom(r.Context())
	slog.Info("petition status updated", "code", strings.ToUpper(code), "status", status, "officer", officer.Username)

	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}

// AddAfterImages handles PATCH /api/admin/petitions/{code}/after-images
func (h *PetitionHandler) AddAfterImages(w http.ResponseWriter, r *http.Request) {
	var req models.AfterImagesRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.BodyError(w, err)
		return
	}
	after, ok := models.ImageList(req.ImagesAfter)
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrImagesAfterNotArray, "")
		return
	}

	code, err := h.store.ResolveCode(r.Context(), r.PathValue("code"))
	if err != nil {
		writeStoreError(w, err, "failed to load petition", "code", r.PathValue("code"))
		return
	}

	if err := h.attach(r, code, models.KindAfter, after); err != nil {
		writeStoreError(w, err, "failed to store after images", "code", code)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}

// Delete handles DELETE /api/admin/petitions/{code}
func (h *PetitionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if err := h.store.DeletePetition(r.Context(), code); err != nil {
		writeStoreError(w, err, "failed to delete petition", "code", code)
		return
	}
	h.metrics.PetitionEvent(metrics.EventDeleted)

	officer, _ := middleware.SessionFrom(r.Context())
	slog.Info("petition deleted", "code", strings.ToUpper(code), "officer", officer.Username)

	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}

// attach ingests images and records whatever was stored, even when a later
// image failed. After-images are always recorded so updatedAt moves.
func (h *PetitionHandler) attach(r *http.Request, code, kind string, items []string) error {
	if len(items) == 0 && kind == models.KindBefore {
		return nil
	}

	urls, ingestErr := h.images.Ingest(r.Context(), code, kind, items)
	if ingestErr != nil && len(urls) == 0 {
		return ingestErr
	}
	if len(urls) > 0 || kind == models.KindAfter {
		if err := h.store.AddImages(r.Context(), code, kind, urls); err != nil {
			return err
		}
		h.metrics.ImagesStored(kind, len(urls))
		h.metrics.PetitionEvent(metrics.EventImagesAdded)
	}
	return ingestErr
}
