// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/petition-desk/cliparse"
	"github.com/danielhkuo/petition-desk/middleware"
	"github.com/danielhkuo/petition-desk/models"
)

// Pinger reports database reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

type PingHandler struct {
	db  Pinger
	cfg cliparse.Config
	now func() time.Time
}

func NewPingHandler(db Pinger, cfg cliparse.Config) *PingHandler {
	return &PingHandler{db: db, cfg: cfg, now: time.Now}
}

// Ping handles GET /api/ping. It always answers 200; hasDatabase reports
// whether the database answered within two seconds.
func (h *PingHandler) Ping(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	hasDB := h.db != nil
	if hasDB {
		if err := h.db.Ping(ctx); err != nil {
			slog.Warn("database ping failed", "error", err)
			hasDB = false
		}
	}

	middleware.JSONResponse(w, http.StatusOK, models.PingResponse{
		OK:           true,
		Time:         h.now().UTC(),
		Database:     string(h.cfg.Dialect()),
		HasDatabase:  hasDB,
		ImageStorage: strings.ToLower(h.cfg.ImageStorage),
		Metrics:      h.cfg.MetricsEnabled,
	})
}
