// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/petition-desk/auth"
	"github.com/danielhkuo/petition-desk/cliparse"
	"github.com/danielhkuo/petition-desk/handlers"
	"github.com/danielhkuo/petition-desk/images"
	"github.com/danielhkuo/petition-desk/metrics"
	"github.com/danielhkuo/petition-desk/middleware"
	"github.com/danielhkuo/petition-desk/store"
)

// Deps are the collaborators the routes are bound to.
type Deps struct {
	Store    *store.Store
	Sessions *auth.Sessions
	Images   images.Sink
	Metrics  *metrics.Metrics
	// LoginLimit may be nil to disable login throttling.
	LoginLimit *middleware.RateLimit
}

func NewRouter(deps Deps, cfg cliparse.Config) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	pingHandler := handlers.NewPingHandler(deps.Store, cfg)
	authHandler := handlers.NewAuthHandler(deps.Store, deps.Sessions, deps.Metrics, cfg)
	petitionHandler := handlers.NewPetitionHandler(deps.Store, images.NewIngestor(deps.Images), deps.Metrics)
	userHandler := handlers.NewUserHandler(deps.Store, cfg)
	gate := middleware.NewGate(deps.Sessions, cfg.SuperUsername)

	mux.HandleFunc("GET /api/ping", middleware.WithLogging(pingHandler.Ping))

	// Session
	mux.HandleFunc("POST /api/login", middleware.WithLogging(deps.LoginLimit.Limit(authHandler.Login)))
	mux.HandleFunc("POST /api/logout", middleware.WithLogging(authHandler.Logout))
	mux.HandleFunc("GET /api/me", middleware.WithLogging(authHandler.Me))

	// Citizen operations (public)
	mux.HandleFunc("POST /api/petitions", middleware.WithLogging(petitionHandler.Create))
	mux.HandleFunc("GET /api/track/{code}", middleware.WithLogging(petitionHandler.Track))

	// Officer operations
	mux.HandleFunc("GET /api/admin/petitions", middleware.WithLogging(gate.RequireOfficer(petitionHandler.List)))
	mux.HandleFunc("GET /api/admin/petitions/{code}", middleware.WithLogging(gate.RequireOfficer(petitionHandler.Get)))
	mux.HandleFunc("PATCH /api/admin/petitions/{code}/status", middleware.WithLogging(gate.RequireOfficer(petitionHandler.UpdateStatus)))
	mux.HandleFunc("PATCH /api/admin/petitions/{code}/after-images", middleware.WithLogging(gate.RequireOfficer(petitionHandler.AddAfterImages)))
	mux.HandleFunc("DELETE /api/admin/petitions/{code}", middleware.WithLogging(gate.RequireOfficer(petitionHandler.Delete)))

	// Account management (super admin only)
	mux.HandleFunc("GET /api/admin/users", middleware.WithLogging(gate.RequireSuperAdmin(userHandler.List)))
	mux.HandleFunc("POST /api/admin/users", middleware.WithLogging(gate.RequireSuperAdmin(userHandler.Create)))
	mux.HandleFunc("PATCH /api/admin/users/{username}", middleware.WithLogging(gate.RequireSuperAdmin(userHandler.Update)))
	mux.HandleFunc("DELETE /api/admin/users/{username}", middleware.WithLogging(gate.RequireSuperAdmin(userHandler.Delete)))

	if cfg.MetricsEnabled && deps.Metrics != nil {
		mux.Handle("GET /metrics", deps.Metrics.Handler())
	}
	if disk, ok := deps.Images.(*images.DiskSink); ok {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", disk.FileServer()))
	}

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("petition-desk API v1"))
	})

	var h http.Handler = mux
	h = deps.Metrics.Middleware(h)
	h = middleware.LimitBody(cfg.MaxBodyBytes())(h)
	h = middleware.NoCache(h)
	h = middleware.CORS(cfg.CORSOrigins)(h)
	h = middleware.Recover(h)
	return h
}
