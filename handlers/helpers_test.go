// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/petition-desk/auth"
	"github.com/danielhkuo/petition-desk/cliparse"
	"github.com/danielhkuo/petition-desk/images"
	"github.com/danielhkuo/petition-desk/metrics"
	"github.com/danielhkuo/petition-desk/middleware"
	"github.com/danielhkuo/petition-desk/store"
	"github.com/danielhkuo/petition-desk/testutil"
)

var testStart = time.Date(2024, 3, 1, 9, 30, 15, 0, time.UTC)

// testEnv wires handlers onto a mux the same way the router does, minus the
// outer middleware.
type testEnv struct {
	store    *store.Store
	clock    *testutil.Clock
	sessions *auth.Sessions
	metrics  *metrics.Metrics
	cfg      cliparse.Config
	mux      *http.ServeMux
}

func newTestEnv(t *testing.T, sink images.Sink) *testEnv {
	t.Helper()

	clock := testutil.NewClock(testStart)
	env := &testEnv{
		store:   testutil.SetupTestStore(t, clock),
		clock:   clock,
		metrics: metrics.New(),
		cfg:     testutil.GetTestConfig(),
		mux:     http.NewServeMux(),
	}
	env.sessions = auth.NewSessions(testutil.AppSecret, env.cfg.SessionTTL, false).WithClock(clock.Now)

	authH := NewAuthHandler(env.store, env.sessions, env.metrics, env.cfg)
	petitions := NewPetitionHandler(env.store, images.NewIngestor(sink).WithClock(clock.Now), env.metrics)
	users := NewUserHandler(env.store, env.cfg)
	gate := middleware.NewGate(env.sessions, env.cfg.SuperUsername)

	env.mux.HandleFunc("POST /api/login", authH.Login)
	env.mux.HandleFunc("POST /api/logout", authH.Logout)
	env.mux.HandleFunc("GET /api/me", authH.Me)
	env.mux.HandleFunc("POST /api/petitions", petitions.Create)
	env.mux.HandleFunc("GET /api/track/{code}", petitions.Track)
	env.mux.HandleFunc("GET /api/admin/petitions", gate.RequireOfficer(petitions.List))
	env.mux.HandleFunc("GET /api/admin/petitions/{code}", gate.RequireOfficer(petitions.Get))
	env.mux.HandleFunc("PATCH /api/admin/petitions/{code}/status", gate.RequireOfficer(petitions.UpdateStatus))
	env.mux.HandleFunc("PATCH /api/admin/petitions/{code}/after-images", gate.RequireOfficer(petitions.AddAfterImages))
	env.mux.HandleFunc("DELETE /api/admin/petitions/{code}", gate.RequireOfficer(petitions.Delete))
	env.mux.HandleFunc("GET /api/admin/users", gate.RequireSuperAdmin(users.List))
	env.mux.HandleFunc("POST /api/admin/users", gate.RequireSuperAdmin(users.Create))
	env.mux.HandleFunc("PATCH /api/admin/users/{username}", gate.RequireSuperAdmin(users.Update))
	env.mux.HandleFunc("DELETE /api/admin/users/{username}", gate.RequireSuperAdmin(users.Delete))
	return env
}

// do serves a request, optionally as the given officer.
func (e *testEnv) do(t *testing.T, method, path string, body interface{}, asUser string) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.MakeRequest(method, path, body, nil)
	if asUser != "" {
		req.AddCookie(testutil.SessionCookie(t, asUser, e.clock.Now().Add(time.Hour)))
	}
	w := httptest.NewRecorder()
	e.mux.ServeHTTP(w, req)
	return w
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

const pngDataURL = "data:image/png;base64,iVBORw0KGgo="
