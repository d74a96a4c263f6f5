// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/danielhkuo/petition-desk/auth"
	"github.com/danielhkuo/petition-desk/cliparse"
	"github.com/danielhkuo/petition-desk/images"
	"github.com/danielhkuo/petition-desk/metrics"
	"github.com/danielhkuo/petition-desk/middleware"
	"github.com/danielhkuo/petition-desk/testutil"
)

func newTestRouter(t *testing.T, sink images.Sink, cfg cliparse.Config, limit *middleware.RateLimit) http.Handler {
	t.Helper()

	clock := testutil.NewClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}
	return NewRouter(Deps{
		Store:      testutil.SetupTestStore(t, clock),
		Sessions:   auth.NewSessions(testutil.AppSecret, cfg.SessionTTL, false).WithClock(clock.Now),
		Images:     sink,
		Metrics:    m,
		LoginLimit: limit,
	}, cfg)
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRootEndpoint(t *testing.T) {
	mux := newTestRouter(t, images.InlineSink{}, testutil.GetTestConfig(), nil)

	w := serve(mux, httptest.NewRequest("GET", "/", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "petition-desk API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}

	w = serve(mux, httptest.NewRequest("GET", "/nothing-here", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown path, got %d", w.Code)
	}
}

func TestRouteExistence(t *testing.T) {
	mux := newTestRouter(t, images.InlineSink{}, testutil.GetTestConfig(), nil)

	// Routes must be matched; 400, 401, 403 and 404 are handler answers
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/api/ping"},
		{"POST", "/api/login"},
		{"POST", "/api/logout"},
		{"GET", "/api/me"},

		{"POST", "/api/petitions"},
		{"GET", "/api/track/SKN-2024-000001"},

		{"GET", "/api/admin/petitions"},
		{"GET", "/api/admin/petitions/SKN-2024-000001"},
		{"PATCH", "/api/admin/petitions/SKN-2024-000001/status"},
		{"PATCH", "/api/admin/petitions/SKN-2024-000001/after-images"},
		{"DELETE", "/api/admin/petitions/SKN-2024-000001"},

		{"GET", "/api/admin/users"},
		{"POST", "/api/admin/users"},
		{"PATCH", "/api/admin/users/officer1"},
		{"DELETE", "/api/admin/users/officer1"},

		{"GET", "/metrics"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := serve(mux, httptest.NewRequest(tc.method, tc.path, nil))
			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s returned 405, expected route handler to exist", tc.method, tc.path)
			}
			if w.Code == http.StatusNotFound && !strings.Contains(w.Body.String(), `"not_found"`) {
				t.Errorf("Route %s %s was not matched", tc.method, tc.path)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux := newTestRouter(t, images.InlineSink{}, testutil.GetTestConfig(), nil)

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/api/ping"},
		{"GET", "/api/login"},
		{"PUT", "/api/admin/petitions/SKN-2024-000001/status"},
		{"POST", "/api/track/SKN-2024-000001"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := serve(mux, httptest.NewRequest(tc.method, tc.path, nil))
			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405 for %s %s, got %d", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestAccessControl(t *testing.T) {
	mux := newTestRouter(t, images.InlineSink{}, testutil.GetTestConfig(), nil)
	expires := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		path     string
		username string
		expected int
	}{
		{"anonymous petitions", "/api/admin/petitions", "", http.StatusUnauthorized},
		{"officer petitions", "/api/admin/petitions", testutil.OfficerUsername, http.StatusOK},
		{"anonymous users", "/api/admin/users", "", http.StatusUnauthorized},
		{"officer users", "/api/admin/users", testutil.OfficerUsername, http.StatusForbidden},
		{"super users", "/api/admin/users", testutil.SuperUsername, http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.path, nil)
			if tc.username != "" {
				req.AddCookie(testutil.SessionCookie(t, tc.username, expires))
			}
			w := serve(mux, req)
			if w.Code != tc.expected {
				t.Errorf("Expected %d, got %d. Body: %s", tc.expected, w.Code, w.Body.String())
			}
		})
	}
}

func TestNoCacheHeader(t *testing.T) {
	mux := newTestRouter(t, images.InlineSink{}, testutil.GetTestConfig(), nil)

	w := serve(mux, httptest.NewRequest("GET", "/api/me", nil))
	if got := w.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Expected Cache-Control no-store on /api/, got %q", got)
	}

	w = serve(mux, httptest.NewRequest("GET", "/", nil))
	if got := w.Header().Get("Cache-Control"); got != "" {
		t.Errorf("Expected no Cache-Control outside /api/, got %q", got)
	}
}

func TestBodyLimit(t *testing.T) {
	cfg := testutil.GetTestConfig()
	mux := newTestRouter(t, images.InlineSink{}, cfg, nil)

	body := `{"village":"Ban A","topic":"Road","detail":"` + strings.Repeat("x", int(cfg.MaxBodyBytes())) + `","lat":"1","lng":"2"}`
	req := httptest.NewRequest("POST", "/api/petitions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := serve(mux, req)

	testutil.AssertError(t, w, http.StatusRequestEntityTooLarge, "payload_too_large")
}

func TestMetricsEndpoint(t *testing.T) {
	mux := newTestRouter(t, images.InlineSink{}, testutil.GetTestConfig(), nil)

	serve(mux, httptest.NewRequest("GET", "/api/track/SKN-2024-000001", nil))

	w := serve(mux, httptest.NewRequest("GET", "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 from /metrics, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		"petitiondesk_requests_total",
		`route="GET /api/track/{code}"`,
		`status="404"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected metrics output to contain %s", want)
		}
	}
}

func TestMetricsDisabled(t *testing.T) {
	cfg := testutil.GetTestConfig()
	cfg.MetricsEnabled = false
	mux := newTestRouter(t, images.InlineSink{}, cfg, nil)

	w := serve(mux, httptest.NewRequest("GET", "/metrics", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 with metrics disabled, got %d", w.Code)
	}

	// Handlers still run with a nil collector
	w = serve(mux, httptest.NewRequest("GET", "/api/ping", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 from /api/ping, got %d", w.Code)
	}
}

func TestUploadsServedFromDisk(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/srv/uploads/petitions/SKN-2024-000001/before-1-0.png", []byte("\x89PNG\r\n\x1a\n"), 0o644); err != nil {
		t.Fatalf("Failed to seed upload: %v", err)
	}
	cfg := testutil.GetTestConfig()
	cfg.ImageStorage = images.ModeDisk
	mux := newTestRouter(t, images.NewDiskSink(fs, "/srv/uploads", "/uploads/"), cfg, nil)

	w := serve(mux, httptest.NewRequest("GET", "/uploads/petitions/SKN-2024-000001/before-1-0.png", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if got := w.Header().Get("Content-Type"); got != "image/png" {
		t.Errorf("Expected image/png, got %q", got)
	}

	w = serve(mux, httptest.NewRequest("GET", "/uploads/petitions/", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected directory listing to be refused, got %d", w.Code)
	}
}

func TestUploadsNotMountedInline(t *testing.T) {
	mux := newTestRouter(t, images.InlineSink{}, testutil.GetTestConfig(), nil)

	w := serve(mux, httptest.NewRequest("GET", "/uploads/anything.png", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 without disk storage, got %d", w.Code)
	}
}

func TestLoginRateLimit(t *testing.T) {
	limit, err := middleware.NewRateLimit("2-M", false)
	if err != nil {
		t.Fatalf("Failed to build rate limit: %v", err)
	}
	mux := newTestRouter(t, images.InlineSink{}, testutil.GetTestConfig(), limit)

	login := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/api/login", strings.NewReader(`{"username":"x","password":"y"}`))
		req.Header.Set("Content-Type", "application/json")
		return serve(mux, req)
	}

	for i := 0; i < 2; i++ {
		if w := login(); w.Code != http.StatusUnauthorized {
			t.Fatalf("Attempt %d: expected 401, got %d", i+1, w.Code)
		}
	}
	testutil.AssertError(t, login(), http.StatusTooManyRequests, "too_many_requests")
}

func TestLoginRateLimit_IgnoresSpoofedForwardedFor(t *testing.T) {
	cfg := testutil.GetTestConfig()
	limit, err := middleware.NewRateLimit("2-M", cfg.TrustProxy)
	if err != nil {
		t.Fatalf("Failed to build rate limit: %v", err)
	}
	mux := newTestRouter(t, images.InlineSink{}, cfg, limit)

	throttled := 0
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest("POST", "/api/login",
			strings.NewReader(`{"username":"`+testutil.SuperUsername+`","password":"guess"}`))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "198.51.100.7:40000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i+1))
		req.Header.Set("X-Real-IP", fmt.Sprintf("10.0.1.%d", i+1))
		if w := serve(mux, req); w.Code == http.StatusTooManyRequests {
			throttled++
		}
	}

	if throttled != 18 {
		t.Errorf("Expected 18 of 20 attempts throttled from one peer, got %d", throttled)
	}
}

func TestCORS(t *testing.T) {
	cfg := testutil.GetTestConfig()
	cfg.CORSOrigins = []string{"https://desk.example.org"}
	mux := newTestRouter(t, images.InlineSink{}, cfg, nil)

	req := httptest.NewRequest("GET", "/api/me", nil)
	req.Header.Set("Origin", "https://desk.example.org")
	w := serve(mux, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://desk.example.org" {
		t.Errorf("Expected allowed origin echoed, got %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("Expected credentials allowed, got %q", got)
	}

	req = httptest.NewRequest("GET", "/api/me", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = serve(mux, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Expected no CORS header for unknown origin, got %q", got)
	}
}
