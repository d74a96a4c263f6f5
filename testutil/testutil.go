// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/petition-desk/auth"
	"github.com/danielhkuo/petition-desk/cliparse"
	"github.com/danielhkuo/petition-desk/db"
	"github.com/danielhkuo/petition-desk/models"
	"github.com/danielhkuo/petition-desk/store"
)

// Test credentials seeded by SetupTestStore
const (
	SuperUsername   = "superadmin"
	SuperPassword   = "super-pass"
	OfficerUsername = "officer1"
	OfficerPassword = "officer-pass"
	OfficerName     = "Officer One"
	AppSecret       = "test-app-secret"
)

// Clock is a settable time source for stores and sessions.
type Clock struct {
	t time.Time
}

func NewClock(t time.Time) *Clock {
	return &Clock{t: t}
}

func (c *Clock) Now() time.Time          { return c.t }
func (c *Clock) Set(t time.Time)         { c.t = t }
func (c *Clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// SetupTestStore creates a fresh sqlite database in a temp dir with the full
// schema, the super admin and one officer. Timeline times are rendered in UTC.
func SetupTestStore(t *testing.T, clock *Clock) *store.Store {
	t.Helper()

	ctx := context.Background()
	conn, err := db.Open(ctx, db.SQLite, filepath.Join(t.TempDir(), "petitions.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	s := store.New(conn, db.SQLite, time.UTC)
	if clock != nil {
		s.WithClock(clock.Now)
	}
	if err := s.Setup(ctx); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	CreateTestUser(t, s, SuperUsername, SuperPassword, "Super Admin")
	CreateTestUser(t, s, OfficerUsername, OfficerPassword, OfficerName)
	return s
}

// CreateTestUser inserts an officer account with a bcrypt hash.
func CreateTestUser(t *testing.T, s *store.Store, username, password, name string) {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	if err := s.CreateUser(context.Background(), username, hash, name); err != nil {
		t.Fatalf("Failed to create test user %s: %v", username, err)
	}
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           3000,
		DatabaseURL:    "petitions.db",
		DatabaseType:   string(db.SQLite),
		AppSecret:      AppSecret,
		SuperUsername:  SuperUsername,
		SuperPassword:  SuperPassword,
		SuperName:      "Super Admin",
		SessionTTL:     6 * time.Hour,
		LoginRate:      "1000-M",
		TimeZone:       "UTC",
		MaxBodyMB:      1,
		ImageStorage:   "inline",
		UploadBaseURL:  "/uploads/",
		LogLevel:       "error",
		MetricsEnabled: true,
	}
}

// CreateTestPetition submits a petition through the store and returns its code
func CreateTestPetition(t *testing.T, s *store.Store) string {
	t.Helper()

	code, err := s.CreatePetition(context.Background(), models.NewPetition{
		Village: "Ban A",
		Topic:   "Road",
		Detail:  "Pothole",
		Lat:     "17.1",
		Lng:     "104.1",
	})
	if err != nil {
		t.Fatalf("Failed to create test petition: %v", err)
	}
	return code
}

// SessionCookie mints a valid session cookie for username, signed with
// AppSecret.
func SessionCookie(t *testing.T, username string, expiresAt time.Time) *http.Cookie {
	t.Helper()

	token, err := auth.EncodeSession(auth.Session{
		Username:    username,
		DisplayName: username,
		IsOfficer:   true,
		IsSuper:     username == SuperUsername,
		ExpiresAt:   expiresAt,
	}, AppSecret)
	if err != nil {
		t.Fatalf("Failed to encode session: %v", err)
	}
	return &http.Cookie{Name: auth.CookieName, Value: token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		var jsonBody []byte
		switch b := body.(type) {
		case string:
			jsonBody = []byte(b)
		case []byte:
			jsonBody = b
		default:
			jsonBody, _ = json.Marshal(body)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// AssertError checks the status and error code of an error envelope
func AssertError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	AssertStatus(t, w, status)
	var resp models.ErrorResponse
	AssertJSON(t, w, &resp)
	if resp.OK || resp.Error != code {
		t.Errorf("Expected error %q, got %+v", code, resp)
	}
}
