// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// CookieName is the session cookie carried by officer browsers.
const CookieName = "khamin_session"

// Session is the identity carried in the signed cookie. Nothing is stored
// server side; a session is valid while its signature verifies and it has
// not expired.
type Session struct {
	Username    string
	DisplayName string
	IsOfficer   bool
	IsSuper     bool
	ExpiresAt   time.Time
}

type sessionPayload struct {
	U   string `json:"u"`
	N   string `json:"n"`
	O   bool   `json:"o"`
	S   bool   `json:"s"`
	Exp int64  `json:"exp"`
}

// EncodeSession serializes and signs a session as "<payload>.<signature>".
func EncodeSession(s Session, secret string) (string, error) {
	b, err := json.Marshal(sessionPayload{
		U:   s.Username,
		N:   s.DisplayName,
		O:   s.IsOfficer,
		S:   s.IsSuper,
		Exp: s.ExpiresAt.UnixMilli(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode session: %w", err)
	}
	payload := base64.RawURLEncoding.EncodeToString(b)
	return payload + "." + Sign(payload, secret), nil
}

// DecodeSession verifies and parses a token produced by EncodeSession.
func DecodeSession(token, secret string, now time.Time) (Session, error) {
	payload, sig, ok := strings.Cut(token, ".")
	if !ok || payload == "" || sig == "" {
		return Session{}, ErrInvalidToken
	}
	if err := Verify(payload, sig, secret); err != nil {
		return Session{}, err
	}
	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return Session{}, ErrInvalidToken
	}
	var p sessionPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Session{}, ErrInvalidToken
	}
	if p.Exp == 0 || now.UnixMilli() > p.Exp {
		return Session{}, ErrExpiredSession
	}
	return Session{
		Username:    p.U,
		DisplayName: p.N,
		IsOfficer:   p.O,
		IsSuper:     p.S,
		ExpiresAt:   time.UnixMilli(p.Exp),
	}, nil
}

// Sessions issues, reads and clears the session cookie.
type Sessions struct {
	secret string
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewSessions(secret string, ttl time.Duration, secure bool) *Sessions {
	return &Sessions{secret: secret, ttl: ttl, secure: secure, now: time.Now}
}

// WithClock replaces the time source, for tests.
func (m *Sessions) WithClock(now func() time.Time) *Sessions {
	m.now = now
	return m
}

// Issue signs a new officer session and sets it on the response.
func (m *Sessions) Issue(w http.ResponseWriter, r *http.Request, username, displayName string, isSuper bool) (Session, error) {
	s := Session{
		Username:    username,
		DisplayName: displayName,
		IsOfficer:   true,
		IsSuper:     isSuper,
		ExpiresAt:   m.now().Add(m.ttl),
	}
	token, err := EncodeSession(s, m.secret)
	if err != nil {
		return Session{}, err
	}
	http.SetCookie(w, m.cookie(r, token, int(m.ttl.Seconds())))
	return s, nil
}

// Clear expires the session cookie. Safe to call without a session.
func (m *Sessions) Clear(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, m.cookie(r, "", -1))
}

// Current returns the caller's session. Any failure (missing cookie, bad
// signature, malformed or expired payload) reads as no session.
func (m *Sessions) Current(r *http.Request) (Session, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return Session{}, false
	}
	s, err := DecodeSession(c.Value, m.secret, m.now())
	if err != nil {
		return Session{}, false
	}
	return s, true
}

func (m *Sessions) cookie(r *http.Request, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   m.secure || isTLS(r),
	}
}

func isTLS(r *http.Request) bool {
	if r == nil {
		return false
	}
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
