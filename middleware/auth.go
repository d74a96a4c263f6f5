// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/danielhkuo/petition-desk/auth"
	"github.com/danielhkuo/petition-desk/models"
)

type sessionKey struct{}

// SessionFrom returns the session attached by RequireOfficer or
// RequireSuperAdmin.
func SessionFrom(ctx context.Context) (auth.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(auth.Session)
	return s, ok
}

// Gate guards officer and super admin routes.
type Gate struct {
	sessions      *auth.Sessions
	superUsername string
}

func NewGate(sessions *auth.Sessions, superUsername string) *Gate {
	return &Gate{sessions: sessions, superUsername: superUsername}
}

// RequireOfficer rejects callers without a valid officer session.
func (g *Gate) RequireOfficer(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := g.sessions.Current(r)
		if !ok || !s.IsOfficer {
			ErrorResponse(w, http.StatusUnauthorized, models.ErrUnauthorized, "")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, s)))
	}
}

// RequireSuperAdmin additionally requires the session to belong to the
// reserved super admin username, compared exactly.
func (g *Gate) RequireSuperAdmin(next http.HandlerFunc) http.HandlerFunc {
	return g.RequireOfficer(func(w http.ResponseWriter, r *http.Request) {
		s, _ := SessionFrom(r.Context())
		if s.Username != g.superUsername {
			ErrorResponse(w, http.StatusForbidden, models.ErrForbidden, "")
			return
		}
		next(w, r)
	})
}

// RateLimit throttles a handler per client IP.
type RateLimit struct {
	limiter *limiter.Limiter
}

// NewRateLimit parses a limiter rate such as "20-M" (20 per minute) and
// keeps counters in memory. Callers are keyed by the peer address;
// X-Forwarded-For and X-Real-IP are only honoured when trustProxy is set.
func NewRateLimit(formatted string, trustProxy bool) (*RateLimit, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("invalid rate %q: %w", formatted, err)
	}
	return &RateLimit{
		limiter: limiter.New(memory.NewStore(), rate, limiter.WithTrustForwardHeader(trustProxy)),
	}, nil
}

// Limit answers 429 too_many_requests once the caller's IP exceeds the rate.
// A nil RateLimit lets every request through.
func (l *RateLimit) Limit(next http.HandlerFunc) http.HandlerFunc {
	if l == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		lc, err := l.limiter.Get(r.Context(), l.limiter.GetIPKey(r))
		if err != nil {
			// Fail open; the limiter store is in memory.
			slog.Error("rate limiter failed", "error", err)
			next(w, r)
			return
		}
		w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(lc.Limit, 10))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(lc.Remaining, 10))
		if lc.Reached {
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(lc.Reset, 10))
			ErrorResponse(w, http.StatusTooManyRequests, models.ErrTooManyRequests, "")
			return
		}
		next(w, r)
	}
}
