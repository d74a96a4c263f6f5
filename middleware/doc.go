// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /api/ping", middleware.WithLogging(handler))

Logs one line per request with request_id, method, path, status, bytes,
remote and duration_ms. 5xx responses log at error level, 4xx at warn.

# JSON Helpers

Write JSON responses and the error envelope:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusNotFound, models.ErrNotFound, "")

Parse request bodies. An empty body reads as an empty object:

	var req models.UpdateStatusRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.BodyError(w, err)
		return
	}

BodyError answers 413 payload_too_large when LimitBody's cap was hit and
400 bad_json otherwise.

# Access Control

Gate reads the signed session cookie:

	gate := middleware.NewGate(sessions, cfg.SuperUsername)
	mux.HandleFunc("GET /api/petitions", middleware.WithLogging(gate.RequireOfficer(h.List)))

RequireOfficer answers 401 unauthorized. RequireSuperAdmin also answers 403
forbidden unless the session username is exactly the super admin's.

RateLimit throttles per client IP with an in-memory ulule/limiter store and
answers 429 too_many_requests.

# Stack

NoCache, LimitBody, Recover and CORS wrap the whole mux. CORS is a no-op
unless origins are configured.
*/
package middleware
