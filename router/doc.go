// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the petition desk API.

# Route Registration

NewRouter builds an http.ServeMux with all endpoints and wraps it in the
shared middleware:

	h := router.NewRouter(router.Deps{Store: st, Sessions: sessions, Images: sink}, cfg)

# Endpoints

Public:

	GET  /api/ping
	POST /api/login
	POST /api/logout
	GET  /api/me
	POST /api/petitions
	GET  /api/track/{code}

Officer (session cookie):

	GET    /api/admin/petitions
	GET    /api/admin/petitions/{code}
	PATCH  /api/admin/petitions/{code}/status
	PATCH  /api/admin/petitions/{code}/after-images
	DELETE /api/admin/petitions/{code}

Super admin:

	GET    /api/admin/users
	POST   /api/admin/users
	PATCH  /api/admin/users/{username}
	DELETE /api/admin/users/{username}

Optional:

	GET /metrics    - when METRICS_ENABLED
	GET /uploads/   - when IMAGE_STORAGE=disk

# Middleware

From the outside in: panic recovery, CORS, no-store on /api/, the body
size cap and request metrics. Each route is also wrapped in request
logging.
*/
package router
