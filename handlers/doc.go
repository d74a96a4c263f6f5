// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the petition desk API.

# Handler Types

Each handler is a struct over narrow store interfaces:

  - PingHandler: liveness and database reachability
  - AuthHandler: officer login, logout and session lookup
  - PetitionHandler: citizen submission and tracking, officer case work
  - UserHandler: officer account management for the super admin

Handlers are created via constructor functions:

	petitionHandler := handlers.NewPetitionHandler(st, images.NewIngestor(sink), m)

# Citizen Flow

	POST /api/petitions    → Create (returns the petition code)
	GET  /api/track/{code} → Track

Codes are matched case-insensitively.

# Officer Flow

Officer routes require a session cookie issued by POST /api/login:

	GET    /api/admin/petitions                     → List
	GET    /api/admin/petitions/{code}              → Get
	PATCH  /api/admin/petitions/{code}/status       → UpdateStatus
	PATCH  /api/admin/petitions/{code}/after-images → AddAfterImages
	DELETE /api/admin/petitions/{code}              → Delete

Account management is limited to the super admin, whose own account can
neither be created nor deleted through the API.

# Errors

Storage errors are mapped in one place, writeStoreError: not found is 404,
a taken username is 409, and anything else is 500 server_error.
*/
package handlers
