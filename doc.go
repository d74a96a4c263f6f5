// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the petition desk API server.

Petition desk takes requests from citizens (a road to fix, a broken light),
gives each one a tracking code, and lets municipal officers move it through
a status timeline and attach photos of the finished work.

# Starting the Server

The server reads environment variables, optional .env.local and .env files,
and CLI flags:

	APP_SECRET=... SUPER_PASSWORD=... go run .

Or with flags:

	go run . -p 3000 -t sqlite -d petitions.db -app-secret ... -super-password ...

# Configuration

Required settings:

  - APP_SECRET (-app-secret): HMAC key for session cookies
  - SUPER_PASSWORD (-super-password): password of the seeded super admin

Common optional settings:

  - PORT (-p): server port (default: 3000)
  - DATABASE_TYPE (-t): postgres or sqlite (default: sqlite)
  - DATABASE_URL (-d): connection string or sqlite file path
  - TIME_ZONE: zone for petition years and timeline times
  - IMAGE_STORAGE, UPLOAD_DIR: inline data URLs or files on disk
  - METRICS_ENABLED: serve Prometheus metrics at /metrics

# Architecture

  - handlers: HTTP request handlers (auth, petitions, users, ping)
  - router: route definitions using Go 1.22+ routing
  - middleware: logging, sessions, rate limiting, CORS, JSON helpers
  - store: petition and officer persistence
  - images: data URL decoding and image sinks
  - db: dialects, connections and schema
  - auth: passwords and signed sessions
  - models: request, response and domain types
  - metrics, logging, cliparse: ambient concerns

See package documentation for each component.
*/
package main
