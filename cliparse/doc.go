// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

The environment is read first (caarlos0/env struct tags, defaults in the
envDefault tags), then flags are applied on top. Call LoadEnvFiles before
ParseFlags to pick up .env.local and .env.

# CLI Flags

	-p               Server port
	-d               Database URL or sqlite file path
	-t               Database type (sqlite or postgres)
	-app-secret      Session signing secret
	-super-username  Reserved super admin username
	-super-password  Super admin seed password

# Environment Variables

	PORT            → -p (default 3000)
	DATABASE_URL    → -d
	DATABASE_TYPE   → -t (default sqlite)
	APP_SECRET      → -app-secret
	SUPER_USERNAME  → -super-username (default superadmin)
	SUPER_PASSWORD  → -super-password
	SUPER_NAME      display name of the seeded super admin
	SESSION_TTL     session lifetime (default 6h)
	SECURE_COOKIES  always mark the session cookie Secure
	LOGIN_RATE      login attempts per client IP (default 20-M)
	TIME_ZONE       zone for code years and timeline times (default Asia/Bangkok)
	MAX_BODY_MB     request body cap (default 60)
	IMAGE_STORAGE   inline or disk (default inline)
	UPLOAD_DIR      disk storage root
	UPLOAD_BASE_URL public prefix of stored images (default /uploads/)
	LOG_LEVEL       debug, info, warn or error
	LOG_JSON        JSON log output
	METRICS_ENABLED serve /metrics (default true)
	CORS_ORIGINS    comma separated allowed origins

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if the database URL, APP_SECRET or
SUPER_PASSWORD is missing, or if any value fails to parse.
*/
package cliparse
