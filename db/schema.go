// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, conn *sql.DB, d Dialect) error {
	var stmts []string
	switch d {
	case Postgres:
		stmts = postgresSchema
	case SQLite:
		stmts = sqliteSchema
	default:
		return fmt.Errorf("unsupported dialect %q", d)
	}

	for _, stmt := range stmts {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS admins (
    username TEXT PRIMARY KEY,
    password_hash TEXT NOT NULL,
    name TEXT NOT NULL DEFAULT ''
)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_admins_username_lower ON admins (LOWER(username))`,

	`CREATE TABLE IF NOT EXISTS petitions (
    code TEXT PRIMARY KEY,
    village TEXT NOT NULL,
    topic TEXT NOT NULL,
    detail TEXT NOT NULL,
    lat TEXT NOT NULL,
    lng TEXT NOT NULL,
    status TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
	`CREATE INDEX IF NOT EXISTS idx_petitions_code_upper ON petitions (UPPER(code))`,
	`CREATE INDEX IF NOT EXISTS idx_petitions_updated_at ON petitions (updated_at DESC)`,

	// One counter row per calendar year
	`CREATE TABLE IF NOT EXISTS petition_seq (
    year INT PRIMARY KEY,
    last_serial BIGINT NOT NULL DEFAULT 0
)`,

	`CREATE TABLE IF NOT EXISTS petition_timeline (
    id BIGSERIAL PRIMARY KEY,
    petition_code TEXT NOT NULL REFERENCES petitions(code) ON DELETE CASCADE,
    title TEXT NOT NULL,
    time_text TEXT NOT NULL,
    note TEXT NOT NULL DEFAULT ''
)`,
	`CREATE INDEX IF NOT EXISTS idx_petition_timeline_code ON petition_timeline (petition_code, id)`,

	`CREATE TABLE IF NOT EXISTS petition_images (
    id BIGSERIAL PRIMARY KEY,
    petition_code TEXT NOT NULL REFERENCES petitions(code) ON DELETE CASCADE,
    kind TEXT NOT NULL CHECK (kind IN ('before', 'after')),
    url TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_petition_images_code ON petition_images (petition_code, id)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS admins (
    username TEXT PRIMARY KEY,
    password_hash TEXT NOT NULL,
    name TEXT NOT NULL DEFAULT ''
)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_admins_username_lower ON admins (LOWER(username))`,

	`CREATE TABLE IF NOT EXISTS petitions (
    code TEXT PRIMARY KEY,
    village TEXT NOT NULL,
    topic TEXT NOT NULL,
    detail TEXT NOT NULL,
    lat TEXT NOT NULL,
    lng TEXT NOT NULL,
    status TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_petitions_code_upper ON petitions (UPPER(code))`,
	`CREATE INDEX IF NOT EXISTS idx_petitions_updated_at ON petitions (updated_at DESC)`,

	`CREATE TABLE IF NOT EXISTS petition_seq (
    year INTEGER PRIMARY KEY,
    last_serial INTEGER NOT NULL DEFAULT 0
)`,

	`CREATE TABLE IF NOT EXISTS petition_timeline (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    petition_code TEXT NOT NULL REFERENCES petitions(code) ON DELETE CASCADE,
    title TEXT NOT NULL,
    time_text TEXT NOT NULL,
    note TEXT NOT NULL DEFAULT ''
)`,
	`CREATE INDEX IF NOT EXISTS idx_petition_timeline_code ON petition_timeline (petition_code, id)`,

	`CREATE TABLE IF NOT EXISTS petition_images (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    petition_code TEXT NOT NULL REFERENCES petitions(code) ON DELETE CASCADE,
    kind TEXT NOT NULL CHECK (kind IN ('before', 'after')),
    url TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_petition_images_code ON petition_images (petition_code, id)`,
}
