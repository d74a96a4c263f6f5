// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections and schema creation.

# Dialects

Two backends are supported:

  - postgres: github.com/lib/pq, for hosted deployments
  - sqlite: modernc.org/sqlite, a single local file, no server needed

Queries are written once in postgres style ($1, $2, ...) and passed through
Dialect.Rebind before execution.

	conn, err := db.Open(ctx, db.SQLite, "./data/petitions.db")

SQLite connections are capped at one open connection so writes are
serialized.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(ctx, conn, db.Postgres); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - admins: officer accounts (username, bcrypt hash, display name)
  - petitions: one row per petition, keyed by code
  - petition_seq: per-year serial counter for code allocation
  - petition_timeline: append-only status history
  - petition_images: before/after image URLs

# Relationships

	petitions 1──* petition_timeline
	petitions 1──* petition_images

Foreign keys use ON DELETE CASCADE. Usernames are unique case-insensitively
via an index on LOWER(username).
*/
package db
