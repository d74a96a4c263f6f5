// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package store persists petitions, their timelines and images, and officer
// accounts on database/sql.
//
// Queries are written once with postgres-style $N placeholders and rebound
// per dialect. Petition codes come from a per-year counter row that is
// incremented inside a transaction, so concurrent submissions never share a
// serial and deleted petitions never release theirs.
//
// Lookups by petition code are case-insensitive. Officer lookups at login
// are exact; management operations (update, delete, duplicate checks) match
// usernames ignoring case.
package store
