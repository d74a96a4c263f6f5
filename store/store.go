// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/danielhkuo/petition-desk/db"
	"github.com/danielhkuo/petition-desk/models"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrUsernameExists = errors.New("username already exists")
	ErrInvalidKind    = errors.New("invalid image kind")
)

// TimeFormat is the display format of timeline entry times.
const TimeFormat = "02/01/2006 15:04:05"

// Store persists petitions and officer accounts in a SQL database.
type Store struct {
	conn    *sql.DB
	dialect db.Dialect
	loc     *time.Location
	now     func() time.Time

	mu    sync.Mutex
	ready bool
}

// New wraps an open connection. loc is the zone used for code years and
// timeline display times; nil means UTC.
func New(conn *sql.DB, dialect db.Dialect, loc *time.Location) *Store {
	if loc == nil {
		loc = time.UTC
	}
	return &Store{conn: conn, dialect: dialect, loc: loc, now: time.Now}
}

// WithClock replaces the time source, for tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Dialect() db.Dialect {
	return s.dialect
}

// Setup creates the schema once per Store. A failed attempt is retried on
// the next call.
func (s *Store) Setup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		return nil
	}
	if err := db.CreateSchema(ctx, s.conn, s.dialect); err != nil {
		return err
	}
	s.ready = true
	return nil
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

func (s *Store) q(query string) string {
	return s.dialect.Rebind(query)
}

func (s *Store) displayTime(t time.Time) string {
	return t.In(s.loc).Format(TimeFormat)
}

// NextCode allocates the next petition code for the current year. The
// counter row is incremented inside a transaction so concurrent callers
// never share a serial.
func (s *Store) NextCode(ctx context.Context) (string, error) {
	year := s.now().In(s.loc).Year()

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin code allocation: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, s.q(`
		INSERT INTO petition_seq (year, last_serial) VALUES ($1, 0)
		ON CONFLICT (year) DO NOTHING
	`), year)
	if err != nil {
		return "", fmt.Errorf("failed to init code counter: %w", err)
	}

	var serial int64
	err = tx.QueryRowContext(ctx, s.q(`
		UPDATE petition_seq SET last_serial = last_serial + 1
		WHERE year = $1
		RETURNING last_serial
	`), year).Scan(&serial)
	if err != nil {
		return "", fmt.Errorf("failed to increment code counter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit code allocation: %w", err)
	}
	return models.FormatCode(year, serial), nil
}
