// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/danielhkuo/petition-desk/db"
	"github.com/danielhkuo/petition-desk/models"
)

// UserRecord is an officer account as stored, including the password hash.
type UserRecord struct {
	Username     string
	Name         string
	PasswordHash string
}

// FindUser looks up an account by exact username.
func (s *Store) FindUser(ctx context.Context, username string) (UserRecord, error) {
	var u UserRecord
	err := s.conn.QueryRowContext(ctx, s.q(`
		SELECT username, password_hash, name FROM admins WHERE username = $1 LIMIT 1
	`), username).Scan(&u.Username, &u.PasswordHash, &u.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return UserRecord{}, ErrNotFound
	}
	if err != nil {
		return UserRecord{}, fmt.Errorf("failed to query user: %w", err)
	}
	return u, nil
}

// ListUsers returns all accounts ordered by username. IsSuper is left for
// the caller to derive.
func (s *Store) ListUsers(ctx context.Context) ([]models.AdminUser, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT username, name FROM admins ORDER BY username ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []models.AdminUser{}
	for rows.Next() {
		var u models.AdminUser
		if err := rows.Scan(&u.Username, &u.Name); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// CreateUser inserts an account. Usernames are unique ignoring case.
func (s *Store) CreateUser(ctx context.Context, username, passwordHash, name string) error {
	var exists string
	err := s.conn.QueryRowContext(ctx, s.q(`
		SELECT username FROM admins WHERE LOWER(username) = LOWER($1) LIMIT 1
	`), username).Scan(&exists)
	if err == nil {
		return ErrUsernameExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to query user: %w", err)
	}

	_, err = s.conn.ExecContext(ctx, s.q(`
		INSERT INTO admins (username, password_hash, name) VALUES ($1, $2, $3)
	`), username, passwordHash, name)
	if db.IsUniqueViolation(err) {
		return ErrUsernameExists
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// UpdateUser applies a partial update to the account matching username
// case-insensitively. Nil fields are left unchanged.
func (s *Store) UpdateUser(ctx context.Context, username string, name, passwordHash *string) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin user update: %w", err)
	}
	defer tx.Rollback()

	var stored string
	err = tx.QueryRowContext(ctx, s.q(`
		SELECT username FROM admins WHERE LOWER(username) = LOWER($1) LIMIT 1
	`), username).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to query user: %w", err)
	}

	if name != nil {
		if _, err := tx.ExecContext(ctx, s.q(`UPDATE admins SET name = $1 WHERE username = $2`), *name, stored); err != nil {
			return fmt.Errorf("failed to update name: %w", err)
		}
	}
	if passwordHash != nil {
		if _, err := tx.ExecContext(ctx, s.q(`UPDATE admins SET password_hash = $1 WHERE username = $2`), *passwordHash, stored); err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit user update: %w", err)
	}
	return nil
}

// DeleteUser removes the account matching username case-insensitively.
func (s *Store) DeleteUser(ctx context.Context, username string) error {
	res, err := s.conn.ExecContext(ctx, s.q(`
		DELETE FROM admins WHERE LOWER(username) = LOWER($1)
	`), username)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// EnsureUser makes sure an account named username exists. An account whose
// username differs only in case is renamed to username and keeps its
// password and display name. hash is only called when the account is
// created. Reports whether an account was created.
func (s *Store) EnsureUser(ctx context.Context, username, name string, hash func() (string, error)) (bool, error) {
	var stored string
	err := s.conn.QueryRowContext(ctx, s.q(`
		SELECT username FROM admins WHERE LOWER(username) = LOWER($1) LIMIT 1
	`), username).Scan(&stored)
	switch {
	case err == nil && stored == username:
		return false, nil
	case err == nil:
		if _, err := s.conn.ExecContext(ctx, s.q(`
			UPDATE admins SET username = $1 WHERE username = $2
		`), username, stored); err != nil {
			return false, fmt.Errorf("failed to rename user: %w", err)
		}
		slog.Warn("existing account renamed to match configured username", "from", stored, "to", username)
		return false, nil
	case !errors.Is(err, sql.ErrNoRows):
		return false, fmt.Errorf("failed to query user: %w", err)
	}

	h, err := hash()
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.CreateUser(ctx, username, h, name); err != nil {
		return false, err
	}
	return true, nil
}
