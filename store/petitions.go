// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/danielhkuo/petition-desk/models"
)

// CreatePetition allocates a code and stores the petition with its first
// timeline entry.
func (s *Store) CreatePetition(ctx context.Context, p models.NewPetition) (string, error) {
	code, err := s.NextCode(ctx)
	if err != nil {
		return "", err
	}

	now := s.now().UTC()
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin petition insert: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, s.q(`
		INSERT INTO petitions (code, village, topic, detail, lat, lng, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
	`), code, p.Village, p.Topic, p.Detail, p.Lat, p.Lng, models.StatusReceived, now)
	if err != nil {
		return "", fmt.Errorf("failed to insert petition: %w", err)
	}

	_, err = tx.ExecContext(ctx, s.q(`
		INSERT INTO petition_timeline (petition_code, title, time_text, note)
		VALUES ($1, $2, $3, $4)
	`), code, models.StatusReceived, s.displayTime(now), models.NoteReceived)
	if err != nil {
		return "", fmt.Errorf("failed to insert timeline entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit petition: %w", err)
	}
	return code, nil
}

// ResolveCode returns the stored code matching code case-insensitively.
func (s *Store) ResolveCode(ctx context.Context, code string) (string, error) {
	var stored string
	err := s.conn.QueryRowContext(ctx, s.q(`
		SELECT code FROM petitions WHERE UPPER(code) = $1 LIMIT 1
	`), normalizeCode(code)).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query petition: %w", err)
	}
	return stored, nil
}

// GetPetition returns a petition with its timeline and images.
func (s *Store) GetPetition(ctx context.Context, code string) (models.Petition, error) {
	var p models.Petition
	err := s.conn.QueryRowContext(ctx, s.q(`
		SELECT code, village, topic, detail, lat, lng, status, created_at, updated_at
		FROM petitions
		WHERE UPPER(code) = $1
		LIMIT 1
	`), normalizeCode(code)).Scan(
		&p.Code, &p.Village, &p.Topic, &p.Detail, &p.Lat, &p.Lng,
		&p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Petition{}, ErrNotFound
	}
	if err != nil {
		return models.Petition{}, fmt.Errorf("failed to query petition: %w", err)
	}

	timelines, err := s.loadTimelines(ctx, p.Code)
	if err != nil {
		return models.Petition{}, err
	}
	before, after, err := s.loadImages(ctx, p.Code)
	if err != nil {
		return models.Petition{}, err
	}
	fill(&p, timelines, before, after)
	return p, nil
}

// ListPetitions returns every petition, most recently updated first, with
// timelines and images included.
func (s *Store) ListPetitions(ctx context.Context) ([]models.Petition, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT code, village, topic, detail, lat, lng, status, created_at, updated_at
		FROM petitions
		ORDER BY updated_at DESC, code DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query petitions: %w", err)
	}
	defer rows.Close()

	items := []models.Petition{}
	for rows.Next() {
		var p models.Petition
		if err := rows.Scan(
			&p.Code, &p.Village, &p.Topic, &p.Detail, &p.Lat, &p.Lng,
			&p.Status, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan petition: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate petitions: %w", err)
	}
	rows.Close()

	timelines, err := s.loadTimelines(ctx, "")
	if err != nil {
		return nil, err
	}
	before, after, err := s.loadImages(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range items {
		fill(&items[i], timelines, before, after)
	}
	return items, nil
}

// UpdateStatus sets the status and appends a timeline entry titled with it.
// An empty status keeps the current one. The status actually applied is
// returned.
func (s *Store) UpdateStatus(ctx context.Context, code, status, note string) (string, error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin status update: %w", err)
	}
	defer tx.Rollback()

	var stored, current string
	err = tx.QueryRowContext(ctx, s.q(`
		SELECT code, status FROM petitions WHERE UPPER(code) = $1 LIMIT 1
	`), normalizeCode(code)).Scan(&stored, &current)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query petition: %w", err)
	}

	newStatus := strings.TrimSpace(status)
	if newStatus == "" {
		newStatus = current
	}
	if newStatus == "" {
		newStatus = models.StatusReceived
	}

	now := s.now().UTC()
	_, err = tx.ExecContext(ctx, s.q(`
		UPDATE petitions SET status = $1, updated_at = $2 WHERE code = $3
	`), newStatus, now, stored)
	if err != nil {
		return "", fmt.Errorf("failed to update status: %w", err)
	}

	_, err = tx.ExecContext(ctx, s.q(`
		INSERT INTO petition_timeline (petition_code, title, time_text, note)
		VALUES ($1, $2, $3, $4)
	`), stored, newStatus, s.displayTime(now), note)
	if err != nil {
		return "", fmt.Errorf("failed to insert timeline entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit status update: %w", err)
	}
	return newStatus, nil
}

// AddImages appends image URLs of the given kind. Adding "after" images
// also refreshes updated_at. code must be the stored code (see ResolveCode).
func (s *Store) AddImages(ctx context.Context, code, kind string, urls []string) error {
	if kind != models.KindBefore && kind != models.KindAfter {
		return ErrInvalidKind
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin image insert: %w", err)
	}
	defer tx.Rollback()

	for _, url := range urls {
		_, err := tx.ExecContext(ctx, s.q(`
			INSERT INTO petition_images (petition_code, kind, url) VALUES ($1, $2, $3)
		`), code, kind, url)
		if err != nil {
			return fmt.Errorf("failed to insert image: %w", err)
		}
	}

	if kind == models.KindAfter {
		res, err := tx.ExecContext(ctx, s.q(`
			UPDATE petitions SET updated_at = $1 WHERE code = $2
		`), s.now().UTC(), code)
		if err != nil {
			return fmt.Errorf("failed to touch petition: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit images: %w", err)
	}
	return nil
}

// DeletePetition removes a petition with its timeline and images.
func (s *Store) DeletePetition(ctx context.Context, code string) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin delete: %w", err)
	}
	defer tx.Rollback()

	var stored string
	err = tx.QueryRowContext(ctx, s.q(`
		SELECT code FROM petitions WHERE UPPER(code) = $1 LIMIT 1
	`), normalizeCode(code)).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to query petition: %w", err)
	}

	for _, stmt := range []string{
		`DELETE FROM petition_images WHERE petition_code = $1`,
		`DELETE FROM petition_timeline WHERE petition_code = $1`,
		`DELETE FROM petitions WHERE code = $1`,
	} {
		if _, err := tx.ExecContext(ctx, s.q(stmt), stored); err != nil {
			return fmt.Errorf("failed to delete petition: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

// loadTimelines returns timeline entries grouped by petition code. An empty
// code loads every petition's timeline.
func (s *Store) loadTimelines(ctx context.Context, code string) (map[string][]models.TimelineEntry, error) {
	query := `SELECT petition_code, title, time_text, note FROM petition_timeline`
	var args []any
	if code != "" {
		query += ` WHERE petition_code = $1`
		args = append(args, code)
	}
	query += ` ORDER BY id ASC`

	rows, err := s.conn.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query timeline: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]models.TimelineEntry)
	for rows.Next() {
		var c string
		var e models.TimelineEntry
		if err := rows.Scan(&c, &e.Title, &e.Time, &e.Note); err != nil {
			return nil, fmt.Errorf("failed to scan timeline entry: %w", err)
		}
		out[c] = append(out[c], e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate timeline: %w", err)
	}
	return out, nil
}

// loadImages returns before and after image URLs grouped by petition code.
func (s *Store) loadImages(ctx context.Context, code string) (before, after map[string][]string, err error) {
	query := `SELECT petition_code, kind, url FROM petition_images`
	var args []any
	if code != "" {
		query += ` WHERE petition_code = $1`
		args = append(args, code)
	}
	query += ` ORDER BY id ASC`

	rows, err := s.conn.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query images: %w", err)
	}
	defer rows.Close()

	before = make(map[string][]string)
	after = make(map[string][]string)
	for rows.Next() {
		var c, kind, url string
		if err := rows.Scan(&c, &kind, &url); err != nil {
			return nil, nil, fmt.Errorf("failed to scan image: %w", err)
		}
		if kind == models.KindAfter {
			after[c] = append(after[c], url)
		} else {
			before[c] = append(before[c], url)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate images: %w", err)
	}
	return before, after, nil
}

// fill attaches details, using empty slices rather than nil so the JSON
// always carries arrays.
func fill(p *models.Petition, timelines map[string][]models.TimelineEntry, before, after map[string][]string) {
	p.Timeline = append([]models.TimelineEntry{}, timelines[p.Code]...)
	p.ImagesBefore = append([]string{}, before[p.Code]...)
	p.ImagesAfter = append([]string{}, after[p.Code]...)
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
