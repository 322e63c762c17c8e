package content

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore persists content in the events and spotlight tables.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ListEvents(ctx context.Context, activeOnly bool, limit int) ([]Event, error) {
	query := `SELECT id, title, description, event_type, date, time, location, image_url, is_active, created_at FROM events`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY created_at, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	out := []Event{}
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.EventType, &e.Date, &e.Time, &e.Location,
			&e.ImageURL, &e.IsActive, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.CreatedAt = e.CreatedAt.UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CreateEvent(ctx context.Context, e Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (id, title, description, event_type, date, time, location, image_url, is_active, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, e.ID, e.Title, e.Description, e.EventType, e.Date, e.Time, e.Location, e.ImageURL, e.IsActive, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateEvent(ctx context.Context, e Event) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE events
		SET title = $2, description = $3, event_type = $4, date = $5, time = $6,
			location = $7, image_url = $8, is_active = $9
		WHERE id = $1
	`, e.ID, e.Title, e.Description, e.EventType, e.Date, e.Time, e.Location, e.ImageURL, e.IsActive)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return affected(res, "update event")
}

func (s *PostgresStore) DeleteEvent(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return affected(res, "delete event")
}

func (s *PostgresStore) CountActiveEvents(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE is_active`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) ListSpotlight(ctx context.Context, featuredOnly bool, limit int) ([]Spotlight, error) {
	query := `SELECT id, name, batch, profession, achievement, category, image_url, is_featured, created_at FROM spotlight`
	if featuredOnly {
		query += ` WHERE is_featured`
	}
	query += ` ORDER BY created_at, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list spotlight: %w", err)
	}
	defer rows.Close()

	out := []Spotlight{}
	for rows.Next() {
		var sp Spotlight
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.Batch, &sp.Profession, &sp.Achievement, &sp.Category,
			&sp.ImageURL, &sp.IsFeatured, &sp.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan spotlight: %w", err)
		}
		sp.CreatedAt = sp.CreatedAt.UTC()
		out = append(out, sp)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CreateSpotlight(ctx context.Context, sp Spotlight) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO spotlight (id, name, batch, profession, achievement, category, image_url, is_featured, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, sp.ID, sp.Name, sp.Batch, sp.Profession, sp.Achievement, sp.Category, sp.ImageURL, sp.IsFeatured, sp.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert spotlight: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateSpotlight(ctx context.Context, sp Spotlight) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE spotlight
		SET name = $2, batch = $3, profession = $4, achievement = $5, category = $6,
			image_url = $7, is_featured = $8
		WHERE id = $1
	`, sp.ID, sp.Name, sp.Batch, sp.Profession, sp.Achievement, sp.Category, sp.ImageURL, sp.IsFeatured)
	if err != nil {
		return fmt.Errorf("update spotlight: %w", err)
	}
	return affected(res, "update spotlight")
}

func (s *PostgresStore) DeleteSpotlight(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM spotlight WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete spotlight: %w", err)
	}
	return affected(res, "delete spotlight")
}

func affected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
