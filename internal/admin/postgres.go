package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ehsas/internal/store"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetByEmail(ctx context.Context, email string) (Admin, error) {
	var a Admin
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, role, created_at FROM admins WHERE email = $1
	`, email).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Admin{}, ErrNotFound
		}
		return Admin{}, fmt.Errorf("get admin: %w", err)
	}
	a.CreatedAt = a.CreatedAt.UTC()
	return a, nil
}

func (s *PostgresStore) Create(ctx context.Context, a Admin) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admins (id, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, a.ID, a.Email, a.PasswordHash, a.Role, a.CreatedAt)
	if err != nil {
		if store.IsUniqueViolation(err, "admins_email_unique") {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert admin: %w", err)
	}
	return nil
}
