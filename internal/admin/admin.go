// Package admin owns the administrator credential and login.
package admin

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateEmail     = errors.New("admin email already exists")
	ErrNotFound           = errors.New("admin not found")
)

// Admin is a stored credential. The role is always auth.RoleAdmin.
type Admin struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// Store persists admin credentials keyed by email.
type Store interface {
	GetByEmail(ctx context.Context, email string) (Admin, error)
	Create(ctx context.Context, a Admin) error
}
