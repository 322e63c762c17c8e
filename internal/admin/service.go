package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"ehsas/internal/auth"
	"ehsas/internal/clock"
)

// Session is the result of a successful login.
type Session struct {
	Admin     Admin
	Token     string
	ExpiresAt time.Time
}

// Service seeds the credential and authenticates logins.
type Service struct {
	store  Store
	issuer *auth.Issuer
	clk    clock.Clock
	log    zerolog.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewService(store Store, issuer *auth.Issuer, clk clock.Clock, log zerolog.Logger) *Service {
	if clk == nil {
		clk = clock.System{}
	}
	return &Service{store: store, issuer: issuer, clk: clk, log: log}
}

// Seed creates the admin credential unless one with that email exists.
// It reports whether a new credential was written.
func (s *Service) Seed(ctx context.Context, email, password string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return false, errors.New("admin seed requires email and password")
	}
	if _, err := s.store.GetByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, ErrNotFound) {
		return false, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}
	err = s.store.Create(ctx, Admin{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         auth.RoleAdmin,
		CreatedAt:    s.clk.Now(),
	})
	if errors.Is(err, ErrDuplicateEmail) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	s.log.Info().Str("email", email).Msg("admin account seeded")
	return true, nil
}

// Login checks the password and issues a token. Unknown emails still pay
// for a bcrypt comparison.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	a, err := s.store.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return Session{}, err
		}
		auth.CheckPassword(s.dummy(), password)
		return Session{}, ErrInvalidCredentials
	}
	if !auth.CheckPassword(a.PasswordHash, password) {
		return Session{}, ErrInvalidCredentials
	}

	tok, err := s.issuer.Issue(auth.Identity{ID: a.ID, Email: a.Email, Role: a.Role})
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{Admin: a, Token: tok.Value, ExpiresAt: tok.ExpiresAt}, nil
}

func (s *Service) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = auth.HashPassword(uuid.NewString())
	})
	return s.dummyHash
}
