package admin

import (
	"context"
	"sync"
)

type MemoryStore struct {
	mu      sync.RWMutex
	byEmail map[string]Admin
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byEmail: make(map[string]Admin)}
}

func (s *MemoryStore) GetByEmail(_ context.Context, email string) (Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.byEmail[email]
	if !ok {
		return Admin{}, ErrNotFound
	}
	return a, nil
}

func (s *MemoryStore) Create(_ context.Context, a Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[a.Email]; ok {
		return ErrDuplicateEmail
	}
	s.byEmail[a.Email] = a
	return nil
}
