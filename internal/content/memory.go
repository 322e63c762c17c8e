package content

import (
	"context"
	"sync"
)

// MemoryStore keeps content in process memory in insertion order.
type MemoryStore struct {
	mu         sync.RWMutex
	events     []Event
	spotlights []Spotlight
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) ListEvents(_ context.Context, activeOnly bool, limit int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []Event{}
	for _, e := range s.events {
		if activeOnly && !e.IsActive {
			continue
		}
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *MemoryStore) CreateEvent(_ context.Context, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *MemoryStore) UpdateEvent(_ context.Context, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.events {
		if s.events[i].ID == e.ID {
			e.CreatedAt = s.events[i].CreatedAt
			s.events[i] = e
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) DeleteEvent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.events {
		if s.events[i].ID == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) CountActiveEvents(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, e := range s.events {
		if e.IsActive {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) ListSpotlight(_ context.Context, featuredOnly bool, limit int) ([]Spotlight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []Spotlight{}
	for _, sp := range s.spotlights {
		if featuredOnly && !sp.IsFeatured {
			continue
		}
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, sp)
	}
	return out, nil
}

func (s *MemoryStore) CreateSpotlight(_ context.Context, sp Spotlight) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spotlights = append(s.spotlights, sp)
	return nil
}

func (s *MemoryStore) UpdateSpotlight(_ context.Context, sp Spotlight) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.spotlights {
		if s.spotlights[i].ID == sp.ID {
			sp.CreatedAt = s.spotlights[i].CreatedAt
			s.spotlights[i] = sp
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) DeleteSpotlight(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.spotlights {
		if s.spotlights[i].ID == id {
			s.spotlights = append(s.spotlights[:i], s.spotlights[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
