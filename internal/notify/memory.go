package notify

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps notifications in process memory. Entries created at the
// same instant list in reverse insertion order.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]entry
	next  uint64
}

type entry struct {
	Notification
	seq uint64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]entry)}
}

func (s *MemoryStore) Create(_ context.Context, n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.items[n.ID] = entry{Notification: n, seq: s.next}
	return nil
}

func (s *MemoryStore) List(_ context.Context, limit int) ([]Notification, error) {
	s.mu.RLock()
	all := make([]entry, 0, len(s.items))
	for _, e := range s.items {
		all = append(all, e)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].seq > all[j].seq
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	out := make([]Notification, len(all))
	for i, e := range all {
		out[i] = e.Notification
	}
	return out, nil
}

func (s *MemoryStore) MarkRead(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[id]
	if !ok {
		return ErrNotFound
	}
	e.IsRead = true
	s.items[id] = e
	return nil
}
