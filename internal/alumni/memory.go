package alumni

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps records in process memory in insertion order.
type MemoryStore struct {
	mu      sync.RWMutex
	order   []string
	byID    map[string]Alumni
	byEmail map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]Alumni),
		byEmail: make(map[string]string),
	}
}

func (s *MemoryStore) Create(_ context.Context, a Alumni) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[a.Email]; ok {
		return ErrDuplicateEmail
	}
	s.byID[a.ID] = a
	s.byEmail[a.Email] = a.ID
	s.order = append(s.order, a.ID)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Alumni, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.byID[id]
	if !ok {
		return Alumni{}, ErrNotFound
	}
	return a, nil
}

func (s *MemoryStore) GetByEmail(_ context.Context, email string) (Alumni, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return Alumni{}, ErrNotFound
	}
	return s.byID[id], nil
}

func (s *MemoryStore) List(_ context.Context, f Filter) ([]Alumni, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []Alumni{}
	for _, id := range s.order {
		if a := s.byID[id]; f.matches(a) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *MemoryStore) Approve(_ context.Context, id, membershipID string, at time.Time) (Alumni, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	if !ok {
		return Alumni{}, ErrNotFound
	}
	if a.MembershipID == nil {
		for _, other := range s.byID {
			if other.MembershipID != nil && *other.MembershipID == membershipID {
				return Alumni{}, ErrDuplicateMembershipID
			}
		}
		a.MembershipID = &membershipID
	}
	a.Status = StatusApproved
	if a.ApprovedAt == nil {
		a.ApprovedAt = &at
	}
	s.byID[id] = a
	return a, nil
}

func (s *MemoryStore) Reject(_ context.Context, id string) (Alumni, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	if !ok {
		return Alumni{}, ErrNotFound
	}
	a.Status = StatusRejected
	s.byID[id] = a
	return a, nil
}

func (s *MemoryStore) CountByStatus(_ context.Context, st Status) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, a := range s.byID {
		if a.Status == st {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) BatchDistribution(_ context.Context, st Status, limit int) ([]BatchCount, error) {
	s.mu.RLock()
	counts := make(map[int]int)
	for _, a := range s.byID {
		if a.Status == st {
			counts[a.YearOfLeaving]++
		}
	}
	s.mu.RUnlock()

	out := make([]BatchCount, 0, len(counts))
	for batch, n := range counts {
		out = append(out, BatchCount{Batch: batch, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Batch > out[j].Batch })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f Filter) matches(a Alumni) bool {
	if f.Status != nil && a.Status != *f.Status {
		return false
	}
	if f.Batch != nil && a.YearOfLeaving != *f.Batch {
		return false
	}
	if f.Profession != "" && !containsFold(a.Profession, f.Profession) {
		return false
	}
	if f.City != "" && !containsFold(a.City, f.City) {
		return false
	}
	return true
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
