// Package sequence hands out per-batch membership sequence numbers.
//
// Every implementation is strictly increasing per batch and safe for
// concurrent callers, so two approvals in the same batch never share a number.
package sequence

import (
	"context"
	"fmt"
	"sync"
)

// Sequencer returns the next sequence number for a batch, starting at 1.
type Sequencer interface {
	Next(ctx context.Context, batch int) (int64, error)
}

// SeedFunc reports the highest number a batch has already consumed.
type SeedFunc func(ctx context.Context, batch int) (int64, error)

// Memory keeps counters in process memory. With a seed, a batch's counter
// starts after the seeded value the first time it is used.
type Memory struct {
	mu     sync.Mutex
	values map[int]int64
	seed   SeedFunc
}

func NewMemory() *Memory {
	return &Memory{values: make(map[int]int64)}
}

func NewSeededMemory(seed SeedFunc) *Memory {
	return &Memory{values: make(map[int]int64), seed: seed}
}

func (m *Memory) Next(ctx context.Context, batch int) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.values[batch]; !ok && m.seed != nil {
		start, err := m.seed(ctx, batch)
		if err != nil {
			return 0, fmt.Errorf("sequence seed batch %d: %w", batch, err)
		}
		m.values[batch] = start
	}
	m.values[batch]++
	return m.values[batch], nil
}
