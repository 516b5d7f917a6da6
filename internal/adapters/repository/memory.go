package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/bonus/pkg/metrics"
)

// MemoryStore keeps awards in a map guarded by a RWMutex.
type MemoryStore struct {
	mu     sync.RWMutex
	byID   map[string]Award
	order  []string // insertion order, oldest first
	closed bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]Award)}
}

// Save records or replaces an award.
func (s *MemoryStore) Save(_ context.Context, a Award) error { //nolint:gocritic // hugeParam: awards are values
	start := time.Now()
	defer func() { metrics.RecordRepositorySaveLatency(sinceMs(start)) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		metrics.RecordRepositoryError()
		return ErrClosed
	}
	if _, exists := s.byID[a.RequestID]; !exists {
		s.order = append(s.order, a.RequestID)
	}
	s.byID[a.RequestID] = a
	metrics.UpdateAwardsTotal(len(s.byID))
	return nil
}

// Get returns the award stored for requestID.
func (s *MemoryStore) Get(_ context.Context, requestID string) (Award, error) {
	start := time.Now()
	defer func() { metrics.RecordRepositoryQueryLatency(sinceMs(start)) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.byID[requestID]
	if !ok {
		return Award{}, ErrNotFound
	}
	return a, nil
}

// List returns matching awards, newest first.
func (s *MemoryStore) List(_ context.Context, f Filter) ([]Award, error) {
	start := time.Now()
	defer func() { metrics.RecordRepositoryQueryLatency(sinceMs(start)) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Award, 0)
	for i := len(s.order) - 1; i >= 0; i-- {
		a := s.byID[s.order[i]]
		if f.EmployeeID != "" && a.EmployeeID != f.EmployeeID {
			continue
		}
		out = append(out, a)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

// Count returns the number of stored awards.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Close rejects further writes. Reads keep working.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func sinceMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
