package store

import (
	"context"
	"errors"
	"sync"

	"github.com/triadlabs/triad/pkg/arena"
	"github.com/triadlabs/triad/pkg/arena/compare"
)

// ErrNotFound indicates no aggregate exists with the given id
var ErrNotFound = errors.New("comparison not found")

// MemoryStore is an in-memory implementation of arena.Store, used in tests
// and for ephemeral runs.
type MemoryStore struct {
	mu         sync.RWMutex
	aggregates map[string]*compare.Aggregate
	order      []string
}

// Verify MemoryStore implements arena.Store
var _ arena.Store = (*MemoryStore)(nil)

// NewMemory creates an empty in-memory store
func NewMemory() *MemoryStore {
	return &MemoryStore{
		aggregates: make(map[string]*compare.Aggregate),
	}
}

// Save stores the aggregate and returns it unchanged
func (s *MemoryStore) Save(ctx context.Context, aggregate *compare.Aggregate) (*compare.Aggregate, error) {
	if aggregate.ID == "" {
		return nil, errors.New("aggregate ID cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.aggregates[aggregate.ID]; !exists {
		s.order = append(s.order, aggregate.ID)
	}
	s.aggregates[aggregate.ID] = aggregate

	return aggregate, nil
}

// Get retrieves an aggregate by id
func (s *MemoryStore) Get(ctx context.Context, id string) (*compare.Aggregate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	aggregate, ok := s.aggregates[id]
	if !ok {
		return nil, ErrNotFound
	}
	return aggregate, nil
}

// List returns the most recent aggregates, newest first
func (s *MemoryStore) List(ctx context.Context, limit int) ([]*compare.Aggregate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.order) {
		limit = len(s.order)
	}

	result := make([]*compare.Aggregate, 0, limit)
	for i := len(s.order) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, s.aggregates[s.order[i]])
	}

	return result, nil
}

// Len returns the number of stored aggregates
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.aggregates)
}
