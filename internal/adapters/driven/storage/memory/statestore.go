package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/vecsync/internal/core/domain"
	"github.com/custodia-labs/vecsync/internal/core/ports/driven"
)

// Ensure IndexStateStore implements the interface.
var _ driven.IndexStateStore = (*IndexStateStore)(nil)

// IndexStateStore is an in-memory implementation of driven.IndexStateStore.
type IndexStateStore struct {
	mu     sync.RWMutex
	states map[string]domain.IndexState
}

// NewIndexStateStore creates a new in-memory ledger.
func NewIndexStateStore() *IndexStateStore {
	return &IndexStateStore{
		states: make(map[string]domain.IndexState),
	}
}

// Save stores or replaces the entry for a path.
func (s *IndexStateStore) Save(_ context.Context, state domain.IndexState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state.Path] = state
	return nil
}

// Get retrieves the entry for a path.
func (s *IndexStateStore) Get(_ context.Context, path string) (*domain.IndexState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &state, nil
}

// Delete removes the entry for a path.
func (s *IndexStateStore) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, path)
	return nil
}

// List returns all entries ordered by path.
func (s *IndexStateStore) List(_ context.Context) ([]domain.IndexState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	states := make([]domain.IndexState, 0, len(s.states))
	for _, st := range s.states {
		states = append(states, st)
	}
	sort.Slice(states, func(i, j int) bool {
		return states[i].Path < states[j].Path
	})
	return states, nil
}
