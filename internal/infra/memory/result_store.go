package memory

import (
	"context"
	"sync"

	"classquiz-service/internal/domain"
)

// ResultStore keeps finalized results in memory (dev mode and tests).
type ResultStore struct {
	mu      sync.RWMutex
	results []domain.Result
}

func NewResultStore() *ResultStore {
	return &ResultStore{}
}

func (s *ResultStore) SaveResult(_ context.Context, result domain.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
	return nil
}

// ListResults returns a copy of everything saved so far.
func (s *ResultStore) ListResults() []domain.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Result, len(s.results))
	copy(out, s.results)
	return out
}
