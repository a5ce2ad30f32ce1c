// Package storage provides schedule cache implementations.
package storage

import (
	"context"
	"sync"

	"github.com/hammamikhairi/ottoplan/internal/domain"
	"github.com/hammamikhairi/ottoplan/internal/logger"
)

// Compile-time interface check.
var _ domain.ScheduleStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory schedule cache. Safe for concurrent access.
// Schedules are copied on the way in and out so callers never share state
// with the cache.
type MemoryStore struct {
	mu        sync.RWMutex
	schedules map[string]*domain.Schedule
	log       *logger.Logger
}

// NewMemoryStore creates an empty in-memory schedule cache.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		schedules: make(map[string]*domain.Schedule),
		log:       log,
	}
}

// Save stores a schedule. Overwrites if the key already exists.
func (s *MemoryStore) Save(ctx context.Context, key string, schedule *domain.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Debug("saving schedule %s (recipe=%s, mode=%s)", key, schedule.RecipeID, schedule.Mode)
	s.schedules[key] = schedule.Clone()
	return nil
}

// Load retrieves a schedule by key.
func (s *MemoryStore) Load(ctx context.Context, key string) (*domain.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sched, ok := s.schedules[key]
	if !ok {
		s.log.Debug("schedule not found: %s", key)
		return nil, domain.ErrNotFound
	}
	return sched.Clone(), nil
}

// Delete removes a schedule by key.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.schedules[key]; !ok {
		return domain.ErrNotFound
	}
	delete(s.schedules, key)
	s.log.Debug("deleted schedule %s", key)
	return nil
}

// Len returns the number of cached schedules.
func (s *MemoryStore) Len(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.schedules), nil
}
