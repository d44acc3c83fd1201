package cache

import (
	"context"
	"sync"
	"time"

	"github.com/vfg2006/agency-metrics-api/internal/domain"
)

// MemoryStore guarda entradas por chave; Set sempre troca o ponteiro inteiro
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*domain.AggregationCacheEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*domain.AggregationCacheEntry),
		now:     time.Now,
	}
}

// WithClock troca o relógio usado para decidir a validade
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) Get(_ context.Context, key string) (*domain.AggregationCacheEntry, bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || !entry.IsFresh(s.now()) {
		return nil, false, nil
	}
	return entry, true, nil
}

func (s *MemoryStore) Set(_ context.Context, entry *domain.AggregationCacheEntry) error {
	if entry == nil || entry.Key == "" {
		return nil
	}

	s.mu.Lock()
	s.entries[entry.Key] = entry
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) DeleteByClient(_ context.Context, clientID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, entry := range s.entries {
		if entry.ClientID == clientID {
			delete(s.entries, key)
			removed++
		}
	}
	return removed, nil
}

// Purge remove entradas vencidas em now
func (s *MemoryStore) Purge(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, entry := range s.entries {
		if !entry.IsFresh(now) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed, nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
