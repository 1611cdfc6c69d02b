package store

import (
	"errors"
	"sync"

	"github.com/i474232898/weather-forecast-chart/internal/weather"
)

var (
	// ErrNotFound is returned when no payload has been stored for a location.
	ErrNotFound = errors.New("no forecast payload for location")
)

// MemoryStore is a concurrency-safe in-memory store holding only the newest
// payload per location.
type MemoryStore struct {
	mu sync.RWMutex

	// key: location key
	data map[string]weather.Snapshot
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]weather.Snapshot),
	}
}

// SavePayload replaces the stored snapshot unless the stored payload was
// issued later than the incoming one. Equal issue times replace, so a
// re-fetch of the same forecast still refreshes FetchedAt.
func (s *MemoryStore) SavePayload(loc weather.Location, snapshot weather.Snapshot) bool {
	key := loc.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.data[key]; ok && cur.Payload.IssuedAt() > snapshot.Payload.IssuedAt() {
		return false
	}
	s.data[key] = snapshot
	return true
}

// GetLatest returns the stored snapshot for a location.
func (s *MemoryStore) GetLatest(loc weather.Location) (weather.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, ok := s.data[loc.Key()]
	if !ok {
		return weather.Snapshot{}, ErrNotFound
	}
	return snapshot, nil
}
