// Package memory holds in-memory store implementations used by tests and
// by local development without a database.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"crowdwatch-monitor/internal/models"
	"crowdwatch-monitor/internal/store"
)

// ReadingStore is a mutex-guarded in-memory reading store.
type ReadingStore struct {
	mu     sync.RWMutex
	nextID int
	items  []models.Reading
}

func NewReadingStore() *ReadingStore {
	return &ReadingStore{}
}

// Seed inserts readings directly, assigning IDs, without validation.
func (s *ReadingStore) Seed(readings ...models.Reading) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range readings {
		s.nextID++
		if r.ID == "" {
			r.ID = fmt.Sprintf("r-%d", s.nextID)
		}
		s.items = append(s.items, r)
	}
}

func (s *ReadingStore) List(_ context.Context, opts store.ListOptions) ([]models.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Reading, len(s.items))
	copy(out, s.items)

	switch opts.OrderBy {
	case "", "-timestamp":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	case "timestamp":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	default:
		return nil, fmt.Errorf("unsupported order %q", opts.OrderBy)
	}

	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (s *ReadingStore) Create(_ context.Context, r models.Reading) (models.Reading, error) {
	if !models.ValidLocation(r.Location) {
		return models.Reading{}, fmt.Errorf("unknown location %q", r.Location)
	}
	if r.PeopleCount < 0 {
		return models.Reading{}, fmt.Errorf("people_count must be non-negative, got %d", r.PeopleCount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	r.ID = fmt.Sprintf("r-%d", s.nextID)
	s.items = append(s.items, r)
	return r, nil
}

func (s *ReadingStore) Update(_ context.Context, id string, patch store.ReadingPatch) (models.Reading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		if patch.AlertTriggered != nil {
			s.items[i].AlertTriggered = *patch.AlertTriggered
		}
		return s.items[i], nil
	}
	return models.Reading{}, store.ErrNotFound
}

func (s *ReadingStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// SettingsStore is a mutex-guarded in-memory settings store.
type SettingsStore struct {
	mu     sync.RWMutex
	nextID int
	items  []models.ThresholdConfig
}

func NewSettingsStore() *SettingsStore {
	return &SettingsStore{}
}

func (s *SettingsStore) List(_ context.Context) ([]models.ThresholdConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ThresholdConfig, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *SettingsStore) Create(_ context.Context, cfg models.ThresholdConfig) (models.ThresholdConfig, error) {
	if err := cfg.Validate(); err != nil {
		return models.ThresholdConfig{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	cfg.ID = fmt.Sprintf("s-%d", s.nextID)
	s.items = append(s.items, cfg)
	return cfg, nil
}

func (s *SettingsStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
