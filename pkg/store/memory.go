package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/matzehuels/sourceflow/pkg/errors"
	"github.com/matzehuels/sourceflow/pkg/source"
)

// MemoryStore is an in-memory Store for development and testing.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]ConfigRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]ConfigRecord)}
}

// Publish stores config under name, replacing any previous version.
func (s *MemoryStore) Publish(ctx context.Context, name string, config source.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[name] = ConfigRecord{Name: name, Config: config, UpdatedAt: time.Now().UTC()}
	return nil
}

// Fetch retrieves a published config by name.
func (s *MemoryStore) Fetch(ctx context.Context, name string) (*ConfigRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "config %q was not found in the store", name)
	}
	return &record, nil
}

// List returns all published records sorted by name.
func (s *MemoryStore) List(ctx context.Context) ([]ConfigRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]ConfigRecord, 0, len(s.records))
	for _, record := range s.records {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Name < records[j].Name })
	return records, nil
}

// Delete removes a published config.
func (s *MemoryStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[name]; !ok {
		return errors.New(errors.ErrCodeNotFound, "config %q was not found in the store", name)
	}
	delete(s.records, name)
	return nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

var _ Store = (*MemoryStore)(nil)
