package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/ZanzyTHEbar/molencoder/molenc/vocab"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store for tests and throwaway runs.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (m *MemoryStore) Save(_ context.Context, name string, cs *vocab.Charset) (*Record, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("store: charset name cannot be empty")
	}
	if cs == nil {
		return nil, errors.New("store: charset cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := Record{ID: uuid.New(), Name: name, Charset: cs, CreatedAt: time.Now().UTC()}
	m.records[name] = rec
	return &rec, nil
}

func (m *MemoryStore) Load(_ context.Context, name string) (*vocab.Charset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCharsetNotFound, name)
	}
	return rec.Charset, nil
}

func (m *MemoryStore) List(_ context.Context) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Record, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec)
	}
	slices.SortFunc(out, func(a, b Record) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (m *MemoryStore) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[name]; !ok {
		return fmt.Errorf("%w: %s", ErrCharsetNotFound, name)
	}
	delete(m.records, name)
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}
