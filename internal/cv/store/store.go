// Package store persists the CV snapshot of each editing session.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/jobscout/jobscout/backend/go-services/internal/cv"
)

// ErrEmptyKey is returned when a store is called without an owner key.
var ErrEmptyKey = errors.New("store: empty owner key")

// Store keeps one snapshot per owner key. Writes are last-write-wins.
type Store interface {
	// Load returns nil, nil when nothing is stored under key.
	Load(ctx context.Context, key string) (*cv.Document, error)
	Save(ctx context.Context, key string, doc cv.Document) error
	Clear(ctx context.Context, key string) error
}

// MemoryStore is an in-process Store used in tests and local development.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]cv.Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]cv.Document)}
}

func (m *MemoryStore) Load(_ context.Context, key string) (*cv.Document, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.docs[key]
	if !ok {
		return nil, nil
	}
	out := d.Clone()
	return &out, nil
}

func (m *MemoryStore) Save(_ context.Context, key string, doc cv.Document) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[key] = doc.Clone()
	return nil
}

func (m *MemoryStore) Clear(_ context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, key)
	return nil
}

// Len reports how many snapshots are held.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}
