package storage

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps objects in process. Used in development and tests.
type MemoryStore struct {
	// BaseURL prefixes generated download links
	BaseURL string

	mu      sync.RWMutex
	objects map[string][]byte
}

var _ ObjectStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{BaseURL: "memory://reports", objects: make(map[string][]byte)}
}

// Put stores a copy of data
func (m *MemoryStore) Put(_ context.Context, key string, data []byte, _ string) error {
	if key == "" {
		return errEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = append([]byte(nil), data...)
	return nil
}

// Exists reports whether key was stored
func (m *MemoryStore) Exists(_ context.Context, key string) (bool, error) {
	if key == "" {
		return false, errEmptyKey
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok, nil
}

// DownloadURL returns a pseudo link; nothing serves it
func (m *MemoryStore) DownloadURL(_ context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errEmptyKey
	}
	return m.BaseURL + "/" + key, time.Now().Add(expiresIn), nil
}

// Get returns the stored bytes
func (m *MemoryStore) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[key]
	return data, ok
}
