// Package storage wraps the process-wide persisted key-value state
// (token, cached profile, theme) behind a small port so it can be
// swapped or mocked in tests. Writes are last-writer-wins; the session
// store is the sole authorized mutator of the auth keys, other
// components only read them.
package storage

import "sync"

// Well-known persisted keys
const (
	KeyAuthToken = "auth_token"
	KeyUser      = "user"
	KeyTheme     = "theme"
	KeyAppDate   = "app_date"
)

// Store is the persisted key-value port. Get is a best-effort
// synchronous read: implementations report a miss rather than an error
// so hot paths (the request interceptor) never block on failure
// handling.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
}

// Memory is an in-memory Store used by tests and as a fallback when no
// durable store can be opened.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Get implements Store
func (m *Memory) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]
	return value, ok
}

// Set implements Store
func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	return nil
}

// Remove implements Store
func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}
