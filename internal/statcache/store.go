// Package statcache persists upstream stat responses between fetches.
//
// A Store only keeps bytes and the time they were fetched; freshness is
// decided by the caller.
package statcache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Drivers accepted by New.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Entry is one cached response body.
type Entry struct {
	Body      []byte
	FetchedAt time.Time
}

// Store is a keyed cache of response bodies.
type Store interface {
	// Get returns the entry for key. The bool is false when nothing is
	// stored under key.
	Get(ctx context.Context, key string) (Entry, bool, error)
	Put(ctx context.Context, key string, entry Entry) error
	Close() error
}

// New opens the store selected by driver. path is only used by the sqlite
// driver.
func New(driver, path string) (Store, error) {
	switch driver {
	case "", DriverMemory:
		return NewMemoryStore(), nil
	case DriverSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown cache driver %q", driver)
	}
}

// MemoryStore keeps entries in a map for the lifetime of the process.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (Entry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[key]
	if !ok {
		return Entry{}, false, nil
	}

	return Entry{Body: append([]byte(nil), e.Body...), FetchedAt: e.FetchedAt}, true, nil
}

func (m *MemoryStore) Put(_ context.Context, key string, entry Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = Entry{Body: append([]byte(nil), entry.Body...), FetchedAt: entry.FetchedAt}
	return nil
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]Entry)
	return nil
}
