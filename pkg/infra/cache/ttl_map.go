package cache

import (
	"sync"
	"time"
)

// TTLEntry represents an entry in TTLMap
type TTLEntry struct {
	Value      interface{}
	ComputedAt time.Time
}

// TTLMap is a thread-safe map whose entries expire a fixed duration after
// they were written. Expired entries are treated as absent and dropped on
// read; there is no background eviction.
type TTLMap struct {
	data map[string]*TTLEntry
	mu   sync.RWMutex
	ttl  time.Duration
}

// NewTTLMap creates a new TTLMap with the specified TTL
func NewTTLMap(ttl time.Duration) *TTLMap {
	return &TTLMap{
		data: make(map[string]*TTLEntry),
		ttl:  ttl,
	}
}

// Get retrieves a value from the TTLMap if it hasn't expired
func (m *TTLMap) Get(key string) (interface{}, bool) {
	m.mu.RLock()
	entry, exists := m.data[key]
	if !exists {
		m.mu.RUnlock()
		return nil, false
	}
	isExpired := time.Since(entry.ComputedAt) >= m.ttl
	value := entry.Value
	m.mu.RUnlock()

	if isExpired {
		m.mu.Lock()
		if current, ok := m.data[key]; ok && time.Since(current.ComputedAt) >= m.ttl {
			delete(m.data, key)
		}
		m.mu.Unlock()
		return nil, false
	}

	return value, true
}

// Set adds or updates a value in the TTLMap, superseding any prior entry.
func (m *TTLMap) Set(key string, value interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = &TTLEntry{
		Value:      value,
		ComputedAt: time.Now(),
	}
}

// Delete removes a key from the TTLMap
func (m *TTLMap) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
}

// Clear removes all entries and returns how many were removed.
func (m *TTLMap) Clear() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := len(m.data)
	m.data = make(map[string]*TTLEntry)
	return removed
}

// Len reports the number of live and expired-but-unread entries.
func (m *TTLMap) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
