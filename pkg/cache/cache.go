// Package cache provides the injected TTL cache abstraction used for
// read-through member lists. Keeping it an explicit dependency (rather than
// process-global state) makes TTL behavior testable and avoids hidden
// cross-request coupling; entries are a read-mostly convenience and never a
// source of truth for security-sensitive decisions.
package cache

import (
	"sync"
	"time"
)

// Cache stores opaque byte values with a per-entry TTL.
type Cache interface {
	// Get returns the value and whether a live entry exists.
	Get(key string) ([]byte, bool)
	// Set stores a value; ttl <= 0 stores without expiry.
	Set(key string, value []byte, ttl time.Duration)
}

type memoryEntry struct {
	value    []byte
	deadline time.Time
}

// Memory is a mutex-guarded in-process cache, safe for concurrent readers.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	// now is swappable for TTL tests.
	now func() time.Time
}

// NewMemory returns an empty in-process cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry), now: time.Now}
}

// Get implements Cache. Expired entries read as misses and are dropped
// lazily on the next write.
func (c *Memory) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !e.deadline.IsZero() && c.now().After(e.deadline) {
		return nil, false
	}
	return e.value, true
}

// Set implements Cache.
func (c *Memory) Set(key string, value []byte, ttl time.Duration) {
	var deadline time.Time
	if ttl > 0 {
		deadline = c.now().Add(ttl)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		if !e.deadline.IsZero() && c.now().After(e.deadline) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = memoryEntry{value: value, deadline: deadline}
}

// SetClock overrides the time source. Test helper.
func (c *Memory) SetClock(now func() time.Time) { c.now = now }
