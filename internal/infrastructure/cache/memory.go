package cache

import (
	"sync"
	"time"
)

// SeenKeys is a thread-safe in-memory set of composite bid keys with TTL
// support. The orchestrator consults it before handing a bid to the store so
// overlapping pages within one run cost no round trip; the storage-engine
// unique constraint stays the source of truth.
type SeenKeys struct {
	ttl   time.Duration
	data  map[string]time.Time
	mutex sync.RWMutex
}

// NewSeenKeys creates a seen-key set. A non-positive ttl defaults to one hour,
// comfortably longer than any single run.
func NewSeenKeys(ttl time.Duration) *SeenKeys {
	if ttl <= 0 {
		ttl = time.Hour
	}

	c := &SeenKeys{
		ttl:  ttl,
		data: make(map[string]time.Time),
	}

	// Cleanup goroutine removes expired entries every 10 minutes
	go c.cleanupExpired()

	return c
}

// Seen reports whether the key was marked within the TTL
func (c *SeenKeys) Seen(key string) bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	expiration, exists := c.data[key]
	if !exists {
		return false
	}

	return time.Now().Before(expiration)
}

// Mark records the key, refreshing its expiration
func (c *SeenKeys) Mark(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = time.Now().Add(c.ttl)
}

// Size returns the current number of keys (for debugging/monitoring)
func (c *SeenKeys) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Clear removes all keys
func (c *SeenKeys) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]time.Time)
}

// cleanupExpired removes expired entries periodically
func (c *SeenKeys) cleanupExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mutex.Lock()
		now := time.Now()
		for key, expiration := range c.data {
			if now.After(expiration) {
				delete(c.data, key)
			}
		}
		c.mutex.Unlock()
	}
}
