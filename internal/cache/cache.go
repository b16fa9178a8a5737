// Package cache provides a TTL-bound result cache keyed by content
// fingerprints, used to skip recomputation of reports and vector indices
// for repeat requests.
package cache

import (
	"fmt"
	"time"
)

// DefaultTTL is how long a cache entry stays valid.
const DefaultTTL = 24 * time.Hour

// Entry is one cached payload with its creation timestamp. Payloads are
// opaque bytes; callers own the encoding.
type Entry struct {
	Key       string
	Payload   []byte
	CreatedAt time.Time
}

// Store persists cache entries. Implementations: MemoryStore, SQLiteStore.
type Store interface {
	// Get returns the entry for key, with ok=false on absence.
	Get(key string) (Entry, bool, error)

	// Put inserts or replaces the entry for entry.Key.
	Put(entry Entry) error

	// Delete removes the entry for key. Absent keys are not an error.
	Delete(key string) error
}

// Clock returns the current time. Injected for deterministic TTL tests.
type Clock func() time.Time

// Cache is a TTL cache over a Store. Expiry is lazy: entries past the TTL
// are evicted when read, there is no background sweep.
type Cache struct {
	store Store
	ttl   time.Duration
	now   Clock
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithTTL sets the entry time-to-live.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock sets the time source (for testing).
func WithClock(now Clock) CacheOption {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates a cache over the given store.
func New(store Store, opts ...CacheOption) *Cache {
	c := &Cache{
		store: store,
		ttl:   DefaultTTL,
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Get returns the payload for key, with ok=false on a miss. An entry older
// than the TTL counts as a miss and is evicted.
func (c *Cache) Get(key string) ([]byte, bool, error) {
	entry, ok, err := c.store.Get(key)
	if err != nil {
		return nil, false, fmt.Errorf("reading cache entry: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	if c.now().Sub(entry.CreatedAt) > c.ttl {
		if err := c.store.Delete(key); err != nil {
			return nil, false, fmt.Errorf("evicting expired entry: %w", err)
		}
		return nil, false, nil
	}

	return entry.Payload, true, nil
}

// Put stores payload under key, stamped with the current time.
func (c *Cache) Put(key string, payload []byte) error {
	entry := Entry{
		Key:       key,
		Payload:   payload,
		CreatedAt: c.now(),
	}
	if err := c.store.Put(entry); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}
