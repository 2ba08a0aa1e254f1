package cache

import (
	"sync"
	"time"
)

// Cache is a minimal TTL cache used for editing sessions and template handoffs.
type Cache[K comparable, V any] interface {
	Get(key K) (V, bool)
	Set(key K, value V, ttl time.Duration)
	Take(key K) (V, bool)
	Delete(key K) bool
	Len() int
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

func (e entry[V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// TTLCache stores values in memory with per-entry TTLs. A zero TTL never expires.
type TTLCache[K comparable, V any] struct {
	mu    sync.Mutex
	items map[K]entry[V]
	now   func() time.Time
}

func NewTTLCache[K comparable, V any]() *TTLCache[K, V] {
	return &TTLCache[K, V]{items: make(map[K]entry[V]), now: time.Now}
}

// WithClock replaces the time source, for tests.
func (c *TTLCache[K, V]) WithClock(now func() time.Time) *TTLCache[K, V] {
	c.now = now
	return c
}

// Get returns a cached value if it exists and has not expired.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	var zero V
	if c == nil {
		return zero, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[key]
	if !ok {
		return zero, false
	}
	if e.expired(c.now()) {
		delete(c.items, key)
		return zero, false
	}
	return e.value, true
}

// Set stores a value with the provided TTL.
func (c *TTLCache[K, V]) Set(key K, value V, ttl time.Duration) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.items[key] = entry[V]{value: value, expiresAt: expiry(c.now(), ttl)}
	c.mu.Unlock()
}

// Touch extends the TTL of a live entry and returns its value. Missing or
// expired keys are left absent.
func (c *TTLCache[K, V]) Touch(key K, ttl time.Duration) (V, bool) {
	var zero V
	if c == nil {
		return zero, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	e, ok := c.items[key]
	if !ok {
		return zero, false
	}
	if e.expired(now) {
		delete(c.items, key)
		return zero, false
	}
	c.items[key] = entry[V]{value: e.value, expiresAt: expiry(now, ttl)}
	return e.value, true
}

// GetOrCreate returns the live value for key, or stores the result of create
// when there is none. Either way the entry's TTL is renewed. create runs
// under the cache lock and must not call back into the cache.
func (c *TTLCache[K, V]) GetOrCreate(key K, ttl time.Duration, create func() V) V {
	if c == nil {
		return create()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	e, ok := c.items[key]
	if !ok || e.expired(now) {
		e.value = create()
	}
	c.items[key] = entry[V]{value: e.value, expiresAt: expiry(now, ttl)}
	return e.value
}

func expiry(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}

// Take returns and removes a live entry in one step.
func (c *TTLCache[K, V]) Take(key K) (V, bool) {
	var zero V
	if c == nil {
		return zero, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[key]
	if !ok {
		return zero, false
	}
	delete(c.items, key)
	if e.expired(c.now()) {
		return zero, false
	}
	return e.value, true
}

// Delete removes an entry and reports whether a live one was present.
func (c *TTLCache[K, V]) Delete(key K) bool {
	_, ok := c.Take(key)
	return ok
}

// Len counts live entries, dropping expired ones on the way.
func (c *TTLCache[K, V]) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.purgeLocked()
	return len(c.items)
}

// Purge drops expired entries and returns how many were removed.
func (c *TTLCache[K, V]) Purge() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.purgeLocked()
}

func (c *TTLCache[K, V]) purgeLocked() int {
	now := c.now()
	n := 0
	for k, e := range c.items {
		if e.expired(now) {
			delete(c.items, k)
			n++
		}
	}
	return n
}
