package cache

import (
	"sync"
	"time"
)

// entry stores a cached value and its absolute expiration timestamp.
type entry[V any] struct {
	value     V
	expiresAt time.Time // zero means no expiration
}

func (e entry[V]) expired(at time.Time) bool {
	return !e.expiresAt.IsZero() && at.After(e.expiresAt)
}

// TTLCache is a goroutine-safe map with per-entry expiry. Expired entries are
// invisible to readers and removed by PurgeExpired or the janitor.
type TTLCache[K comparable, V any] struct {
	mu    sync.Mutex
	items map[K]entry[V]
	now   func() time.Time
}

// New constructs an empty TTLCache.
func New[K comparable, V any]() *TTLCache[K, V] {
	return &TTLCache[K, V]{
		items: make(map[K]entry[V]),
		now:   time.Now,
	}
}

func (c *TTLCache[K, V]) deadline(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return c.now().Add(ttl)
}

// Get returns the value and whether it was present and not expired.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok || e.expired(c.now()) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key. If ttl <= 0, the entry does not expire.
func (c *TTLCache[K, V]) Set(key K, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = entry[V]{value: value, expiresAt: c.deadline(ttl)}
}

// GetOrCreate returns the live value under key, building it with create when
// absent or expired. Either way the entry's expiry is pushed to now+ttl, so
// keys that keep being used stay cached.
func (c *TTLCache[K, V]) GetOrCreate(key K, ttl time.Duration, create func() V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok || e.expired(c.now()) {
		e = entry[V]{value: create()}
	}
	e.expiresAt = c.deadline(ttl)
	c.items[key] = e
	return e.value
}

// Delete removes a key if present.
func (c *TTLCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Len returns the number of non-expired items currently stored.
func (c *TTLCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	at := c.now()
	count := 0
	for _, e := range c.items {
		if !e.expired(at) {
			count++
		}
	}
	return count
}

// PurgeExpired removes expired entries.
func (c *TTLCache[K, V]) PurgeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	at := c.now()
	for k, e := range c.items {
		if e.expired(at) {
			delete(c.items, k)
		}
	}
}

// StartJanitor purges expired entries every interval until the returned stop
// function is called.
func (c *TTLCache[K, V]) StartJanitor(interval time.Duration) (stop func()) {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				c.PurgeExpired()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}
