package cache

import (
	"context"
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a concurrency-safe map whose entries expire after a TTL. Entries are
// stored by pointer so V need not be comparable.
type Cache[K comparable, V any] struct {
	items sync.Map
	now   func() time.Time
}

func New[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{now: time.Now}
}

// Set stores value under key until ttl elapses.
func (c *Cache[K, V]) Set(key K, value V, ttl time.Duration) {
	c.items.Store(key, &entry[V]{value: value, expiresAt: c.now().Add(ttl)})
}

// Get returns the value for key. Expired entries are removed and reported as missing.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	var zero V
	val, ok := c.items.Load(key)
	if !ok {
		return zero, false
	}

	e := val.(*entry[V])
	if c.now().After(e.expiresAt) {
		c.items.CompareAndDelete(key, val)
		return zero, false
	}
	return e.value, true
}

// Remember stores value under key unless a live entry already exists. It
// reports whether the value was stored, so callers can run a side effect at
// most once per ttl.
func (c *Cache[K, V]) Remember(key K, value V, ttl time.Duration) bool {
	fresh := &entry[V]{value: value, expiresAt: c.now().Add(ttl)}
	for {
		old, loaded := c.items.LoadOrStore(key, fresh)
		if !loaded {
			return true
		}
		if !c.now().After(old.(*entry[V]).expiresAt) {
			return false
		}
		if c.items.CompareAndSwap(key, old, fresh) {
			return true
		}
	}
}

// GetOrLoad returns the live value for key, calling load and storing its result
// for ttl when there is none. Errors from load are returned and not cached.
func (c *Cache[K, V]) GetOrLoad(key K, ttl time.Duration, load func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err := load()
	if err != nil {
		var zero V
		return zero, err
	}
	c.Set(key, v, ttl)
	return v, nil
}

func (c *Cache[K, V]) Delete(key K) {
	c.items.Delete(key)
}

// Cleanup removes expired entries.
func (c *Cache[K, V]) Cleanup() {
	now := c.now()
	c.items.Range(func(key, value any) bool {
		if now.After(value.(*entry[V]).expiresAt) {
			c.items.CompareAndDelete(key, value)
		}
		return true
	})
}

// Janitor runs Cleanup every interval until ctx is done.
func (c *Cache[K, V]) Janitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Cleanup()
		}
	}
}
