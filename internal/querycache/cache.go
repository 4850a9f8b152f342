// Package querycache holds fetched backend results keyed by query. Writes
// are last-write-wins; mutations invalidate every key under a prefix so the
// next read refetches.
package querycache

import (
	"context"
	"strings"
	"sync"
	"time"
)

type entry struct {
	value     any
	fetchedAt time.Time
}

type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

func New() *Cache {
	return &Cache{entries: make(map[string]entry), now: time.Now}
}

// Key joins parts into a cache key; keys sharing leading parts share a prefix.
func Key(parts ...string) string {
	return strings.Join(parts, "/")
}

// Get returns the value stored under key and when it was fetched.
func (c *Cache) Get(key string) (any, time.Time, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	return e.value, e.fetchedAt, ok
}

// Set stores value under key, replacing whatever was there.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	c.entries[key] = entry{value: value, fetchedAt: c.now()}
	c.mu.Unlock()
}

// Invalidate drops every key equal to prefix or below it and returns how
// many were dropped.
func (c *Cache) Invalidate(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k := range c.entries {
		if k == prefix || strings.HasPrefix(k, prefix+"/") {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

// Len returns the number of cached keys.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Fetch returns the cached value under key when it is younger than maxAge,
// otherwise it calls fetch and caches the result. Errors are not cached.
func Fetch[T any](ctx context.Context, c *Cache, key string, maxAge time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	if v, at, ok := c.Get(key); ok && c.now().Sub(at) < maxAge {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}
	v, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	c.Set(key, v)
	return v, nil
}
