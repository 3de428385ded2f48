package db

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// QueryCache memoizes per-user read results. Keys embed a per-user generation
// that Invalidate bumps, so a value computed before a write is never returned
// after it. A nil *QueryCache caches nothing.
type QueryCache struct {
	cache *ristretto.Cache[string, any]
	ttl   time.Duration

	generations struct {
		sync.RWMutex
		m map[int64]uint64
	}
}

func NewQueryCache(ttl time.Duration) (*QueryCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, any]{
		NumCounters: 100000, // number of keys to track frequency of
		MaxCost:     10000,
		BufferItems: 64, // number of keys per Get buffer

		// cost is counted in entries
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	c := &QueryCache{cache: cache, ttl: ttl}
	c.generations.m = make(map[int64]uint64)
	return c, nil
}

// Key builds a cache key for userID scoped to the user's current generation.
func (c *QueryCache) Key(userID int64, parts ...string) string {
	if c == nil {
		return ""
	}
	c.generations.RLock()
	gen := c.generations.m[userID]
	c.generations.RUnlock()
	return fmt.Sprintf("%d:%d:%s", userID, gen, strings.Join(parts, ":"))
}

func (c *QueryCache) Get(key string) (any, bool) {
	if c == nil || key == "" {
		return nil, false
	}
	return c.cache.Get(key)
}

func (c *QueryCache) Set(key string, value any) {
	if c == nil || key == "" {
		return
	}
	c.cache.SetWithTTL(key, value, 1, c.ttl)
}

// Invalidate drops every entry cached for userID.
func (c *QueryCache) Invalidate(userID int64) {
	if c == nil {
		return
	}
	c.generations.Lock()
	c.generations.m[userID]++
	c.generations.Unlock()
}

// Wait blocks until buffered writes are applied.
func (c *QueryCache) Wait() {
	if c == nil {
		return
	}
	c.cache.Wait()
}

func (c *QueryCache) Clear() {
	if c == nil {
		return
	}
	c.cache.Clear()
}

func (c *QueryCache) Close() {
	if c == nil {
		return
	}
	c.cache.Close()
}

// Cached returns the cached value for key or computes, stores and returns it.
func Cached[T any](c *QueryCache, key string, load func() (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	c.Set(key, v)
	return v, nil
}
