package db

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *QueryCache {
	t.Helper()
	c, err := NewQueryCache(time.Minute)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestQueryCacheSetGet(t *testing.T) {
	c := newTestCache(t)

	key := c.Key(7, "totals", "2024-01-01", "2024-01-31")
	c.Set(key, "value")
	c.Wait()

	v, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, "value", v)
}

func TestQueryCacheInvalidateChangesKey(t *testing.T) {
	c := newTestCache(t)

	before := c.Key(7, "count")
	c.Set(before, 3)
	c.Wait()

	c.Invalidate(7)
	after := c.Key(7, "count")
	assert.NotEqual(t, before, after)

	_, ok := c.Get(after)
	assert.False(t, ok)

	assert.Equal(t, c.Key(8, "count"), c.Key(8, "count"), "other users keep their generation")
}

func TestCachedLoadsOnce(t *testing.T) {
	c := newTestCache(t)
	calls := 0
	load := func() (int, error) {
		calls++
		return 42, nil
	}

	key := c.Key(1, "answer")
	v, err := Cached(c, key, load)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	c.Wait()

	v, err = Cached(c, key, load)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, calls)
}

func TestCachedDoesNotStoreErrors(t *testing.T) {
	c := newTestCache(t)
	key := c.Key(1, "broken")

	_, err := Cached(c, key, func() (int, error) { return 0, errors.New("boom") })
	assert.Error(t, err)
	c.Wait()

	_, ok := c.Get(key)
	assert.False(t, ok)
}

func TestNilQueryCacheIsNoop(t *testing.T) {
	var c *QueryCache
	c.Set(c.Key(1, "x"), 1)
	c.Invalidate(1)
	c.Wait()

	_, ok := c.Get("anything")
	assert.False(t, ok)

	v, err := Cached(c, c.Key(1, "x"), func() (string, error) { return "fresh", nil })
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
}
