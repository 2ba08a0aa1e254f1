package cache

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLCache(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	c := NewTTLCache[string, int]().WithClock(func() time.Time { return now })

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, 0)

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, c.Len())

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok, "expired entry")
	assert.Equal(t, 1, c.Len())

	v, ok = c.Take("b")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
	_, ok = c.Take("b")
	assert.False(t, ok, "take consumes the entry")

	c.Set("c", 3, time.Second)
	assert.True(t, c.Delete("c"))
	assert.False(t, c.Delete("c"))
}

func TestTTLCache_Nil(t *testing.T) {
	var c *TTLCache[string, string]
	_, ok := c.Get("x")
	assert.False(t, ok)
	c.Set("x", "y", 0)
	assert.Equal(t, 0, c.Len())
}

func TestTTLCache_Purge(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	c := NewTTLCache[string, int]().WithClock(func() time.Time { return now })

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Hour)
	c.Set("c", 3, 0)
	assert.Equal(t, 0, c.Purge())

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, c.Purge())
	assert.Equal(t, 2, c.Len())
}

func TestTTLCache_Touch(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	c := NewTTLCache[string, int]().WithClock(func() time.Time { return now })

	c.Set("a", 1, time.Minute)
	now = now.Add(50 * time.Second)
	v, ok := c.Touch("a", time.Minute)
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	now = now.Add(50 * time.Second)
	_, ok = c.Get("a")
	assert.True(t, ok, "touch renewed the ttl")

	_, ok = c.Touch("missing", time.Minute)
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len(), "touch never creates entries")

	now = now.Add(2 * time.Minute)
	_, ok = c.Touch("a", time.Minute)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestTTLCache_GetOrCreate(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	c := NewTTLCache[string, int]().WithClock(func() time.Time { return now })

	created := 0
	create := func() int { created++; return created }

	assert.Equal(t, 1, c.GetOrCreate("a", time.Minute, create))
	assert.Equal(t, 1, c.GetOrCreate("a", time.Minute, create))
	assert.Equal(t, 1, created)

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 2, c.GetOrCreate("a", time.Minute, create), "expired entries are replaced")
}

func TestTTLCache_GetOrCreateConcurrent(t *testing.T) {
	c := NewTTLCache[string, *int]()
	var created atomic.Int32

	var wg sync.WaitGroup
	results := make([]*int, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.GetOrCreate("k", time.Minute, func() *int {
				created.Add(1)
				return new(int)
			})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), created.Load())
	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}
