package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/hupe1980/modelcompat/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRU_GetSet(t *testing.T) {
	c := NewLRU(1024, nil)

	c.Set("a.json", []byte("alpha"))
	got, ok := c.Get("a.json")
	require.True(t, ok)
	assert.Equal(t, "alpha", string(got))

	_, ok = c.Get("missing.json")
	assert.False(t, ok)

	assert.Equal(t, Stats{Hits: 1, Misses: 1}, c.Stats())
}

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRU(10, nil)

	c.Set("a", []byte("aaaa"))
	c.Set("b", []byte("bbbb"))
	_, _ = c.Get("a") // a is now most recent
	c.Set("c", []byte("cccc"))

	_, ok := c.Get("b")
	assert.False(t, ok, "b should have been evicted")
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, int64(8), c.Size())
	assert.Equal(t, int64(1), c.Stats().Evictions)
}

func TestLRU_OversizedNotCached(t *testing.T) {
	c := NewLRU(4, nil)
	c.Set("big", []byte("too large"))

	assert.Equal(t, 0, c.Len())
	assert.Equal(t, int64(0), c.Size())
}

func TestLRU_Replace(t *testing.T) {
	c := NewLRU(100, nil)
	c.Set("a", []byte("one"))
	c.Set("a", []byte("three"))

	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "three", string(got))
	assert.Equal(t, int64(5), c.Size())
	assert.Equal(t, 1, c.Len())
}

func TestLRU_ResourceAccounting(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 6})
	c := NewLRU(100, rc)

	c.Set("a", []byte("aaaa"))
	assert.Equal(t, int64(4), rc.Usage().CachedBytes)

	// Over the controller limit: silently not cached.
	c.Set("b", []byte("bbbb"))
	_, ok := c.Get("b")
	assert.False(t, ok)
	assert.Equal(t, int64(4), rc.Usage().CachedBytes)

	c.Remove("a")
	assert.Equal(t, int64(0), rc.Usage().CachedBytes)
	assert.Equal(t, 0, c.Len())
}

func TestLRU_Concurrent(t *testing.T) {
	c := NewLRU(1<<20, nil)

	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				key := fmt.Sprintf("v%d.json", (g+i)%16)
				c.Set(key, []byte(key))
				if got, ok := c.Get(key); ok {
					assert.Equal(t, key, string(got))
				}
			}
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 16)
}
