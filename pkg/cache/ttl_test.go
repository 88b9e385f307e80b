package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTL_GetSet(t *testing.T) {
	c, err := NewTTL[string, float64](4, time.Minute)
	require.NoError(t, err)

	_, ok := c.Get("ENSG-1")
	assert.False(t, ok)

	c.Set("ENSG-1", 0.9)
	got, ok := c.Get("ENSG-1")
	require.True(t, ok)
	assert.Equal(t, 0.9, got)

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestTTL_Expiry(t *testing.T) {
	c, err := NewTTL[string, string](4, 10*time.Millisecond)
	require.NoError(t, err)

	c.Set("k", "v")
	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestTTL_Eviction(t *testing.T) {
	c, err := NewTTL[int, int](2, time.Minute)
	require.NoError(t, err)

	c.Set(1, 1)
	c.Set(2, 2)
	c.Set(3, 3)

	_, ok := c.Get(1)
	assert.False(t, ok, "oldest entry evicted at capacity")
	_, ok = c.Get(3)
	assert.True(t, ok)
}
