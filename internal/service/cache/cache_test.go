package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTLCacheExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewTTLCache()
	c.now = func() time.Time { return now }

	require.NoError(t, c.SetBytes(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, c.SetBytes(ctx, "b", []byte("2"), 0))

	b, ok, err := c.GetBytes(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("1"), b)

	now = now.Add(2 * time.Minute)
	_, ok, _ = c.GetBytes(ctx, "a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())

	_, ok, _ = c.GetBytes(ctx, "b")
	assert.True(t, ok)

	_, ok, _ = c.GetBytes(ctx, "missing")
	assert.False(t, ok)
}

func TestKeyIsStable(t *testing.T) {
	k1 := Key("stability", []byte(`{"closes":[1,2]}`))
	k2 := Key("stability", []byte(`{"closes":[1,2]}`))
	k3 := Key("stability", []byte(`{"closes":[1,3]}`))
	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.Contains(t, k1, "stability:")
}

func TestRedisCachePrefix(t *testing.T) {
	r := &RedisCache{prefix: "stabtrade"}
	assert.Equal(t, "stabtrade:k", r.key("k"))
	r.prefix = ""
	assert.Equal(t, "k", r.key("k"))
}

type countingCache struct {
	*TTLCache
	gets int
}

func (c *countingCache) GetBytes(ctx context.Context, key string) ([]byte, bool, error) {
	c.gets++
	return c.TTLCache.GetBytes(ctx, key)
}

func TestLayeredCachePromotesRemoteHits(t *testing.T) {
	ctx := context.Background()
	remote := &countingCache{TTLCache: NewTTLCache()}
	require.NoError(t, remote.SetBytes(ctx, "k", []byte("v"), time.Minute))

	lc := NewLayeredCache(remote, 10*time.Second)

	b, ok, err := lc.GetBytes(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), b)
	assert.Equal(t, 1, remote.gets)

	b, ok, err = lc.GetBytes(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), b)
	assert.Equal(t, 1, remote.gets, "second read must be served from memory")

	_, ok, err = lc.GetBytes(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLayeredCacheWritesThrough(t *testing.T) {
	ctx := context.Background()
	remote := NewTTLCache()
	lc := NewLayeredCache(remote, time.Second)

	require.NoError(t, lc.SetBytes(ctx, "k", []byte("v"), time.Minute))
	b, ok, _ := remote.GetBytes(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), b)
	assert.Equal(t, 1, lc.mem.Len())
}
