package cache

import (
	"context"
	"time"
)

// LayeredCache implements a two-level cache (L1: in-process, L2: shared).
type LayeredCache struct {
	mem    *TTLCache
	remote BytesCache
	l1TTL  time.Duration
}

// NewLayeredCache fronts remote with an in-process layer. Entries promoted
// from remote are kept in memory for at most l1TTL.
func NewLayeredCache(remote BytesCache, l1TTL time.Duration) *LayeredCache {
	return &LayeredCache{mem: NewTTLCache(), remote: remote, l1TTL: l1TTL}
}

func (lc *LayeredCache) GetBytes(ctx context.Context, key string) ([]byte, bool, error) {
	if b, ok, _ := lc.mem.GetBytes(ctx, key); ok {
		return b, true, nil
	}
	b, ok, err := lc.remote.GetBytes(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	_ = lc.mem.SetBytes(ctx, key, b, lc.l1TTL)
	return b, true, nil
}

// SetBytes writes through: remote first, then memory.
func (lc *LayeredCache) SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := lc.remote.SetBytes(ctx, key, value, ttl); err != nil {
		return err
	}
	l1 := lc.l1TTL
	if ttl > 0 && (l1 <= 0 || ttl < l1) {
		l1 = ttl
	}
	return lc.mem.SetBytes(ctx, key, value, l1)
}
