package cache

import (
	"context"
	"errors"
	"time"
)

// LayeredCache reads through a fast local tier backed by a shared tier.
type LayeredCache struct {
	local  Service
	shared Service
}

// NewLayeredCache stacks a local cache in front of a shared one.
func NewLayeredCache(local, shared Service) *LayeredCache {
	return &LayeredCache{local: local, shared: shared}
}

func (lc *LayeredCache) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	if err := lc.local.Set(ctx, key, value, expiration); err != nil {
		return err
	}
	return lc.shared.Set(ctx, key, value, expiration)
}

func (lc *LayeredCache) Get(ctx context.Context, key string) ([]byte, error) {
	if b, err := lc.local.Get(ctx, key); err == nil {
		return b, nil
	} else if !errors.Is(err, ErrCacheMiss) {
		return nil, err
	}

	b, err := lc.shared.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	// backfill the local tier; shared tier owns the authoritative TTL
	_ = lc.local.Set(ctx, key, b, time.Hour)
	return b, nil
}

func (lc *LayeredCache) Delete(ctx context.Context, keys ...string) error {
	if err := lc.local.Delete(ctx, keys...); err != nil {
		return err
	}
	return lc.shared.Delete(ctx, keys...)
}

func (lc *LayeredCache) Close() error {
	if err := lc.local.Close(); err != nil {
		return err
	}
	return lc.shared.Close()
}
