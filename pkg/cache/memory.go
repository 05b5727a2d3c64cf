package cache

import (
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	value    []byte
	expireAt time.Time
}

func (m *memoryItem) expired() bool {
	return time.Now().After(m.expireAt)
}

// MemoryCache implements Service using in-process storage.
type MemoryCache struct {
	data   map[string]*memoryItem
	mutex  sync.RWMutex
	ticker *time.Ticker
	done   chan struct{}
}

// NewMemoryCache creates an in-memory cache with periodic cleanup.
func NewMemoryCache() *MemoryCache {
	mc := &MemoryCache{
		data:   make(map[string]*memoryItem),
		ticker: time.NewTicker(5 * time.Minute),
		done:   make(chan struct{}),
	}

	go mc.cleanupExpired()
	return mc
}

func (mc *MemoryCache) Set(_ context.Context, key string, value []byte, expiration time.Duration) error {
	if expiration <= 0 {
		expiration = 24 * time.Hour
	}

	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	mc.data[key] = &memoryItem{
		value:    value,
		expireAt: time.Now().Add(expiration),
	}
	return nil
}

func (mc *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	item, exists := mc.data[key]
	if !exists || item.expired() {
		if exists {
			delete(mc.data, key)
		}
		return nil, ErrCacheMiss
	}
	return item.value, nil
}

func (mc *MemoryCache) Delete(_ context.Context, keys ...string) error {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	for _, k := range keys {
		delete(mc.data, k)
	}
	return nil
}

func (mc *MemoryCache) Close() error {
	mc.ticker.Stop()
	close(mc.done)
	return nil
}

func (mc *MemoryCache) cleanupExpired() {
	for {
		select {
		case <-mc.done:
			return
		case <-mc.ticker.C:
			mc.mutex.Lock()
			for k, item := range mc.data {
				if item.expired() {
					delete(mc.data, k)
				}
			}
			mc.mutex.Unlock()
		}
	}
}
