package cache

import (
    "context"
    "errors"
    "testing"
    "time"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
    mc := NewMemoryCache()
    defer mc.Close()
    ctx := context.Background()

    if err := mc.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
        t.Fatalf("set: %v", err)
    }
    got, err := mc.Get(ctx, "k")
    if err != nil {
        t.Fatalf("get: %v", err)
    }
    if string(got) != "v" {
        t.Fatalf("unexpected value %q", got)
    }
}

func TestMemoryCacheMiss(t *testing.T) {
    mc := NewMemoryCache()
    defer mc.Close()

    if _, err := mc.Get(context.Background(), "absent"); !errors.Is(err, ErrCacheMiss) {
        t.Fatalf("expected miss, got %v", err)
    }
}

func TestMemoryCacheExpiry(t *testing.T) {
    mc := NewMemoryCache()
    defer mc.Close()
    ctx := context.Background()

    if err := mc.Set(ctx, "k", []byte("v"), time.Millisecond); err != nil {
        t.Fatalf("set: %v", err)
    }
    time.Sleep(5 * time.Millisecond)
    if _, err := mc.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
        t.Fatalf("expected expiry miss, got %v", err)
    }
}

func TestLayeredCacheBackfill(t *testing.T) {
    local := NewMemoryCache()
    shared := NewMemoryCache()
    lc := NewLayeredCache(local, shared)
    defer lc.Close()
    ctx := context.Background()

    if err := shared.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
        t.Fatalf("seed shared: %v", err)
    }
    got, err := lc.Get(ctx, "k")
    if err != nil {
        t.Fatalf("layered get: %v", err)
    }
    if string(got) != "v" {
        t.Fatalf("unexpected value %q", got)
    }
    // served locally afterwards
    if _, err := local.Get(ctx, "k"); err != nil {
        t.Fatalf("expected local backfill, got %v", err)
    }
}
