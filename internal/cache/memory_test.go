package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCacheSetGetDelete(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()
	ctx := context.Background()

	if _, err := c.Get(ctx, "missing"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := c.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Fatalf("get: %q, %v", got, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected miss after delete, got %v", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected expired entry to miss, got %v", err)
	}
}

func TestMemoryCacheGetOrSetComputesOnce(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()
	ctx := context.Background()

	calls := 0
	fetch := func() ([]byte, error) {
		calls++
		return []byte("fresh"), nil
	}

	for i := 0; i < 3; i++ {
		got, err := c.GetOrSet(ctx, "k", time.Minute, fetch)
		if err != nil || string(got) != "fresh" {
			t.Fatalf("iteration %d: %q, %v", i, got, err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected a single fetch, got %d", calls)
	}
}

func TestMemoryCacheGetOrSetDoesNotCacheFailures(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()
	ctx := context.Background()

	sentinel := errors.New("fetch failed")
	if _, err := c.GetOrSet(ctx, "k", time.Minute, func() ([]byte, error) {
		return nil, sentinel
	}); !errors.Is(err, sentinel) {
		t.Fatalf("expected fetch error to propagate, got %v", err)
	}

	got, err := c.GetOrSet(ctx, "k", time.Minute, func() ([]byte, error) {
		return []byte("later"), nil
	})
	if err != nil || string(got) != "later" {
		t.Fatalf("failed fetch must not poison the key: %q, %v", got, err)
	}
}

func TestMemoryCacheGetReturnsCopy(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("abc"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	first, _ := c.Get(ctx, "k")
	first[0] = 'X'

	second, _ := c.Get(ctx, "k")
	if string(second) != "abc" {
		t.Fatalf("cached value was mutated through a returned slice: %q", second)
	}
}
