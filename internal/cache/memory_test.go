// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestMemoryCache_BasicOperations(t *testing.T) {
	cache := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour})
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	if err := cache.Set(ctx, "key1", []byte("value1"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, err := cache.Get(ctx, "key1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(val) != "value1" {
		t.Errorf("expected value1, got %s", string(val))
	}

	has, err := cache.Has(ctx, "key1")
	if err != nil {
		t.Fatalf("Has failed: %v", err)
	}
	if !has {
		t.Error("expected key1 to exist")
	}

	if err := cache.Delete(ctx, "key1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := cache.Get(ctx, "key1"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCache_Expiration(t *testing.T) {
	cache := NewMemoryCache(MemoryCacheOptions{})
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	_ = cache.Set(ctx, "short", []byte("v"), 10*time.Millisecond)
	_ = cache.Set(ctx, "forever", []byte("v"), 0)

	time.Sleep(30 * time.Millisecond)

	if _, err := cache.Get(ctx, "short"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected short to expire, got %v", err)
	}
	if _, err := cache.Get(ctx, "forever"); err != nil {
		t.Errorf("expected forever to persist with zero default TTL, got %v", err)
	}
}

func TestMemoryCache_ValueIsCopied(t *testing.T) {
	cache := NewMemoryCache(MemoryCacheOptions{})
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	in := []byte("abc")
	_ = cache.Set(ctx, "k", in, 0)
	in[0] = 'x'

	out, _ := cache.Get(ctx, "k")
	if string(out) != "abc" {
		t.Errorf("stored value mutated through input slice: %s", out)
	}
	out[0] = 'y'
	again, _ := cache.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("stored value mutated through output slice: %s", again)
	}
}

func TestMemoryCache_DeleteByPrefix(t *testing.T) {
	cache := NewMemoryCache(MemoryCacheOptions{})
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	_ = cache.Set(ctx, "listing:events:", []byte("1"), 0)
	_ = cache.Set(ctx, "listing:events:x", []byte("1"), 0)
	_ = cache.Set(ctx, "listing:gallery:", []byte("1"), 0)

	if err := cache.DeleteByPrefix(ctx, "listing:events:"); err != nil {
		t.Fatalf("DeleteByPrefix failed: %v", err)
	}

	if has, _ := cache.Has(ctx, "listing:events:x"); has {
		t.Error("expected listing:events:x to be removed")
	}
	if has, _ := cache.Has(ctx, "listing:gallery:"); !has {
		t.Error("expected listing:gallery: to remain")
	}
}

func TestMemoryCache_Closed(t *testing.T) {
	cache := NewMemoryCache(MemoryCacheOptions{CleanupInterval: time.Millisecond})
	_ = cache.Close()
	_ = cache.Close()
	ctx := context.Background()

	if _, err := cache.Get(ctx, "k"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Get after Close = %v, want ErrCacheClosed", err)
	}
	if err := cache.Set(ctx, "k", nil, 0); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Set after Close = %v, want ErrCacheClosed", err)
	}
}

func TestMemoryCache_Stats(t *testing.T) {
	cache := NewMemoryCache(MemoryCacheOptions{})
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	_ = cache.Set(ctx, "a", []byte("1"), 0)
	_, _ = cache.Get(ctx, "a")
	_, _ = cache.Get(ctx, "missing")

	s := cache.Stats()
	if s.Hits != 1 || s.Misses != 1 || s.Sets != 1 || s.Items != 1 {
		t.Errorf("unexpected stats %+v", s)
	}
	if s.HitRate != 50 {
		t.Errorf("HitRate = %v, want 50", s.HitRate)
	}
}

func TestMemoryCache_Concurrency(t *testing.T) {
	cache := NewMemoryCache(MemoryCacheOptions{})
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := string(rune('a' + n%5))
			_ = cache.Set(ctx, key, []byte{byte(n)}, 0)
			_, _ = cache.Get(ctx, key)
			_ = cache.DeleteByPrefix(ctx, "z")
		}(i)
	}
	wg.Wait()
}

type snapshot struct {
	Items []string `json:"items"`
}

func TestTypedCache(t *testing.T) {
	mem := NewMemory(time.Minute)
	defer func() { _ = mem.Close() }()
	ctx := context.Background()

	tc := NewTypedCache[snapshot](mem, "snap:", 0)
	if _, ok := tc.Get(ctx, "k"); ok {
		t.Fatal("expected miss on empty cache")
	}

	if err := tc.Set(ctx, "k", &snapshot{Items: []string{"a", "b"}}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, ok := tc.Get(ctx, "k")
	if !ok || len(got.Items) != 2 {
		t.Fatalf("Get = %+v, %v", got, ok)
	}
	if !tc.Has(ctx, "k") {
		t.Error("Has = false, want true")
	}

	if has, _ := mem.Has(ctx, "snap:k"); !has {
		t.Error("expected prefixed key in underlying cache")
	}

	_ = mem.Set(ctx, "snap:bad", []byte("{not json"), 0)
	if _, ok := tc.Get(ctx, "bad"); ok {
		t.Error("expected decode failure to count as miss")
	}

	if err := tc.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if tc.Has(ctx, "k") {
		t.Error("expected Clear to remove k")
	}
}
