// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// Config selects and tunes a cache backend.
type Config struct {
	// Redis is used when non-nil; otherwise a memory cache is created.
	Redis redis.UniversalClient

	// Prefix is prepended to Redis keys.
	Prefix string

	DefaultTTL      time.Duration
	CleanupInterval time.Duration
}

// New creates the cache described by cfg.
func New(cfg Config) Cacher {
	if cfg.Redis != nil {
		return NewRedisCache(cfg.Redis, cfg.Prefix, cfg.DefaultTTL)
	}
	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      cfg.DefaultTTL,
		CleanupInterval: cfg.CleanupInterval,
	})
}

// NewMemory creates a memory cache with the given TTL and a one minute sweep.
func NewMemory(ttl time.Duration) Cacher {
	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      ttl,
		CleanupInterval: time.Minute,
	})
}
