// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package listing implements the fetch, filter and paginate pattern shared
// by the blog, event and gallery views.
//
// A Source keeps the last successfully fetched collection per key (the
// server-side filter, "" for none). Loads replace the collection wholesale
// and never clear it on failure. Search and pagination are pure functions
// over the collection; see Derive.
package listing

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/DheerajVerma945/GISCC/internal/cache"
)

// Item is a content record with a stable API identifier.
type Item interface {
	ItemID() string
	// SearchText returns the title and description matched by search.
	SearchText() (title, description string)
}

// Loader fetches the full collection for key.
type Loader[T Item] func(ctx context.Context, key string) ([]T, error)

type snapshot[T Item] struct {
	Items     []T       `json:"items"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Options tunes a Source.
type Options struct {
	// MaxAge is how long a snapshot is served by Get before refetching.
	// Zero refetches on every Get.
	MaxAge time.Duration
	Logger *slog.Logger
}

// Source owns the fetched collections of one content type.
type Source[T Item] struct {
	name   string
	load   Loader[T]
	snaps  *cache.TypedCache[snapshot[T]]
	maxAge time.Duration
	logger *slog.Logger

	mu      sync.Mutex
	issued  map[string]uint64
	applied map[string]uint64
	loading map[string]int
	keys    map[string]struct{}
	closed  bool
}

// NewSource creates a source named name (used as cache namespace) that
// fetches with load and keeps snapshots in c.
func NewSource[T Item](name string, c cache.Cacher, load Loader[T], opts Options) *Source[T] {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Source[T]{
		name:    name,
		load:    load,
		snaps:   cache.NewTypedCache[snapshot[T]](c, "listing:"+name+":", -1),
		maxAge:  opts.MaxAge,
		logger:  logger.With("listing", name),
		issued:  make(map[string]uint64),
		applied: make(map[string]uint64),
		loading: make(map[string]int),
		keys:    make(map[string]struct{}),
	}
}

// Name returns the source name.
func (s *Source[T]) Name() string { return s.name }

// Items returns the current snapshot for key.
func (s *Source[T]) Items(ctx context.Context, key string) ([]T, bool) {
	snap, ok := s.snaps.Get(ctx, key)
	if !ok {
		return nil, false
	}
	return snap.Items, true
}

// Loading reports whether a load for key is in flight.
func (s *Source[T]) Loading(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading[key] > 0
}

// Keys returns the keys loaded so far, sorted.
func (s *Source[T]) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.keys))
	for k := range s.keys {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (s *Source[T]) begin(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued[key]++
	s.loading[key]++
	s.keys[key] = struct{}{}
	return s.issued[key]
}

func (s *Source[T]) end(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading[key]--
	if s.loading[key] <= 0 {
		delete(s.loading, key)
	}
}

// commit stores items unless the source is closed or a load issued after
// gen has already been applied.
func (s *Source[T]) commit(ctx context.Context, key string, gen uint64, items []T) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || gen < s.applied[key] {
		return false, nil
	}
	s.applied[key] = gen
	if err := s.snaps.Set(ctx, key, &snapshot[T]{Items: items, FetchedAt: time.Now()}); err != nil {
		return false, fmt.Errorf("storing %s snapshot: %w", s.name, err)
	}
	return true, nil
}

// Load fetches the collection for key and replaces the snapshot. On
// failure the previous snapshot, if any, is returned with the error.
func (s *Source[T]) Load(ctx context.Context, key string) ([]T, error) {
	gen := s.begin(key)
	defer s.end(key)

	items, err := s.load(ctx, key)
	if err != nil {
		s.logger.Warn("failed to load listing", "key", key, "error", err)
		stale, _ := s.Items(ctx, key)
		return stale, err
	}
	if items == nil {
		items = []T{}
	}

	ok, err := s.commit(ctx, key, gen, items)
	if err != nil {
		s.logger.Error("failed to store listing", "key", key, "error", err)
		return items, nil
	}
	if !ok {
		// A newer load won; serve what it stored.
		if current, found := s.Items(ctx, key); found {
			return current, nil
		}
	}
	return items, nil
}

// Get returns the snapshot for key when it is fresh, loading otherwise.
func (s *Source[T]) Get(ctx context.Context, key string) ([]T, error) {
	if s.maxAge > 0 {
		if snap, ok := s.snaps.Get(ctx, key); ok && time.Since(snap.FetchedAt) < s.maxAge {
			s.mu.Lock()
			s.keys[key] = struct{}{}
			s.mu.Unlock()
			return snap.Items, nil
		}
	}
	return s.Load(ctx, key)
}

// Refresh reloads every key seen so far, and the unfiltered key.
// It returns the first error; other keys are still attempted.
func (s *Source[T]) Refresh(ctx context.Context) error {
	keys := s.Keys()
	if !slices.Contains(keys, "") {
		keys = append([]string{""}, keys...)
	}

	var first error
	for _, key := range keys {
		if _, err := s.Load(ctx, key); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Remove drops the item with id from every snapshot without refetching.
func (s *Source[T]) Remove(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	for key := range s.keys {
		snap, ok := s.snaps.Get(ctx, key)
		if !ok {
			continue
		}
		kept := slices.DeleteFunc(slices.Clone(snap.Items), func(it T) bool {
			return it.ItemID() == id
		})
		if len(kept) == len(snap.Items) {
			continue
		}
		snap.Items = kept
		if err := s.snaps.Set(ctx, key, snap); err != nil {
			s.logger.Error("failed to update listing after delete", "key", key, "error", err)
		}
	}
}

// Close stops all later writes. Loads still in flight finish but their
// results are dropped.
func (s *Source[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}
