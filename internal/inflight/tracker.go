// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package inflight tracks outstanding admin submissions so that a form is
// submitted at most once at a time and a delete marks only its own row.
package inflight

import (
	"sort"
	"strings"
	"sync"
)

// Tracker is a set of busy keys.
type Tracker struct {
	mu   sync.Mutex
	busy map[string]struct{}
}

// New creates an empty tracker.
func New() *Tracker {
	return &Tracker{busy: make(map[string]struct{})}
}

// Acquire marks key busy. It returns a release func and true, or nil and
// false when key is already busy.
func (t *Tracker) Acquire(key string) (func(), bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.busy[key]; ok {
		return nil, false
	}
	t.busy[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.busy, key)
			t.mu.Unlock()
		})
	}, true
}

// Busy reports whether key is busy.
func (t *Tracker) Busy(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.busy[key]
	return ok
}

// BusyWithPrefix returns the busy keys starting with prefix, with the
// prefix trimmed, sorted.
func (t *Tracker) BusyWithPrefix(prefix string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []string
	for k := range t.busy {
		if rest, ok := strings.CutPrefix(k, prefix); ok {
			out = append(out, rest)
		}
	}
	sort.Strings(out)
	return out
}

// FormKey is the key of a create or update submission of one rendered form.
func FormKey(kind, formID string) string {
	return "form:" + kind + ":" + formID
}

// DeletePrefix is the key prefix of deletes of one content kind.
func DeletePrefix(kind string) string {
	return "delete:" + kind + ":"
}

// DeleteKey is the key of a delete of one item.
func DeleteKey(kind, id string) string {
	return DeletePrefix(kind) + id
}
