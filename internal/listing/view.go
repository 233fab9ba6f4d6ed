// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package listing

import (
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// Page sizes of the public views. Zero disables pagination.
const (
	BlogPageSize    = 9
	EventPageSize   = 9
	GalleryPageSize = 0
)

// Query is the user-controlled part of a listing view.
type Query struct {
	Search   string
	Category string
	Page     int
}

// ParseQuery reads q, category and page from URL values.
// A missing or invalid page is 1.
func ParseQuery(v url.Values) Query {
	q := Query{
		Search:   strings.TrimSpace(v.Get("q")),
		Category: strings.TrimSpace(v.Get("category")),
		Page:     1,
	}
	if p, err := strconv.Atoi(v.Get("page")); err == nil && p > 0 {
		q.Page = p
	}
	return q
}

// WithSearch returns q with a new search term and the page reset to 1.
func (q Query) WithSearch(term string) Query {
	q.Search = term
	q.Page = 1
	return q
}

// WithCategory returns q with a new category and the page reset to 1.
func (q Query) WithCategory(category string) Query {
	q.Category = category
	q.Page = 1
	return q
}

// WithPage returns q on page p.
func (q Query) WithPage(p int) Query {
	q.Page = p
	return q
}

// Values encodes q, omitting defaults.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("q", q.Search)
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Page > 1 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	return v
}

// URL returns path with q encoded as the query string.
func (q Query) URL(path string) string {
	if enc := q.Values().Encode(); enc != "" {
		return path + "?" + enc
	}
	return path
}

// Filter returns the items whose title or description contains term,
// compared with Unicode case folding. An empty term matches everything.
// Order is preserved.
func Filter[T Item](items []T, term string) []T {
	if term == "" {
		return items
	}
	fold := cases.Fold()
	needle := fold.String(term)

	out := make([]T, 0, len(items))
	for _, it := range items {
		title, desc := it.SearchText()
		if strings.Contains(fold.String(title), needle) || strings.Contains(fold.String(desc), needle) {
			out = append(out, it)
		}
	}
	return out
}

// TotalPages returns ceil(n/size). A size of zero or less means a single
// page holding everything.
func TotalPages(n, size int) int {
	if n <= 0 {
		return 0
	}
	if size <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

// Paginate returns the items of page (1-indexed). Out of range pages are
// clamped to the nearest valid page.
func Paginate[T Item](items []T, page, size int) ([]T, int) {
	total := TotalPages(len(items), size)
	if total == 0 {
		return items[:0:0], 1
	}
	page = max(1, min(page, total))
	if size <= 0 {
		return items, page
	}
	start := (page - 1) * size
	end := min(start+size, len(items))
	return items[start:end], page
}

// EmptyKind says why a view has nothing to show.
type EmptyKind int

const (
	// EmptyNone means the view has items.
	EmptyNone EmptyKind = iota
	// EmptyNoData means the collection itself is empty.
	EmptyNoData
	// EmptyNoResults means the search matched nothing.
	EmptyNoResults
)

// View is the derived, render-ready state of a listing.
type View[T Item] struct {
	Items         []T
	Query         Query
	Page          int
	PageSize      int
	TotalPages    int
	Total         int
	TotalFiltered int
}

// Derive filters items by the query's search term and slices out the
// requested page. It is pure and recomputed on every render.
func Derive[T Item](items []T, q Query, pageSize int) View[T] {
	filtered := Filter(items, q.Search)
	pageItems, page := Paginate(filtered, q.Page, pageSize)
	q.Page = page
	return View[T]{
		Items:         pageItems,
		Query:         q,
		Page:          page,
		PageSize:      pageSize,
		TotalPages:    TotalPages(len(filtered), pageSize),
		Total:         len(items),
		TotalFiltered: len(filtered),
	}
}

// Empty reports whether and why the view is empty.
func (v View[T]) Empty() EmptyKind {
	switch {
	case v.TotalFiltered > 0:
		return EmptyNone
	case v.Total == 0:
		return EmptyNoData
	default:
		return EmptyNoResults
	}
}

// IsEmpty reports whether the view shows no items.
func (v View[T]) IsEmpty() bool { return v.Empty() != EmptyNone }

// NoResults reports whether the search filtered everything out.
func (v View[T]) NoResults() bool { return v.Empty() == EmptyNoResults }

// ShowClearSearch reports whether the empty state offers to clear search.
func (v View[T]) ShowClearSearch() bool {
	return v.IsEmpty() && v.Query.Search != ""
}

// Paginated reports whether page controls should be shown.
func (v View[T]) Paginated() bool { return v.TotalPages > 1 }

// Categorized is an item with a category.
type Categorized interface {
	ItemCategory() string
}

// Categories returns the distinct non-empty categories of items in
// first-seen order.
func Categories[T Categorized](items []T) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, it := range items {
		c := strings.TrimSpace(it.ItemCategory())
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
