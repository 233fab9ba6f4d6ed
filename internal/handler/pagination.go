// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"github.com/DheerajVerma945/GISCC/internal/listing"
	"github.com/DheerajVerma945/GISCC/internal/uikit"
)

// ListingPage is the template data of a searchable, paginated listing.
type ListingPage[T listing.Item] struct {
	View       listing.View[T]
	Pagination uikit.Pagination
	// Loading is true while another fetch of the listing is still running,
	// so the items shown may be replaced shortly.
	Loading bool
	// ClearSearchURL drops the search term and keeps the other filters.
	ClearSearchURL string
}

// newListingPage derives the view of items for the query and builds page
// links that keep the search and category. src reports whether a load of
// the listing is still in flight.
func newListingPage[T listing.Item](src *listing.Source[T], items []T, q listing.Query, pageSize int, path string) ListingPage[T] {
	v := listing.Derive(items, q, pageSize)
	return ListingPage[T]{
		View:    v,
		Loading: src.Loading(q.Category),
		Pagination: uikit.BuildPagination(v.Page, v.TotalPages, v.TotalFiltered, v.PageSize, func(p int) string {
			return v.Query.WithPage(p).URL(path)
		}),
		ClearSearchURL: v.Query.WithSearch("").URL(path),
	}
}
