// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package listing

import (
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type post struct {
	ID, Title, Desc, Cat string
}

func (p post) ItemID() string               { return p.ID }
func (p post) SearchText() (string, string) { return p.Title, p.Desc }
func (p post) ItemCategory() string         { return p.Cat }

func posts(n int) []post {
	out := make([]post, n)
	for i := range out {
		out[i] = post{ID: fmt.Sprintf("p%d", i+1), Title: fmt.Sprintf("Post %d", i+1)}
	}
	return out
}

func ids(items []post) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestFilterCaseInsensitive(t *testing.T) {
	items := []post{
		{ID: "1", Title: "Fiber Rollout", Desc: "city-wide"},
		{ID: "2", Title: "Substation", Desc: "New FIBER backbone"},
		{ID: "3", Title: "Roads", Desc: "asphalt"},
		{ID: "4", Title: "ÉCOLE", Desc: ""},
	}

	assert.Equal(t, []string{"1", "2"}, ids(Filter(items, "fiber")))
	assert.Equal(t, []string{"1", "2"}, ids(Filter(items, "FiBeR")))
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(Filter(items, "")))
	assert.Empty(t, Filter(items, "bridge"))
	assert.Equal(t, []string{"4"}, ids(Filter(items, "école")), "non-ASCII letters fold too")
}

func TestFilterMatchesExactSubset(t *testing.T) {
	items := []post{
		{ID: "a", Title: "Alpha", Desc: "first"},
		{ID: "b", Title: "Beta", Desc: "second alpha"},
		{ID: "c", Title: "Gamma", Desc: "third"},
	}
	for _, term := range []string{"a", "alp", "ALPHA", "ir", "zzz", "ta"} {
		got := Filter(items, term)
		var want []string
		for _, it := range items {
			if strings.Contains(strings.ToLower(it.Title), strings.ToLower(term)) ||
				strings.Contains(strings.ToLower(it.Desc), strings.ToLower(term)) {
				want = append(want, it.ID)
			}
		}
		assert.ElementsMatch(t, want, ids(got), term)
	}
}

func TestFilterIsIdempotent(t *testing.T) {
	items := posts(30)
	for _, term := range []string{"1", "post 2", "POST", "nothing"} {
		once := Filter(items, term)
		twice := Filter(once, term)
		assert.Equal(t, ids(once), ids(twice), term)
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		n, size, want int
	}{
		{0, 9, 0},
		{1, 9, 1},
		{9, 9, 1},
		{10, 9, 2},
		{20, 9, 3},
		{27, 9, 3},
		{5, 0, 1},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.n, tt.size), func(t *testing.T) {
			assert.Equal(t, tt.want, TotalPages(tt.n, tt.size))
		})
	}
}

func TestPagesReconstructCollection(t *testing.T) {
	for _, n := range []int{1, 8, 9, 10, 20, 45} {
		for _, size := range []int{1, 4, 9} {
			items := posts(n)
			total := TotalPages(n, size)
			var joined []post
			for p := 1; p <= total; p++ {
				page, got := Paginate(items, p, size)
				require.Equal(t, p, got)
				joined = append(joined, page...)
			}
			assert.Equal(t, ids(items), ids(joined), "n=%d size=%d", n, size)
		}
	}
}

func TestTwentyBlogsScenario(t *testing.T) {
	v := Derive(posts(20), Query{Page: 1}, BlogPageSize)
	assert.Equal(t, 3, v.TotalPages)
	assert.Equal(t, []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8", "p9"}, ids(v.Items))

	v = Derive(posts(20), Query{Page: 3}, BlogPageSize)
	assert.Equal(t, []string{"p19", "p20"}, ids(v.Items))
	assert.True(t, v.Paginated())
}

func TestPaginateClampsOutOfRange(t *testing.T) {
	items := posts(20)

	page, p := Paginate(items, 99, 9)
	assert.Equal(t, 3, p)
	assert.Equal(t, []string{"p19", "p20"}, ids(page))

	page, p = Paginate(items, -1, 9)
	assert.Equal(t, 1, p)
	assert.Len(t, page, 9)

	page, p = Paginate([]post{}, 2, 9)
	assert.Equal(t, 1, p)
	assert.Empty(t, page)
}

func TestGalleryHasNoPagination(t *testing.T) {
	v := Derive(posts(40), Query{Page: 3}, GalleryPageSize)
	assert.Len(t, v.Items, 40)
	assert.Equal(t, 1, v.TotalPages)
	assert.Equal(t, 1, v.Page)
	assert.False(t, v.Paginated())
}

func TestEmptyStates(t *testing.T) {
	v := Derive([]post{}, Query{}, 9)
	assert.Equal(t, EmptyNoData, v.Empty())
	assert.False(t, v.ShowClearSearch())

	v = Derive(posts(5), Query{Search: "zzz"}, 9)
	assert.Equal(t, EmptyNoResults, v.Empty())
	assert.True(t, v.NoResults())
	assert.True(t, v.ShowClearSearch())

	v = Derive(posts(5), Query{Search: "post"}, 9)
	assert.Equal(t, EmptyNone, v.Empty())
	assert.False(t, v.ShowClearSearch())
	assert.Equal(t, 5, v.TotalFiltered)
}

func TestQueryChangesResetPage(t *testing.T) {
	q := Query{Search: "a", Category: "x", Page: 4}

	assert.Equal(t, 1, q.WithSearch("b").Page)
	assert.Equal(t, 1, q.WithCategory("y").Page)
	assert.Equal(t, 1, q.WithSearch("a").Page, "even when unchanged")
	assert.Equal(t, 2, q.WithPage(2).Page)
	assert.Equal(t, 4, q.Page, "receiver is not modified")
}

func TestParseQuery(t *testing.T) {
	tests := []struct {
		raw  string
		want Query
	}{
		{"", Query{Page: 1}},
		{"q=+fiber+&page=2", Query{Search: "fiber", Page: 2}},
		{"page=abc", Query{Page: 1}},
		{"page=0", Query{Page: 1}},
		{"category=Site+Visits", Query{Category: "Site Visits", Page: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			v, err := url.ParseQuery(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ParseQuery(v))
		})
	}
}

func TestQueryURL(t *testing.T) {
	assert.Equal(t, "/blogs", Query{Page: 1}.URL("/blogs"))
	assert.Equal(t, "/blogs?page=2&q=a+b", Query{Search: "a b", Page: 2}.URL("/blogs"))
	assert.Equal(t, "/gallery?category=Events", Query{Category: "Events"}.URL("/gallery"))
}

func TestCategories(t *testing.T) {
	items := []post{{Cat: "Events"}, {Cat: ""}, {Cat: "Projects"}, {Cat: "Events"}, {Cat: " Team "}}
	assert.Equal(t, []string{"Events", "Projects", "Team"}, Categories(items))
	assert.Empty(t, Categories([]post{}))
}
