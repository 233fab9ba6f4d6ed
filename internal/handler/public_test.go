// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DheerajVerma945/GISCC/internal/model"
)

func TestHomePreviewsLatestContent(t *testing.T) {
	api := newFakeAPI()
	api.blogs = sampleBlogs(5)
	api.events = sampleEvents(5)
	api.events[0].IsActive = false

	app := newTestApp(t, api, time.Hour)
	resp := app.get(t, "/")

	require.Equal(t, http.StatusOK, resp.Status)
	assert.Contains(t, resp.Body, "Post 01")
	assert.Contains(t, resp.Body, "Post 03")
	assert.NotContains(t, resp.Body, "Post 04")
	assert.NotContains(t, resp.Body, "Event 01", "inactive events are not previewed")
	assert.Contains(t, resp.Body, "Event 04")
	assert.NotContains(t, resp.Body, "Event 05")
}

func TestBlogsPaginates(t *testing.T) {
	api := newFakeAPI()
	api.blogs = sampleBlogs(12)
	app := newTestApp(t, api, time.Hour)

	first := app.get(t, "/blogs")
	require.Equal(t, http.StatusOK, first.Status)
	assert.Contains(t, first.Body, "Post 09")
	assert.NotContains(t, first.Body, "Post 10")
	assert.Contains(t, first.Body, `href="/blogs?page=2"`)

	second := app.get(t, "/blogs?page=2")
	require.Equal(t, http.StatusOK, second.Status)
	assert.Contains(t, second.Body, "Post 10")
	assert.Contains(t, second.Body, "Post 12")
	assert.NotContains(t, second.Body, "Post 09")

	assert.Equal(t, 1, api.listCalls(kindBlog), "fresh snapshot is served without refetching")
}

func TestBlogsSearch(t *testing.T) {
	api := newFakeAPI()
	api.blogs = []model.Blog{
		{ID: "b1", Title: "Bridge survey", Description: "Drone mapping"},
		{ID: "b2", Title: "Land records", Description: "Cadastral GIS"},
	}
	app := newTestApp(t, api, time.Hour)

	resp := app.get(t, "/blogs?q=BRIDGE")
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Contains(t, resp.Body, "Bridge survey")
	assert.NotContains(t, resp.Body, "Land records")

	resp = app.get(t, "/blogs?q=cadastral")
	assert.Contains(t, resp.Body, "Land records", "description is searched too")

	resp = app.get(t, "/blogs?q=harbour")
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Contains(t, resp.Body, "No blogs match")
	assert.Contains(t, resp.Body, "Clear search")
}

func TestBlogsEmpty(t *testing.T) {
	app := newTestApp(t, newFakeAPI(), time.Hour)

	resp := app.get(t, "/blogs")
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Contains(t, resp.Body, "No blogs yet.")
	assert.NotContains(t, resp.Body, "Clear search")
}

func TestEventsKeepStaleItemsOnFailure(t *testing.T) {
	api := newFakeAPI()
	api.events = sampleEvents(2)
	app := newTestApp(t, api, 0)

	resp := app.get(t, "/events")
	require.Equal(t, http.StatusOK, resp.Status)
	assert.NotContains(t, resp.Body, msgEventsLoadFailed)

	api.set(func(f *fakeAPI) { f.listStatus = http.StatusInternalServerError })

	resp = app.get(t, "/events")
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Contains(t, resp.Body, msgEventsLoadFailed)
	assert.Contains(t, resp.Body, "Event 01", "previous items stay visible")
	assert.Equal(t, 2, api.listCalls(kindEvent))
}

const refreshingNotice = "Refreshing&hellip; showing the last loaded items."

func TestEventsShowRefreshingWhileReloading(t *testing.T) {
	api := newFakeAPI()
	api.events = sampleEvents(2)
	app := newTestApp(t, api, time.Hour)

	resp := app.get(t, "/events")
	require.Equal(t, http.StatusOK, resp.Status)
	assert.NotContains(t, resp.Body, refreshingNotice)

	gate := make(chan struct{})
	var release sync.Once
	t.Cleanup(func() { release.Do(func() { close(gate) }) })
	api.set(func(f *fakeAPI) { f.eventsGate = gate })

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = app.sources.Events.Load(context.Background(), "")
	}()
	require.Eventually(t, func() bool { return app.sources.Events.Loading("") }, time.Second, 5*time.Millisecond)

	resp = app.get(t, "/events")
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Contains(t, resp.Body, refreshingNotice)
	assert.Contains(t, resp.Body, "Event 01", "the snapshot is still shown")

	release.Do(func() { close(gate) })
	<-done

	resp = app.get(t, "/events")
	assert.NotContains(t, resp.Body, refreshingNotice)
}

func TestEventDetailParagraphs(t *testing.T) {
	api := newFakeAPI()
	api.events = []model.Event{{ID: "e1", Title: "Survey camp", Description: "Day one: field work\nDay two: report", Date: "2026-11-02", IsActive: true}}
	app := newTestApp(t, api, time.Hour)

	resp := app.get(t, "/events/e1")
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Contains(t, resp.Body, "<p>Day one: field work</p><p>Day two: report</p>")
}

func TestBlogDetail(t *testing.T) {
	api := newFakeAPI()
	api.blogs = []model.Blog{{ID: "b1", Title: "Bridge survey", Description: "Drone mapping", Content: "## Method\n\nWe flew **twice**."}}
	app := newTestApp(t, api, time.Hour)

	resp := app.get(t, "/blogs/b1")
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Contains(t, resp.Body, "Bridge survey")
	assert.Contains(t, resp.Body, "<strong>twice</strong>")
}

func TestDetailNotFound(t *testing.T) {
	app := newTestApp(t, newFakeAPI(), time.Hour)

	resp := app.get(t, "/blogs/missing")
	assert.Equal(t, http.StatusNotFound, resp.Status)
	assert.Contains(t, resp.Body, "Blog not found")
	assert.Contains(t, resp.Body, "Back to blogs")

	resp = app.get(t, "/events/missing")
	assert.Equal(t, http.StatusNotFound, resp.Status)
	assert.Contains(t, resp.Body, "Event not found")
	assert.Contains(t, resp.Body, `href="/events"`)
}

func TestUnknownRoute(t *testing.T) {
	app := newTestApp(t, newFakeAPI(), time.Hour)

	resp := app.get(t, "/no-such-page")
	assert.Equal(t, http.StatusNotFound, resp.Status)
	assert.Contains(t, resp.Body, "Page not found")
}

func TestGalleryCategoryFilter(t *testing.T) {
	api := newFakeAPI()
	api.gallery = []model.GalleryItem{
		{ID: "g1", ImageURL: "https://img.example/1.jpg", Title: "Tower", Category: "Sites"},
		{ID: "g2", ImageURL: "https://img.example/2.jpg", Title: "Workshop", Category: "Training"},
	}
	app := newTestApp(t, api, time.Hour)

	resp := app.get(t, "/gallery?category=Sites")
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Contains(t, resp.Body, "Tower")
	assert.NotContains(t, resp.Body, "Workshop")
	assert.Contains(t, resp.Body, `href="/gallery?category=Training"`, "categories come from the full collection")

	api.mu.Lock()
	categories := append([]string(nil), api.categories...)
	api.mu.Unlock()
	assert.Contains(t, categories, "Sites", "the filter is applied by the API")
}
