// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/DheerajVerma945/GISCC/internal/apiclient"
	"github.com/DheerajVerma945/GISCC/internal/listing"
	"github.com/DheerajVerma945/GISCC/internal/model"
	"github.com/DheerajVerma945/GISCC/internal/render"
	"github.com/DheerajVerma945/GISCC/internal/uikit"
)

// homeItems is how many blogs and events the home page previews.
const homeItems = 3

// DetailAPI fetches single records for the detail pages.
type DetailAPI interface {
	GetBlog(ctx context.Context, id string) (*model.Blog, error)
	GetEvent(ctx context.Context, id string) (*model.Event, error)
}

// PublicHandler serves the marketing pages.
type PublicHandler struct {
	renderer *render.Renderer
	sources  *Sources
	api      DetailAPI
	logger   *slog.Logger
}

// NewPublicHandler creates a new PublicHandler.
func NewPublicHandler(renderer *render.Renderer, sources *Sources, api DetailAPI, logger *slog.Logger) *PublicHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PublicHandler{
		renderer: renderer,
		sources:  sources,
		api:      api,
		logger:   logger,
	}
}

// HomeData holds data for the home page.
type HomeData struct {
	Blogs  []model.Blog
	Events []model.Event
}

// Home handles GET / - latest blogs and active events.
func (h *PublicHandler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var data HomeData

	blogs, err := h.sources.Blogs.Get(ctx, "")
	if err != nil {
		h.logger.WarnContext(ctx, "home: blogs unavailable", "error", err)
	}
	data.Blogs = blogs[:min(len(blogs), homeItems)]

	events, err := h.sources.Events.Get(ctx, "")
	if err != nil {
		h.logger.WarnContext(ctx, "home: events unavailable", "error", err)
	}
	for _, e := range events {
		if len(data.Events) == homeItems {
			break
		}
		if e.IsActive {
			data.Events = append(data.Events, e)
		}
	}

	renderPage(w, r, h.renderer, http.StatusOK, "public/home", render.TemplateData{
		Title: "Home",
		Data:  data,
	})
}

// Blogs handles GET /blogs.
func (h *PublicHandler) Blogs(w http.ResponseWriter, r *http.Request) {
	q := listing.ParseQuery(r.URL.Query())
	items, err := h.sources.Blogs.Get(r.Context(), "")

	page := newListingPage(h.sources.Blogs, items, q, listing.BlogPageSize, RouteBlogs)
	data := render.TemplateData{
		Title:       "Blogs",
		Data:        page,
		Breadcrumbs: uikit.Crumbs("Home", RouteRoot, "Blogs", ""),
	}
	if err != nil {
		data.Flash, data.FlashType = msgBlogsLoadFailed, render.FlashError
	}
	renderPage(w, r, h.renderer, http.StatusOK, "public/blogs", data)
}

// Blog handles GET /blogs/{id}.
func (h *PublicHandler) Blog(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	blog, err := h.api.GetBlog(r.Context(), id)
	if err != nil {
		h.renderMissing(w, r, err, "Blog", RouteBlogs, id)
		return
	}

	renderPage(w, r, h.renderer, http.StatusOK, "public/blog", render.TemplateData{
		Title:       blog.Title,
		Data:        blog,
		Breadcrumbs: uikit.Crumbs("Home", RouteRoot, "Blogs", RouteBlogs, blog.Title, ""),
	})
}

// Events handles GET /events.
func (h *PublicHandler) Events(w http.ResponseWriter, r *http.Request) {
	q := listing.ParseQuery(r.URL.Query())
	items, err := h.sources.Events.Get(r.Context(), "")

	page := newListingPage(h.sources.Events, items, q, listing.EventPageSize, RouteEvents)
	data := render.TemplateData{
		Title:       "Events",
		Data:        page,
		Breadcrumbs: uikit.Crumbs("Home", RouteRoot, "Events", ""),
	}
	if err != nil {
		data.Flash, data.FlashType = msgEventsLoadFailed, render.FlashError
	}
	renderPage(w, r, h.renderer, http.StatusOK, "public/events", data)
}

// Event handles GET /events/{id}.
func (h *PublicHandler) Event(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	event, err := h.api.GetEvent(r.Context(), id)
	if err != nil {
		h.renderMissing(w, r, err, "Event", RouteEvents, id)
		return
	}

	renderPage(w, r, h.renderer, http.StatusOK, "public/event", render.TemplateData{
		Title:       event.Title,
		Data:        event,
		Breadcrumbs: uikit.Crumbs("Home", RouteRoot, "Events", RouteEvents, event.Title, ""),
	})
}

// CategoryLink is one entry of the gallery category filter.
type CategoryLink struct {
	Name   string
	URL    string
	Active bool
}

// GalleryData holds data for the gallery page.
type GalleryData struct {
	ListingPage[model.GalleryItem]
	Categories []CategoryLink
}

// Gallery handles GET /gallery. The category filter is applied by the API;
// the category list comes from the unfiltered collection.
func (h *PublicHandler) Gallery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := listing.ParseQuery(r.URL.Query())

	items, err := h.sources.Gallery.Get(ctx, q.Category)

	data := GalleryData{
		ListingPage: newListingPage(h.sources.Gallery, items, q, listing.GalleryPageSize, RouteGallery),
		Categories:  categoryLinks(h.sources.unfilteredGallery(ctx, q.Category, items), q, RouteGallery),
	}
	td := render.TemplateData{
		Title:       "Gallery",
		Data:        data,
		Breadcrumbs: uikit.Crumbs("Home", RouteRoot, "Gallery", ""),
	}
	if err != nil {
		td.Flash, td.FlashType = msgGalleryLoadFailed, render.FlashError
	}
	renderPage(w, r, h.renderer, http.StatusOK, "public/gallery", td)
}

func categoryLinks(items []model.GalleryItem, q listing.Query, path string) []CategoryLink {
	links := []CategoryLink{{
		Name:   "All",
		URL:    q.WithCategory("").URL(path),
		Active: q.Category == "",
	}}
	for _, c := range listing.Categories(items) {
		links = append(links, CategoryLink{
			Name:   c,
			URL:    q.WithCategory(c).URL(path),
			Active: c == q.Category,
		})
	}
	return links
}

// MissingData holds data for the not found page.
type MissingData struct {
	Heading   string
	Message   string
	BackURL   string
	BackLabel string
}

// NotFound renders the 404 page for unknown routes.
func (h *PublicHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusNotFound, "public/notfound", render.TemplateData{
		Title: "Page Not Found",
		Data: MissingData{
			Heading:   "Page not found",
			Message:   "The page you are looking for does not exist.",
			BackURL:   RouteRoot,
			BackLabel: "Back to home",
		},
	})
}

// renderMissing renders the persistent not found state of a detail page.
// Failures other than 404 render the same page with a 502 status.
func (h *PublicHandler) renderMissing(w http.ResponseWriter, r *http.Request, err error, kind, backURL, id string) {
	status := http.StatusNotFound
	data := MissingData{
		Heading:   kind + " not found",
		Message:   "It may have been removed or the link is incorrect.",
		BackURL:   backURL,
		BackLabel: "Back to " + backURL[1:],
	}
	if !apiclient.IsNotFound(err) {
		h.logger.WarnContext(r.Context(), "failed to fetch detail", "kind", kind, "id", id, "error", err)
		status = http.StatusBadGateway
		data.Message = apiclient.FallbackMessage
	}

	renderPage(w, r, h.renderer, status, "public/notfound", render.TemplateData{
		Title: data.Heading,
		Data:  data,
	})
}
