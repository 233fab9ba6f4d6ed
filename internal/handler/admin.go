// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/DheerajVerma945/GISCC/internal/inflight"
	"github.com/DheerajVerma945/GISCC/internal/listing"
	"github.com/DheerajVerma945/GISCC/internal/middleware"
	"github.com/DheerajVerma945/GISCC/internal/model"
	"github.com/DheerajVerma945/GISCC/internal/render"
	"github.com/DheerajVerma945/GISCC/internal/uikit"
)

// ContentAPI is the part of the remote API the admin pages use.
type ContentAPI interface {
	DetailAPI

	CreateBlog(ctx context.Context, f model.BlogForm) error
	UpdateBlog(ctx context.Context, id string, f model.BlogForm) error
	DeleteBlog(ctx context.Context, id string) error

	CreateEvent(ctx context.Context, f model.EventForm) error
	UpdateEvent(ctx context.Context, id string, f model.EventForm) error
	DeleteEvent(ctx context.Context, id string) error

	AddGalleryItem(ctx context.Context, f model.GalleryForm) error
	DeleteGalleryItem(ctx context.Context, id string) error
}

// AdminHandler serves the admin dashboard and the content management pages.
type AdminHandler struct {
	renderer *render.Renderer
	api      ContentAPI
	sources  *Sources
	inflight *inflight.Tracker
	logger   *slog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(renderer *render.Renderer, api ContentAPI, sources *Sources, tracker *inflight.Tracker, logger *slog.Logger) *AdminHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if tracker == nil {
		tracker = inflight.New()
	}
	return &AdminHandler{
		renderer: renderer,
		api:      api,
		sources:  sources,
		inflight: tracker,
		logger:   logger,
	}
}

// DashboardCard is one shortcut tile of the dashboard.
type DashboardCard struct {
	Title       string
	Description string
	URL         string
	// Count is the number of cached records, -1 when not loaded yet.
	Count int
}

// DashboardData holds data for the dashboard.
type DashboardData struct {
	Greeting string
	Cards    []DashboardCard
}

// Dashboard handles GET /admin.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	greeting := "Admin"
	if admin := middleware.GetAdmin(r); admin != nil {
		greeting = admin.DisplayName()
	}

	events, eventsOK := h.sources.Events.Items(ctx, "")
	gallery, galleryOK := h.sources.Gallery.Items(ctx, "")
	blogs, blogsOK := h.sources.Blogs.Items(ctx, "")

	data := DashboardData{
		Greeting: greeting,
		Cards: []DashboardCard{
			{Title: "Manage Events", Description: "Create, edit and remove events", URL: redirectAdminEvents, Count: countOf(events, eventsOK)},
			{Title: "Manage Gallery", Description: "Add and remove gallery images", URL: redirectAdminGallery, Count: countOf(gallery, galleryOK)},
			{Title: "View Blogs", Description: "Browse and edit blog posts", URL: redirectAdminBlogs, Count: countOf(blogs, blogsOK)},
		},
	}
	renderPage(w, r, h.renderer, http.StatusOK, "admin/dashboard", h.page(r, "Dashboard", data))
}

func countOf[T any](items []T, ok bool) int {
	if !ok {
		return -1
	}
	return len(items)
}

// page builds the template data of an admin page.
func (h *AdminHandler) page(r *http.Request, title string, data any, crumbs ...string) render.TemplateData {
	td := render.TemplateData{
		Title: title,
		Data:  data,
		Admin: middleware.GetAdmin(r),
	}
	if len(crumbs) > 0 {
		td.Breadcrumbs = uikit.Crumbs(append([]string{"Dashboard", redirectAdmin}, crumbs...)...)
	}
	return td
}

// AdminListData holds data for an admin listing.
type AdminListData[T listing.Item] struct {
	ListingPage[T]
	// Deleting holds the IDs with a delete in flight.
	Deleting map[string]bool
}

// deleting returns the IDs of kind whose delete is in flight.
func (h *AdminHandler) deleting(kind string) map[string]bool {
	ids := h.inflight.BusyWithPrefix(inflight.DeletePrefix(kind))
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}

// FormData holds data for a create or edit form.
type FormData[F any] struct {
	// FormID identifies this rendering of the form for duplicate detection.
	FormID string
	Form   F
	// ID is the record being edited, empty when creating.
	ID     string
	Action string
	Error  string
}

// IsEdit reports whether the form edits an existing record.
func (d FormData[F]) IsEdit() bool { return d.ID != "" }

// postedFormID returns the form_id of a submission, or a fresh one when
// the client sent none.
func postedFormID(r *http.Request) string {
	if id := strings.TrimSpace(r.PostFormValue("form_id")); id != "" {
		return id
	}
	return uuid.NewString()
}

// submission is one create or update of a form.
type submission struct {
	kind   string
	formID string
	form   interface{ Validate() error }
	send   func(ctx context.Context) error
	// refresh reloads the listing after success.
	refresh  func(ctx context.Context) error
	success  string
	redirect string
	// rerender shows the form again with the submitted values.
	rerender func(status int, message, flashType string)
}

// submit runs one submission. A form that is already being submitted is
// rejected, invalid values never reach the API, and on failure the form is
// shown again populated.
func (h *AdminHandler) submit(w http.ResponseWriter, r *http.Request, s submission) {
	ctx := r.Context()

	release, ok := h.inflight.Acquire(inflight.FormKey(s.kind, s.formID))
	if !ok {
		s.rerender(http.StatusConflict, msgDuplicateSubmit, render.FlashError)
		return
	}
	defer release()

	if err := s.form.Validate(); err != nil {
		var ve *model.ValidationError
		msg := err.Error()
		if errors.As(err, &ve) {
			msg = ve.Message
		}
		s.rerender(http.StatusUnprocessableEntity, msg, render.FlashError)
		return
	}

	if err := s.send(ctx); err != nil {
		h.logger.WarnContext(ctx, "content mutation failed", "kind", s.kind, "error", err)
		s.rerender(failureStatus(err), failureMessage(err), failureFlashType(err))
		return
	}

	if err := s.refresh(ctx); err != nil {
		h.logger.WarnContext(ctx, "listing refresh after mutation failed", "kind", s.kind, "error", err)
	}
	h.logger.InfoContext(ctx, "content saved", "kind", s.kind)
	flashSuccess(w, r, h.renderer, s.redirect, s.success)
}

// deletion is one delete of a record.
type deletion struct {
	kind     string
	id       string
	send     func(ctx context.Context, id string) error
	remove   func(ctx context.Context, id string)
	success  string
	failure  string
	redirect string
}

// destroy runs one deletion. Only that record is marked busy; on success
// it is dropped from the cached listings without a refetch.
func (h *AdminHandler) destroy(w http.ResponseWriter, r *http.Request, d deletion) {
	ctx := r.Context()

	release, ok := h.inflight.Acquire(inflight.DeleteKey(d.kind, d.id))
	if !ok {
		flashError(w, r, h.renderer, d.redirect, msgDeleteInProgress)
		return
	}
	defer release()

	if err := d.send(ctx, d.id); err != nil {
		h.logger.WarnContext(ctx, "content delete failed", "kind", d.kind, "id", d.id, "error", err)
		flashAndRedirect(w, r, h.renderer, d.redirect, d.failure, failureFlashType(err))
		return
	}

	d.remove(ctx, d.id)
	h.logger.InfoContext(ctx, "content deleted", "kind", d.kind, "id", d.id)
	flashSuccess(w, r, h.renderer, d.redirect, d.success)
}

// findByID returns the item with id.
func findByID[T listing.Item](items []T, id string) (T, bool) {
	for _, it := range items {
		if it.ItemID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}
