// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/DheerajVerma945/GISCC/internal/apiclient"
	"github.com/DheerajVerma945/GISCC/internal/listing"
	"github.com/DheerajVerma945/GISCC/internal/model"
	"github.com/DheerajVerma945/GISCC/internal/render"
)

// Events handles GET /admin/events.
func (h *AdminHandler) Events(w http.ResponseWriter, r *http.Request) {
	q := listing.ParseQuery(r.URL.Query())
	items, err := h.sources.Events.Get(r.Context(), "")

	data := AdminListData[model.Event]{
		ListingPage: newListingPage(h.sources.Events, items, q, 0, redirectAdminEvents),
		Deleting:    h.deleting(kindEvent),
	}
	td := h.page(r, "Manage Events", data, "Events", "")
	if err != nil {
		td.Flash, td.FlashType = msgEventsLoadFailed, render.FlashError
	}
	renderPage(w, r, h.renderer, http.StatusOK, "admin/events", td)
}

// NewEvent handles GET /admin/events/new.
func (h *AdminHandler) NewEvent(w http.ResponseWriter, r *http.Request) {
	h.renderEventForm(w, r, http.StatusOK, FormData[model.EventForm]{
		FormID: uuid.NewString(),
		Form:   model.NewEventForm(),
		Action: redirectAdminEvents,
	}, "")
}

// EditEvent handles GET /admin/events/{id}.
func (h *AdminHandler) EditEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	event, err := h.lookupEvent(r.Context(), id)
	if err != nil {
		if apiclient.IsNotFound(err) {
			flashError(w, r, h.renderer, redirectAdminEvents, "Event not found")
			return
		}
		h.logger.WarnContext(r.Context(), "failed to load event", "id", id, "error", err)
		flashError(w, r, h.renderer, redirectAdminEvents, failureMessage(err))
		return
	}

	h.renderEventForm(w, r, http.StatusOK, FormData[model.EventForm]{
		FormID: uuid.NewString(),
		Form:   model.EventFormFrom(*event),
		ID:     id,
		Action: redirectAdminEvents + "/" + id,
	}, "")
}

// lookupEvent prefers the cached listing and falls back to the API.
func (h *AdminHandler) lookupEvent(ctx context.Context, id string) (*model.Event, error) {
	if items, ok := h.sources.Events.Items(ctx, ""); ok {
		if e, found := findByID(items, id); found {
			return &e, nil
		}
	}
	return h.api.GetEvent(ctx, id)
}

// CreateEvent handles POST /admin/events.
func (h *AdminHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminEvents+RouteSuffixNew) {
		return
	}
	data := FormData[model.EventForm]{
		FormID: postedFormID(r),
		Form:   eventFormFromRequest(r),
		Action: redirectAdminEvents,
	}
	h.submit(w, r, submission{
		kind:   kindEvent,
		formID: data.FormID,
		form:   data.Form,
		send: func(ctx context.Context) error {
			return h.api.CreateEvent(ctx, data.Form)
		},
		refresh:  h.sources.Events.Refresh,
		success:  msgEventCreated,
		redirect: redirectAdminEvents,
		rerender: func(status int, msg, flashType string) {
			data.Error = msg
			h.renderEventForm(w, r, status, data, flashType)
		},
	})
}

// UpdateEvent handles POST /admin/events/{id}.
func (h *AdminHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminEvents+"/"+id) {
		return
	}
	data := FormData[model.EventForm]{
		FormID: postedFormID(r),
		Form:   eventFormFromRequest(r),
		ID:     id,
		Action: redirectAdminEvents + "/" + id,
	}
	h.submit(w, r, submission{
		kind:   kindEvent,
		formID: data.FormID,
		form:   data.Form,
		send: func(ctx context.Context) error {
			return h.api.UpdateEvent(ctx, id, data.Form)
		},
		refresh:  h.sources.Events.Refresh,
		success:  msgEventUpdated,
		redirect: redirectAdminEvents,
		rerender: func(status int, msg, flashType string) {
			data.Error = msg
			h.renderEventForm(w, r, status, data, flashType)
		},
	})
}

// DeleteEvent handles POST /admin/events/{id}/delete.
func (h *AdminHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	h.destroy(w, r, deletion{
		kind:     kindEvent,
		id:       chi.URLParam(r, "id"),
		send:     h.api.DeleteEvent,
		remove:   h.sources.Events.Remove,
		success:  msgEventDeleted,
		failure:  msgEventDeleteFailed,
		redirect: redirectAdminEvents,
	})
}

func (h *AdminHandler) renderEventForm(w http.ResponseWriter, r *http.Request, status int, data FormData[model.EventForm], flashType string) {
	title := "New Event"
	if data.IsEdit() {
		title = "Edit Event"
	}
	td := h.page(r, title, data, "Events", redirectAdminEvents, title, "")
	if data.Error != "" {
		td.Flash, td.FlashType = data.Error, flashType
	}
	renderPage(w, r, h.renderer, status, "admin/event_form", td)
}

func eventFormFromRequest(r *http.Request) model.EventForm {
	return model.EventForm{
		Title:       strings.TrimSpace(r.PostFormValue("title")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
		Date:        strings.TrimSpace(r.PostFormValue("date")),
		Venue:       strings.TrimSpace(r.PostFormValue("venue")),
		ImageURL:    strings.TrimSpace(r.PostFormValue("imageUrl")),
		IsActive:    r.PostFormValue("isActive") != "",
	}
}
