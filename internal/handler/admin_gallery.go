// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/DheerajVerma945/GISCC/internal/listing"
	"github.com/DheerajVerma945/GISCC/internal/model"
	"github.com/DheerajVerma945/GISCC/internal/render"
)

// AdminGalleryData holds data for the admin gallery grid.
type AdminGalleryData struct {
	AdminListData[model.GalleryItem]
	Categories []CategoryLink
}

// Gallery handles GET /admin/gallery.
func (h *AdminHandler) Gallery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := listing.ParseQuery(r.URL.Query())

	items, err := h.sources.Gallery.Get(ctx, q.Category)
	data := AdminGalleryData{
		AdminListData: AdminListData[model.GalleryItem]{
			ListingPage: newListingPage(h.sources.Gallery, items, q, listing.GalleryPageSize, redirectAdminGallery),
			Deleting:    h.deleting(kindGallery),
		},
		Categories: categoryLinks(h.sources.unfilteredGallery(ctx, q.Category, items), q, redirectAdminGallery),
	}
	td := h.page(r, "Manage Gallery", data, "Gallery", "")
	if err != nil {
		td.Flash, td.FlashType = msgGalleryLoadFailed, render.FlashError
	}
	renderPage(w, r, h.renderer, http.StatusOK, "admin/gallery", td)
}

// NewGalleryItem handles GET /admin/gallery/new.
func (h *AdminHandler) NewGalleryItem(w http.ResponseWriter, r *http.Request) {
	h.renderGalleryForm(w, r, http.StatusOK, FormData[model.GalleryForm]{
		FormID: uuid.NewString(),
		Action: redirectAdminGallery,
	}, "")
}

// AddGalleryItem handles POST /admin/gallery.
func (h *AdminHandler) AddGalleryItem(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminGallery+RouteSuffixNew) {
		return
	}
	data := FormData[model.GalleryForm]{
		FormID: postedFormID(r),
		Form: model.GalleryForm{
			ImageURL: strings.TrimSpace(r.PostFormValue("imageUrl")),
			Title:    strings.TrimSpace(r.PostFormValue("title")),
			Category: strings.TrimSpace(r.PostFormValue("category")),
		},
		Action: redirectAdminGallery,
	}
	h.submit(w, r, submission{
		kind:   kindGallery,
		formID: data.FormID,
		form:   data.Form,
		send: func(ctx context.Context) error {
			return h.api.AddGalleryItem(ctx, data.Form)
		},
		refresh:  h.sources.Gallery.Refresh,
		success:  msgImageAdded,
		redirect: redirectAdminGallery,
		rerender: func(status int, msg, flashType string) {
			data.Error = msg
			h.renderGalleryForm(w, r, status, data, flashType)
		},
	})
}

// DeleteGalleryItem handles POST /admin/gallery/{id}/delete.
func (h *AdminHandler) DeleteGalleryItem(w http.ResponseWriter, r *http.Request) {
	h.destroy(w, r, deletion{
		kind:     kindGallery,
		id:       chi.URLParam(r, "id"),
		send:     h.api.DeleteGalleryItem,
		remove:   h.sources.Gallery.Remove,
		success:  msgImageDeleted,
		failure:  msgImageDeleteFailed,
		redirect: redirectAdminGallery,
	})
}

func (h *AdminHandler) renderGalleryForm(w http.ResponseWriter, r *http.Request, status int, data FormData[model.GalleryForm], flashType string) {
	td := h.page(r, "Add Image", data, "Gallery", redirectAdminGallery, "Add Image", "")
	if data.Error != "" {
		td.Flash, td.FlashType = data.Error, flashType
	}
	renderPage(w, r, h.renderer, status, "admin/gallery_form", td)
}
