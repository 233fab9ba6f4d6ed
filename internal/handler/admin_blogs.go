// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/DheerajVerma945/GISCC/internal/apiclient"
	"github.com/DheerajVerma945/GISCC/internal/listing"
	"github.com/DheerajVerma945/GISCC/internal/model"
	"github.com/DheerajVerma945/GISCC/internal/render"
)

// Blogs handles GET /admin/blogs.
func (h *AdminHandler) Blogs(w http.ResponseWriter, r *http.Request) {
	q := listing.ParseQuery(r.URL.Query())
	items, err := h.sources.Blogs.Get(r.Context(), "")

	data := AdminListData[model.Blog]{
		ListingPage: newListingPage(h.sources.Blogs, items, q, 0, redirectAdminBlogs),
		Deleting:    h.deleting(kindBlog),
	}
	td := h.page(r, "Blogs", data, "Blogs", "")
	if err != nil {
		td.Flash, td.FlashType = msgBlogsLoadFailed, render.FlashError
	}
	renderPage(w, r, h.renderer, http.StatusOK, "admin/blogs", td)
}

// NewBlog handles GET /admin/blogs/new.
func (h *AdminHandler) NewBlog(w http.ResponseWriter, r *http.Request) {
	h.renderBlogForm(w, r, http.StatusOK, FormData[model.BlogForm]{
		FormID: uuid.NewString(),
		Action: redirectAdminBlogs,
	}, "")
}

// EditBlog handles GET /admin/blogs/{id}. The full record is fetched since
// the listing may omit the body.
func (h *AdminHandler) EditBlog(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	blog, err := h.api.GetBlog(r.Context(), id)
	if err != nil {
		if apiclient.IsNotFound(err) {
			flashError(w, r, h.renderer, redirectAdminBlogs, "Blog not found")
			return
		}
		h.logger.WarnContext(r.Context(), "failed to load blog", "id", id, "error", err)
		flashError(w, r, h.renderer, redirectAdminBlogs, failureMessage(err))
		return
	}

	h.renderBlogForm(w, r, http.StatusOK, FormData[model.BlogForm]{
		FormID: uuid.NewString(),
		Form:   model.BlogFormFrom(*blog),
		ID:     id,
		Action: redirectAdminBlogs + "/" + id,
	}, "")
}

// CreateBlog handles POST /admin/blogs.
func (h *AdminHandler) CreateBlog(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminBlogs+RouteSuffixNew) {
		return
	}
	data := FormData[model.BlogForm]{
		FormID: postedFormID(r),
		Form:   blogFormFromRequest(r),
		Action: redirectAdminBlogs,
	}
	h.submit(w, r, submission{
		kind:   kindBlog,
		formID: data.FormID,
		form:   data.Form,
		send: func(ctx context.Context) error {
			return h.api.CreateBlog(ctx, data.Form)
		},
		refresh:  h.sources.Blogs.Refresh,
		success:  msgBlogCreated,
		redirect: redirectAdminBlogs,
		rerender: func(status int, msg, flashType string) {
			data.Error = msg
			h.renderBlogForm(w, r, status, data, flashType)
		},
	})
}

// UpdateBlog handles POST /admin/blogs/{id}.
func (h *AdminHandler) UpdateBlog(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminBlogs+"/"+id) {
		return
	}
	data := FormData[model.BlogForm]{
		FormID: postedFormID(r),
		Form:   blogFormFromRequest(r),
		ID:     id,
		Action: redirectAdminBlogs + "/" + id,
	}
	h.submit(w, r, submission{
		kind:   kindBlog,
		formID: data.FormID,
		form:   data.Form,
		send: func(ctx context.Context) error {
			return h.api.UpdateBlog(ctx, id, data.Form)
		},
		refresh:  h.sources.Blogs.Refresh,
		success:  msgBlogUpdated,
		redirect: redirectAdminBlogs,
		rerender: func(status int, msg, flashType string) {
			data.Error = msg
			h.renderBlogForm(w, r, status, data, flashType)
		},
	})
}

// DeleteBlog handles POST /admin/blogs/{id}/delete.
func (h *AdminHandler) DeleteBlog(w http.ResponseWriter, r *http.Request) {
	h.destroy(w, r, deletion{
		kind:     kindBlog,
		id:       chi.URLParam(r, "id"),
		send:     h.api.DeleteBlog,
		remove:   h.sources.Blogs.Remove,
		success:  msgBlogDeleted,
		failure:  msgBlogDeleteFailed,
		redirect: redirectAdminBlogs,
	})
}

func (h *AdminHandler) renderBlogForm(w http.ResponseWriter, r *http.Request, status int, data FormData[model.BlogForm], flashType string) {
	title := "New Blog"
	if data.IsEdit() {
		title = "Edit Blog"
	}
	td := h.page(r, title, data, "Blogs", redirectAdminBlogs, title, "")
	if data.Error != "" {
		td.Flash, td.FlashType = data.Error, flashType
	}
	renderPage(w, r, h.renderer, status, "admin/blog_form", td)
}

func blogFormFromRequest(r *http.Request) model.BlogForm {
	f := model.BlogForm{
		Title:       strings.TrimSpace(r.PostFormValue("title")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
		Content:     r.PostFormValue("content"),
		ImageURL:    strings.TrimSpace(r.PostFormValue("imageUrl")),
		Author:      strings.TrimSpace(r.PostFormValue("author")),
	}
	if n, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("readTime"))); err == nil && n > 0 {
		f.ReadTime = n
	}
	return f
}
