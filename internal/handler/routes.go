// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/DheerajVerma945/GISCC/internal/middleware"
)

// Handlers groups the handlers of the site.
type Handlers struct {
	Public *PublicHandler
	Auth   *AuthHandler
	Admin  *AdminHandler
	Health *HealthHandler
}

// RouteGuards are the middlewares placed in front of protected routes.
type RouteGuards struct {
	// RequireAdmin guards every admin page except login.
	RequireAdmin func(http.Handler) http.Handler
	// LoginLimit guards the login form submission. May be nil.
	LoginLimit func(http.Handler) http.Handler
}

// Routes registers the site routes on r.
func (hs Handlers) Routes(r chi.Router, guards RouteGuards) {
	if hs.Health != nil {
		r.Get(RouteHealth, hs.Health.Health)
		r.Get(RouteHealth+"/live", hs.Health.Liveness)
		r.Get(RouteHealth+"/ready", hs.Health.Readiness)
	}

	r.Get(RouteRoot, hs.Public.Home)
	r.Get(RouteBlogs, hs.Public.Blogs)
	r.Get(RouteBlogsID, hs.Public.Blog)
	r.Get(RouteEvents, hs.Public.Events)
	r.Get(RouteEventsID, hs.Public.Event)
	r.Get(RouteGallery, hs.Public.Gallery)
	r.NotFound(hs.Public.NotFound)

	r.Route(RouteAdmin, func(r chi.Router) {
		r.Use(middleware.NoStore)

		r.Get(RouteLogin, hs.Auth.LoginForm)
		r.Group(func(r chi.Router) {
			if guards.LoginLimit != nil {
				r.Use(guards.LoginLimit)
			}
			r.Post(RouteLogin, hs.Auth.Login)
		})
		r.Post(RouteLogout, hs.Auth.Logout)

		r.Group(func(r chi.Router) {
			r.Use(guards.RequireAdmin)

			r.Get(RouteRoot, hs.Admin.Dashboard)

			r.Get(RouteEvents, hs.Admin.Events)
			r.Post(RouteEvents, hs.Admin.CreateEvent)
			r.Get(RouteEvents+RouteSuffixNew, hs.Admin.NewEvent)
			r.Get(RouteEventsID, hs.Admin.EditEvent)
			r.Post(RouteEventsID, hs.Admin.UpdateEvent)
			r.Post(RouteEventsID+RouteSuffixDelete, hs.Admin.DeleteEvent)

			r.Get(RouteBlogs, hs.Admin.Blogs)
			r.Post(RouteBlogs, hs.Admin.CreateBlog)
			r.Get(RouteBlogs+RouteSuffixNew, hs.Admin.NewBlog)
			r.Get(RouteBlogsID, hs.Admin.EditBlog)
			r.Post(RouteBlogsID, hs.Admin.UpdateBlog)
			r.Post(RouteBlogsID+RouteSuffixDelete, hs.Admin.DeleteBlog)

			r.Get(RouteGallery, hs.Admin.Gallery)
			r.Post(RouteGallery, hs.Admin.AddGalleryItem)
			r.Get(RouteGallery+RouteSuffixNew, hs.Admin.NewGalleryItem)
			r.Post(RouteGalleryID+RouteSuffixDelete, hs.Admin.DeleteGalleryItem)
		})
	})
}
