// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route constants for URL patterns.
const (
	// RouteRoot is the root route pattern.
	RouteRoot = "/"
	// RouteParamID is the ID parameter route pattern.
	RouteParamID = "/{id}"
	// RouteSuffixNew is the new resource route suffix.
	RouteSuffixNew = "/new"
	// RouteSuffixDelete is the delete action route suffix.
	RouteSuffixDelete = "/delete"

	// RouteBlogs is the blogs route pattern.
	RouteBlogs = "/blogs"
	// RouteEvents is the events route pattern.
	RouteEvents = "/events"
	// RouteGallery is the gallery route pattern.
	RouteGallery = "/gallery"

	// RouteAdmin is the admin mount point.
	RouteAdmin = "/admin"
	// RouteLogin is the login route, relative to RouteAdmin.
	RouteLogin = "/login"
	// RouteLogout is the logout route, relative to RouteAdmin.
	RouteLogout = "/logout"

	// RouteHealth is the health check route.
	RouteHealth = "/health"
	// RouteStatic is the static assets route.
	RouteStatic = "/static/*"
)

// Composite route patterns.
const (
	// RouteBlogsID is the blogs ID route pattern.
	RouteBlogsID = RouteBlogs + RouteParamID
	// RouteEventsID is the events ID route pattern.
	RouteEventsID = RouteEvents + RouteParamID
	// RouteGalleryID is the gallery ID route pattern.
	RouteGalleryID = RouteGallery + RouteParamID
)

const (
	redirectAdmin        = RouteAdmin
	redirectLogin        = RouteAdmin + RouteLogin
	redirectAdminEvents  = RouteAdmin + RouteEvents
	redirectAdminBlogs   = RouteAdmin + RouteBlogs
	redirectAdminGallery = RouteAdmin + RouteGallery
)

// Content kinds, used in in-flight keys and log records.
const (
	kindEvent   = "event"
	kindBlog    = "blog"
	kindGallery = "gallery"
)

// User-facing notifications.
const (
	msgWelcomeBack      = "Welcome back!"
	msgLoggedOut        = "Logged out successfully"
	msgCredentials      = "Email and password are required"
	msgInvalidForm      = "Invalid form data"
	msgDuplicateSubmit  = "This form is already being submitted"
	msgDeleteInProgress = "Delete already in progress"

	msgEventsLoadFailed  = "Failed to load events"
	msgBlogsLoadFailed   = "Failed to load blogs"
	msgGalleryLoadFailed = "Failed to load gallery"

	msgEventCreated      = "Event created"
	msgEventUpdated      = "Event updated"
	msgEventDeleted      = "Event deleted"
	msgEventDeleteFailed = "Failed to delete event"

	msgBlogCreated      = "Blog created"
	msgBlogUpdated      = "Blog updated"
	msgBlogDeleted      = "Blog deleted"
	msgBlogDeleteFailed = "Failed to delete blog"

	msgImageAdded        = "Image added to gallery"
	msgImageDeleted      = "Image deleted"
	msgImageDeleteFailed = "Failed to delete image"
)

// HeaderContentType is the Content-Type HTTP header name.
const HeaderContentType = "Content-Type"
