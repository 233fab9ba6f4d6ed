// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/DheerajVerma945/GISCC/internal/model"
)

// Remote API paths.
const (
	PathLogin   = "/auth/login"
	PathVerify  = "/auth/verify"
	PathBlogs   = "/admin/blogs"
	PathEvents  = "/admin/events"
	PathGallery = "/admin/gallery"
)

func itemPath(base, id string) string {
	return base + "/" + url.PathEscape(id)
}

// Login exchanges credentials for a bearer token. It does not persist the
// token; that is the caller's job.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (*model.LoginResult, error) {
	var res model.LoginResult
	if err := c.Do(WithToken(ctx, ""), http.MethodPost, PathLogin, creds, &res); err != nil {
		return nil, err
	}
	if res.Token == "" {
		return nil, &HTTPError{Status: http.StatusBadGateway, Message: "Login failed"}
	}
	return &res, nil
}

// Verify resolves the current token to the admin profile. The API may
// return the profile bare or wrapped in an "admin" field.
func (c *Client) Verify(ctx context.Context) (*model.Admin, error) {
	var raw json.RawMessage
	if err := c.Do(ctx, http.MethodGet, PathVerify, nil, &raw); err != nil {
		return nil, err
	}
	admin, err := decodeAdmin(raw)
	if err != nil {
		return nil, &HTTPError{Status: http.StatusBadGateway, Message: FallbackMessage, Err: err}
	}
	return admin, nil
}

func decodeAdmin(raw json.RawMessage) (*model.Admin, error) {
	var wrapped struct {
		Admin *model.Admin `json:"admin"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Admin != nil {
		return wrapped.Admin, nil
	}
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, fmt.Errorf("empty profile")
	}
	var admin model.Admin
	if err := json.Unmarshal(raw, &admin); err != nil {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}
	return &admin, nil
}

// ListBlogs returns all blogs in API order.
func (c *Client) ListBlogs(ctx context.Context) ([]model.Blog, error) {
	var out []model.Blog
	if err := c.Get(ctx, PathBlogs, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetBlog returns one blog.
func (c *Client) GetBlog(ctx context.Context, id string) (*model.Blog, error) {
	var out model.Blog
	if err := c.Get(ctx, itemPath(PathBlogs, id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateBlog creates a blog.
func (c *Client) CreateBlog(ctx context.Context, f model.BlogForm) error {
	return c.Do(ctx, http.MethodPost, PathBlogs, f, nil)
}

// UpdateBlog replaces a blog.
func (c *Client) UpdateBlog(ctx context.Context, id string, f model.BlogForm) error {
	return c.Do(ctx, http.MethodPut, itemPath(PathBlogs, id), f, nil)
}

// DeleteBlog removes a blog.
func (c *Client) DeleteBlog(ctx context.Context, id string) error {
	return c.Do(ctx, http.MethodDelete, itemPath(PathBlogs, id), nil, nil)
}

// ListEvents returns all events in API order.
func (c *Client) ListEvents(ctx context.Context) ([]model.Event, error) {
	var out []model.Event
	if err := c.Get(ctx, PathEvents, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetEvent returns one event.
func (c *Client) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	var out model.Event
	if err := c.Get(ctx, itemPath(PathEvents, id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateEvent creates an event.
func (c *Client) CreateEvent(ctx context.Context, f model.EventForm) error {
	return c.Do(ctx, http.MethodPost, PathEvents, f, nil)
}

// UpdateEvent replaces an event.
func (c *Client) UpdateEvent(ctx context.Context, id string, f model.EventForm) error {
	return c.Do(ctx, http.MethodPut, itemPath(PathEvents, id), f, nil)
}

// DeleteEvent removes an event.
func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	return c.Do(ctx, http.MethodDelete, itemPath(PathEvents, id), nil, nil)
}

// ListGallery returns gallery items, filtered server-side when category
// is not empty.
func (c *Client) ListGallery(ctx context.Context, category string) ([]model.GalleryItem, error) {
	path := PathGallery
	if category != "" {
		path += "?" + url.Values{"category": {category}}.Encode()
	}
	var out []model.GalleryItem
	if err := c.Get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddGalleryItem creates a gallery item.
func (c *Client) AddGalleryItem(ctx context.Context, f model.GalleryForm) error {
	return c.Do(ctx, http.MethodPost, PathGallery, f, nil)
}

// DeleteGalleryItem removes a gallery item.
func (c *Client) DeleteGalleryItem(ctx context.Context, id string) error {
	return c.Do(ctx, http.MethodDelete, itemPath(PathGallery, id), nil, nil)
}
