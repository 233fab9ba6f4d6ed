// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the content records served by the remote API
// and the form records submitted by the admin panel.
package model

import (
	"strings"
	"time"
)

// Defaults applied when the API omits optional blog metadata.
const (
	DefaultBlogAuthor   = "Garvita Team"
	DefaultBlogReadTime = 5
)

// Blog is a published article.
type Blog struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content,omitempty"`
	Image       string `json:"image,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Author      string `json:"author,omitempty"`
	ReadTime    int    `json:"readTime,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

// ItemID returns the API-assigned identifier.
func (b Blog) ItemID() string { return b.ID }

// SearchText returns the fields matched by free-text search.
func (b Blog) SearchText() (string, string) { return b.Title, b.Description }

// Cover returns the image to display, preferring imageUrl over image.
func (b Blog) Cover() string {
	if b.ImageURL != "" {
		return b.ImageURL
	}
	return b.Image
}

// Byline returns the author or the default author.
func (b Blog) Byline() string {
	if strings.TrimSpace(b.Author) == "" {
		return DefaultBlogAuthor
	}
	return b.Author
}

// Minutes returns the read time or the default read time.
func (b Blog) Minutes() int {
	if b.ReadTime <= 0 {
		return DefaultBlogReadTime
	}
	return b.ReadTime
}

// Body returns the long-form content, falling back to the description.
func (b Blog) Body() string {
	if strings.TrimSpace(b.Content) != "" {
		return b.Content
	}
	return b.Description
}

// Published returns the parsed creation time, or the zero time.
func (b Blog) Published() time.Time { return ParseTime(b.CreatedAt) }

// Event is a scheduled event.
type Event struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Venue       string `json:"venue,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	IsActive    bool   `json:"isActive"`
}

// ItemID returns the API-assigned identifier.
func (e Event) ItemID() string { return e.ID }

// SearchText returns the fields matched by free-text search.
func (e Event) SearchText() (string, string) { return e.Title, e.Description }

// When returns the parsed event date, or the zero time.
func (e Event) When() time.Time { return ParseTime(e.Date) }

// DateInput returns the date in the YYYY-MM-DD form used by date inputs.
func (e Event) DateInput() string {
	if len(e.Date) >= 10 {
		return e.Date[:10]
	}
	return e.Date
}

// GalleryItem is an image in the gallery.
type GalleryItem struct {
	ID        string `json:"_id"`
	ImageURL  string `json:"imageUrl"`
	Title     string `json:"title,omitempty"`
	Category  string `json:"category,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// ItemID returns the API-assigned identifier.
func (g GalleryItem) ItemID() string { return g.ID }

// SearchText returns the fields matched by free-text search.
// Gallery images carry no description, so the category stands in for it.
func (g GalleryItem) SearchText() (string, string) { return g.Title, g.Category }

// ItemCategory returns the gallery category.
func (g GalleryItem) ItemCategory() string { return g.Category }

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02",
}

// ParseTime parses the timestamp formats returned by the API.
// Unparseable or empty input yields the zero time.
func ParseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
