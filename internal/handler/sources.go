// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"

	"github.com/DheerajVerma945/GISCC/internal/apiclient"
	"github.com/DheerajVerma945/GISCC/internal/cache"
	"github.com/DheerajVerma945/GISCC/internal/listing"
	"github.com/DheerajVerma945/GISCC/internal/model"
)

// ListAPI is the part of the remote API the listings are loaded from.
type ListAPI interface {
	ListBlogs(ctx context.Context) ([]model.Blog, error)
	ListEvents(ctx context.Context) ([]model.Event, error)
	ListGallery(ctx context.Context, category string) ([]model.GalleryItem, error)
}

// Sources holds the shared listing of each content type.
type Sources struct {
	Blogs   *listing.Source[model.Blog]
	Events  *listing.Source[model.Event]
	Gallery *listing.Source[model.GalleryItem]
}

// NewSources creates the listings over api. Listings are shared by every
// visitor, so they are always fetched without the visitor's token.
func NewSources(api ListAPI, c cache.Cacher, opts listing.Options) *Sources {
	return &Sources{
		Blogs: listing.NewSource(kindBlog, c, func(ctx context.Context, _ string) ([]model.Blog, error) {
			return api.ListBlogs(apiclient.WithToken(ctx, ""))
		}, opts),
		Events: listing.NewSource(kindEvent, c, func(ctx context.Context, _ string) ([]model.Event, error) {
			return api.ListEvents(apiclient.WithToken(ctx, ""))
		}, opts),
		Gallery: listing.NewSource(kindGallery, c, func(ctx context.Context, category string) ([]model.GalleryItem, error) {
			return api.ListGallery(apiclient.WithToken(ctx, ""), category)
		}, opts),
	}
}

// Refresh reloads every listing. All listings are attempted; the errors
// are joined.
func (s *Sources) Refresh(ctx context.Context) error {
	return errors.Join(
		s.Blogs.Refresh(ctx),
		s.Events.Refresh(ctx),
		s.Gallery.Refresh(ctx),
	)
}

// unfilteredGallery returns the whole gallery for the category bar. items
// is already unfiltered when category is empty; otherwise the cached
// unfiltered snapshot is used, loading it when the cache is cold.
func (s *Sources) unfilteredGallery(ctx context.Context, category string, items []model.GalleryItem) []model.GalleryItem {
	if category == "" {
		return items
	}
	if all, ok := s.Gallery.Items(ctx, ""); ok {
		return all
	}
	all, _ := s.Gallery.Get(ctx, "")
	return all
}

// Close stops all later writes to the listings.
func (s *Sources) Close() {
	s.Blogs.Close()
	s.Events.Close()
	s.Gallery.Close()
}
