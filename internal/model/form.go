// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"errors"
	"strings"
)

// ErrValidation is wrapped by every presence check failure.
var ErrValidation = errors.New("validation failed")

// ValidationError carries the message shown to the admin.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Unwrap lets callers match with errors.Is(err, ErrValidation).
func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(msg string) error { return &ValidationError{Message: msg} }

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// BlogForm is the payload of a blog create or update.
type BlogForm struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Author      string `json:"author,omitempty"`
	ReadTime    int    `json:"readTime,omitempty"`
}

// Validate checks required fields.
func (f BlogForm) Validate() error {
	if blank(f.Title) || blank(f.Description) {
		return invalid("Title and description are required")
	}
	if f.ReadTime < 0 {
		return invalid("Read time cannot be negative")
	}
	return nil
}

// BlogFormFrom prefills a form from an existing blog.
func BlogFormFrom(b Blog) BlogForm {
	return BlogForm{
		Title:       b.Title,
		Description: b.Description,
		Content:     b.Content,
		ImageURL:    b.Cover(),
		Author:      b.Author,
		ReadTime:    b.ReadTime,
	}
}

// EventForm is the payload of an event create or update.
type EventForm struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Venue       string `json:"venue,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	IsActive    bool   `json:"isActive"`
}

// Validate checks required fields.
func (f EventForm) Validate() error {
	if blank(f.Title) || blank(f.Description) || blank(f.Date) {
		return invalid("Title, description and date are required")
	}
	return nil
}

// EventFormFrom prefills a form from an existing event.
func EventFormFrom(e Event) EventForm {
	return EventForm{
		Title:       e.Title,
		Description: e.Description,
		Date:        e.DateInput(),
		Venue:       e.Venue,
		ImageURL:    e.ImageURL,
		IsActive:    e.IsActive,
	}
}

// NewEventForm returns the blank form shown for a new event.
func NewEventForm() EventForm {
	return EventForm{IsActive: true}
}

// GalleryForm is the payload of a gallery image create.
type GalleryForm struct {
	ImageURL string `json:"imageUrl"`
	Title    string `json:"title,omitempty"`
	Category string `json:"category,omitempty"`
}

// Validate checks required fields.
func (f GalleryForm) Validate() error {
	if blank(f.ImageURL) {
		return invalid("Image URL is required")
	}
	return nil
}
