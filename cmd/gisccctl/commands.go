// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/DheerajVerma945/GISCC/internal/auth"
	"github.com/DheerajVerma945/GISCC/internal/listing"
	"github.com/DheerajVerma945/GISCC/internal/model"
)

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func cmdVersion(_ context.Context, a *app, _ []string) error {
	_, err := fmt.Fprintf(a.out, "gisccctl %s\n", a.info)
	return err
}

func cmdLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlags("login")
	email := fs.String("email", "", "admin email")
	password := fs.String("password", "", "admin password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return errors.New("-email and -password are required")
	}

	s, err := a.guard.Login(ctx, model.Credentials{Email: *email, Password: *password})
	if err != nil {
		return err
	}
	if s.Profile == nil {
		admin, err := a.guard.Profile(ctx, a.wait)
		if err != nil {
			return fmt.Errorf("verifying session: %w", err)
		}
		s.Profile = admin
	}
	_, err = fmt.Fprintf(a.out, "Signed in as %s, token stored in %s\n", s.Profile.Email, a.tokens.Path())
	return err
}

func cmdLogout(ctx context.Context, a *app, _ []string) error {
	if err := a.guard.Logout(ctx); err != nil {
		return err
	}
	_, err := fmt.Fprintln(a.out, "Logged out")
	return err
}

func cmdWhoami(ctx context.Context, a *app, _ []string) error {
	admin, err := a.guard.Profile(ctx, a.wait)
	switch {
	case errors.Is(err, auth.ErrNoToken):
		return errors.New("not signed in, run gisccctl login")
	case errors.Is(err, auth.ErrSessionExpired):
		_ = a.tokens.ClearToken(ctx)
		return errors.New(auth.MsgSessionExpired + ", run gisccctl login")
	case err != nil:
		return err
	}
	_, err = fmt.Fprintf(a.out, "%s <%s>\n", admin.DisplayName(), admin.Email)
	return err
}

// listFlags parses the search and page options shared by the list commands.
func listFlags(name string, args []string) (listing.Query, error) {
	fs := newFlags(name)
	q := fs.String("q", "", "search title and description")
	page := fs.Int("page", 1, "page number")
	if err := fs.Parse(args); err != nil {
		return listing.Query{}, err
	}
	return listing.Query{Search: *q, Page: *page}, nil
}

func footer(w io.Writer, total, filtered, page, pages int) {
	if pages > 1 {
		_, _ = fmt.Fprintf(w, "page %d of %d, ", page, pages)
	}
	if filtered != total {
		_, _ = fmt.Fprintf(w, "%d of %d matched\n", filtered, total)
		return
	}
	_, _ = fmt.Fprintf(w, "%d total\n", total)
}

func cmdBlogs(ctx context.Context, a *app, args []string) error {
	q, err := listFlags("blogs", args)
	if err != nil {
		return err
	}
	items, err := a.client.ListBlogs(ctx)
	if err != nil {
		return err
	}
	v := listing.Derive(items, q, listing.BlogPageSize)

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tREAD")
	for _, b := range v.Items {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d min\n", b.ID, b.Title, b.Byline(), b.Minutes())
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	footer(a.out, v.Total, v.TotalFiltered, v.Page, v.TotalPages)
	return nil
}

func cmdEvents(ctx context.Context, a *app, args []string) error {
	q, err := listFlags("events", args)
	if err != nil {
		return err
	}
	items, err := a.client.ListEvents(ctx)
	if err != nil {
		return err
	}
	v := listing.Derive(items, q, listing.EventPageSize)

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tTITLE\tDATE\tVENUE\tACTIVE")
	for _, e := range v.Items {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", e.ID, e.Title, e.DateInput(), e.Venue, e.IsActive)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	footer(a.out, v.Total, v.TotalFiltered, v.Page, v.TotalPages)
	return nil
}

// eventForm parses the event fields. id is returned when withID is set.
func eventForm(name string, args []string, withID bool) (string, model.EventForm, error) {
	fs := newFlags(name)
	var id string
	if withID {
		fs.StringVar(&id, "id", "", "event id")
	}
	var f model.EventForm
	fs.StringVar(&f.Title, "title", "", "title")
	fs.StringVar(&f.Description, "description", "", "description")
	fs.StringVar(&f.Date, "date", "", "date, YYYY-MM-DD")
	fs.StringVar(&f.Venue, "venue", "", "venue")
	fs.StringVar(&f.ImageURL, "image", "", "image URL")
	fs.BoolVar(&f.IsActive, "active", true, "shown as upcoming")
	if err := fs.Parse(args); err != nil {
		return "", f, err
	}
	if withID && id == "" {
		return "", f, errors.New("-id is required")
	}
	return id, f, f.Validate()
}

func cmdEventCreate(ctx context.Context, a *app, args []string) error {
	_, f, err := eventForm("event-create", args, false)
	if err != nil {
		return err
	}
	if err := a.client.CreateEvent(ctx, f); err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, "Event created")
	return err
}

func cmdEventUpdate(ctx context.Context, a *app, args []string) error {
	id, f, err := eventForm("event-update", args, true)
	if err != nil {
		return err
	}
	if err := a.client.UpdateEvent(ctx, id, f); err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, "Event updated")
	return err
}

// idFlag parses a required -id option.
func idFlag(name string, args []string) (string, error) {
	fs := newFlags(name)
	id := fs.String("id", "", "record id")
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if *id == "" {
		return "", errors.New("-id is required")
	}
	return *id, nil
}

func cmdEventDelete(ctx context.Context, a *app, args []string) error {
	id, err := idFlag("event-delete", args)
	if err != nil {
		return err
	}
	if err := a.client.DeleteEvent(ctx, id); err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, "Event deleted")
	return err
}

func cmdGallery(ctx context.Context, a *app, args []string) error {
	fs := newFlags("gallery")
	category := fs.String("category", "", "only this category")
	if err := fs.Parse(args); err != nil {
		return err
	}
	items, err := a.client.ListGallery(ctx, *category)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tIMAGE")
	for _, g := range items {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", g.ID, g.Title, g.Category, g.ImageURL)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.out, "%d total\n", len(items))
	return err
}

func cmdGalleryAdd(ctx context.Context, a *app, args []string) error {
	fs := newFlags("gallery-add")
	var f model.GalleryForm
	fs.StringVar(&f.ImageURL, "image", "", "image URL")
	fs.StringVar(&f.Title, "title", "", "title")
	fs.StringVar(&f.Category, "category", "", "category")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := f.Validate(); err != nil {
		return err
	}
	if err := a.client.AddGalleryItem(ctx, f); err != nil {
		return err
	}
	_, err := fmt.Fprintln(a.out, "Image added to gallery")
	return err
}

func cmdGalleryDelete(ctx context.Context, a *app, args []string) error {
	id, err := idFlag("gallery-delete", args)
	if err != nil {
		return err
	}
	if err := a.client.DeleteGalleryItem(ctx, id); err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, "Image deleted")
	return err
}
