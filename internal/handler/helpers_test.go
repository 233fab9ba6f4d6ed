// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/DheerajVerma945/GISCC/internal/apiclient"
	"github.com/DheerajVerma945/GISCC/internal/auth"
	"github.com/DheerajVerma945/GISCC/internal/cache"
	"github.com/DheerajVerma945/GISCC/internal/inflight"
	"github.com/DheerajVerma945/GISCC/internal/listing"
	"github.com/DheerajVerma945/GISCC/internal/middleware"
	"github.com/DheerajVerma945/GISCC/internal/model"
	"github.com/DheerajVerma945/GISCC/internal/render"
	"github.com/DheerajVerma945/GISCC/internal/session"
	"github.com/DheerajVerma945/GISCC/internal/testutil"
	"github.com/DheerajVerma945/GISCC/web"
)

const (
	testEmail    = "ops@giscc.in"
	testPassword = "correct horse"
	testToken    = "T1"
)

// fakeAPI is an in-memory stand-in for the remote content API.
type fakeAPI struct {
	mu sync.Mutex

	blogs   []model.Blog
	events  []model.Event
	gallery []model.GalleryItem
	nextID  int

	// listStatus, when set, fails every list call.
	listStatus int
	// eventsGate, when set, holds event list calls until it is closed.
	eventsGate chan struct{}
	// verifyStatus, when set, fails verification.
	verifyStatus int
	// mutateStatus and mutateMessage, when set, fail every mutation.
	mutateStatus  int
	mutateMessage string

	lists      map[string]int
	mutations  int
	categories []string
	auths      []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{lists: make(map[string]int)}
}

func (f *fakeAPI) listCalls(kind string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lists[kind]
}

func (f *fakeAPI) mutationCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mutations
}

func (f *fakeAPI) set(fn func(f *fakeAPI)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(HeaderContentType, "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func (f *fakeAPI) authorized(r *http.Request) bool {
	return r.Header.Get("Authorization") == "Bearer "+testToken
}

// mutate runs fn for an authorized mutation unless a failure is configured.
func (f *fakeAPI) mutate(w http.ResponseWriter, r *http.Request, fn func() int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.auths = append(f.auths, r.Header.Get("Authorization"))
	if !f.authorized(r) {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if f.mutateStatus != 0 {
		writeMessage(w, f.mutateStatus, f.mutateMessage)
		return
	}
	f.mutations++
	w.WriteHeader(fn())
}

func (f *fakeAPI) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s%d", prefix, f.nextID)
}

func (f *fakeAPI) handler() http.Handler {
	r := chi.NewRouter()

	r.Post("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds model.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Email != testEmail || creds.Password != testPassword {
			writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"token": testToken})
	})

	r.Get("/auth/verify", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		status := f.verifyStatus
		f.mu.Unlock()
		if status != 0 {
			writeMessage(w, status, "Token expired")
			return
		}
		if !f.authorized(r) {
			writeMessage(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		writeJSON(w, http.StatusOK, model.Admin{ID: "a1", Email: testEmail})
	})

	r.Get("/admin/events", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		gate := f.eventsGate
		f.mu.Unlock()
		if gate != nil {
			<-gate
		}

		f.mu.Lock()
		defer f.mu.Unlock()
		f.lists[kindEvent]++
		if f.listStatus != 0 {
			writeMessage(w, f.listStatus, "boom")
			return
		}
		writeJSON(w, http.StatusOK, f.events)
	})
	r.Get("/admin/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if e, ok := findByID(f.events, chi.URLParam(r, "id")); ok {
			writeJSON(w, http.StatusOK, e)
			return
		}
		writeMessage(w, http.StatusNotFound, "Event not found")
	})
	r.Post("/admin/events", func(w http.ResponseWriter, r *http.Request) {
		var form model.EventForm
		_ = json.NewDecoder(r.Body).Decode(&form)
		f.mutate(w, r, func() int {
			f.events = append(f.events, model.Event{
				ID: f.id("e"), Title: form.Title, Description: form.Description,
				Date: form.Date, Venue: form.Venue, IsActive: form.IsActive,
			})
			return http.StatusCreated
		})
	})
	r.Put("/admin/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		var form model.EventForm
		_ = json.NewDecoder(r.Body).Decode(&form)
		id := chi.URLParam(r, "id")
		f.mutate(w, r, func() int {
			for i := range f.events {
				if f.events[i].ID == id {
					f.events[i].Title = form.Title
					f.events[i].Description = form.Description
					f.events[i].Date = form.Date
					f.events[i].IsActive = form.IsActive
					return http.StatusOK
				}
			}
			return http.StatusNotFound
		})
	})
	r.Delete("/admin/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		f.mutate(w, r, func() int {
			for i := range f.events {
				if f.events[i].ID == id {
					f.events = append(f.events[:i], f.events[i+1:]...)
					return http.StatusOK
				}
			}
			return http.StatusNotFound
		})
	})

	r.Get("/admin/blogs", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.lists[kindBlog]++
		if f.listStatus != 0 {
			writeMessage(w, f.listStatus, "boom")
			return
		}
		writeJSON(w, http.StatusOK, f.blogs)
	})
	r.Get("/admin/blogs/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if b, ok := findByID(f.blogs, chi.URLParam(r, "id")); ok {
			writeJSON(w, http.StatusOK, b)
			return
		}
		writeMessage(w, http.StatusNotFound, "Blog not found")
	})
	r.Post("/admin/blogs", func(w http.ResponseWriter, r *http.Request) {
		var form model.BlogForm
		_ = json.NewDecoder(r.Body).Decode(&form)
		f.mutate(w, r, func() int {
			f.blogs = append(f.blogs, model.Blog{ID: f.id("b"), Title: form.Title, Description: form.Description})
			return http.StatusCreated
		})
	})
	r.Delete("/admin/blogs/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		f.mutate(w, r, func() int {
			f.blogs = deleteByID(f.blogs, id)
			return http.StatusOK
		})
	})

	r.Get("/admin/gallery", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.lists[kindGallery]++
		category := r.URL.Query().Get("category")
		f.categories = append(f.categories, category)
		var out []model.GalleryItem
		for _, g := range f.gallery {
			if category == "" || g.Category == category {
				out = append(out, g)
			}
		}
		writeJSON(w, http.StatusOK, out)
	})
	r.Post("/admin/gallery", func(w http.ResponseWriter, r *http.Request) {
		var form model.GalleryForm
		_ = json.NewDecoder(r.Body).Decode(&form)
		f.mutate(w, r, func() int {
			f.gallery = append(f.gallery, model.GalleryItem{ID: f.id("g"), ImageURL: form.ImageURL, Title: form.Title, Category: form.Category})
			return http.StatusCreated
		})
	})
	r.Delete("/admin/gallery/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		f.mutate(w, r, func() int {
			f.gallery = deleteByID(f.gallery, id)
			return http.StatusOK
		})
	})

	return r
}

func deleteByID[T listing.Item](items []T, id string) []T {
	out := items[:0]
	for _, it := range items {
		if it.ItemID() != id {
			out = append(out, it)
		}
	}
	return out
}

// testApp is the full site wired against a fakeAPI.
type testApp struct {
	api      *fakeAPI
	sources  *Sources
	tracker  *inflight.Tracker
	server   *httptest.Server
	client   *http.Client
	renderer *render.Renderer
}

// newTestApp wires the site. maxAge is the listing freshness window.
func newTestApp(t *testing.T, api *fakeAPI, maxAge time.Duration) *testApp {
	t.Helper()

	apiServer := httptest.NewServer(api.handler())
	t.Cleanup(apiServer.Close)

	sm := session.New(session.Options{IsDev: true})
	tokens := session.NewTokens(sm)

	client, err := apiclient.New(apiServer.URL, apiclient.WithTokenSource(tokens), apiclient.WithTimeout(5*time.Second))
	require.NoError(t, err)

	guard := auth.NewGuard(client, tokens, auth.Options{Logger: testutil.TestLogger()})
	t.Cleanup(func() { _ = guard.Close() })

	templates, err := fs.Sub(web.Templates, "templates")
	require.NoError(t, err)
	renderer, err := render.New(render.Config{TemplatesFS: templates, SessionManager: sm})
	require.NoError(t, err)

	mem := cache.NewMemoryCache(cache.MemoryCacheOptions{})
	t.Cleanup(func() { _ = mem.Close() })
	sources := NewSources(client, mem, listing.Options{MaxAge: maxAge})

	lp := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	t.Cleanup(lp.Close)

	tracker := inflight.New()
	authH := NewAuthHandler(renderer, guard, lp, testutil.TestLogger())
	hs := Handlers{
		Public: NewPublicHandler(renderer, sources, client, testutil.TestLogger()),
		Auth:   authH,
		Admin:  NewAdminHandler(renderer, client, sources, tracker, testutil.TestLogger()),
		Health: NewHealthHandler(HealthConfig{API: client, Guard: guard}),
	}

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave)
	hs.Routes(r, RouteGuards{
		RequireAdmin: middleware.RequireAdmin(middleware.AuthConfig{
			Guard:     guard,
			Wait:      2 * time.Second,
			Waiting:   http.HandlerFunc(authH.Verifying),
			OnExpired: authH.SessionExpired,
		}),
		LoginLimit: lp.Middleware(),
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testApp{
		api:      api,
		sources:  sources,
		tracker:  tracker,
		server:   server,
		renderer: renderer,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

type testResponse struct {
	Status   int
	Location string
	Body     string
}

func (a *testApp) do(t *testing.T, method, path string, form url.Values) testResponse {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, a.server.URL+path, body)
	require.NoError(t, err)
	if form != nil {
		req.Header.Set(HeaderContentType, "application/x-www-form-urlencoded")
	}

	resp, err := a.client.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return testResponse{
		Status:   resp.StatusCode,
		Location: resp.Header.Get("Location"),
		Body:     string(data),
	}
}

func (a *testApp) get(t *testing.T, path string) testResponse {
	t.Helper()
	return a.do(t, http.MethodGet, path, nil)
}

func (a *testApp) post(t *testing.T, path string, form url.Values) testResponse {
	t.Helper()
	if form == nil {
		form = url.Values{}
	}
	return a.do(t, http.MethodPost, path, form)
}

// login signs in and resolves the verification on the dashboard.
func (a *testApp) login(t *testing.T) {
	t.Helper()

	resp := a.post(t, redirectLogin, url.Values{"email": {testEmail}, "password": {testPassword}})
	require.Equal(t, http.StatusSeeOther, resp.Status, resp.Body)
	require.Equal(t, redirectAdmin, resp.Location)

	dash := a.get(t, redirectAdmin)
	require.Equal(t, http.StatusOK, dash.Status, dash.Body)
}

func sampleEvents(n int) []model.Event {
	out := make([]model.Event, n)
	for i := range out {
		out[i] = model.Event{
			ID:          fmt.Sprintf("e%d", i+1),
			Title:       fmt.Sprintf("Event %02d", i+1),
			Description: "Site visit",
			Date:        "2026-03-01T00:00:00.000Z",
			IsActive:    true,
		}
	}
	return out
}

func sampleBlogs(n int) []model.Blog {
	out := make([]model.Blog, n)
	for i := range out {
		out[i] = model.Blog{
			ID:          fmt.Sprintf("b%d", i+1),
			Title:       fmt.Sprintf("Post %02d", i+1),
			Description: "Notes from the field",
		}
	}
	return out
}
