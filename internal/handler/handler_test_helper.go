// Copyright (c) 2026 The MRE Site Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mouvement-re/mre-site/internal/auth"
	"github.com/mouvement-re/mre-site/internal/content"
	"github.com/mouvement-re/mre-site/internal/leads"
	"github.com/mouvement-re/mre-site/internal/middleware"
	"github.com/mouvement-re/mre-site/internal/render"
	"github.com/mouvement-re/mre-site/internal/session"
	"github.com/mouvement-re/mre-site/internal/testutil"
	"github.com/mouvement-re/mre-site/web"
)

const (
	testAdminEmail    = "admin@mouvement-re.cd"
	testAdminPassword = "kinshasa-2026-admin"
)

// fakeAuth accepts only the test admin credentials.
type fakeAuth struct{}

func (fakeAuth) SignInWithPassword(_ context.Context, email, password string) (*auth.Grant, error) {
	if email != testAdminEmail || password != testAdminPassword {
		return nil, errors.New("invalid login credentials")
	}
	return &auth.Grant{
		UserID:       "admin-1",
		Email:        email,
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		ExpiresAt:    time.Now().Add(time.Hour),
	}, nil
}

func (fakeAuth) Refresh(context.Context, string) (*auth.Grant, error) {
	return nil, errors.New("refresh not supported")
}

func (fakeAuth) SignOut(context.Context, string) error { return nil }

// testEnv is a running site over a FakeStore with a cookie-keeping client.
// The client does not follow redirects.
type testEnv struct {
	store    *testutil.FakeStore
	articles *content.Articles
	events   *content.Events
	loc      *time.Location
	server   *httptest.Server
	client   *http.Client
}

func testLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Africa/Kinshasa")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}
	return loc
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	loc := testLocation(t)
	fake := testutil.NewFakeStore()
	sm := session.New(session.NewMemoryStore(), true)
	provider := session.NewProvider(sm, fakeAuth{})

	templates, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("fs.Sub: %v", err)
	}
	renderer, err := render.New(render.Config{TemplatesFS: templates, SessionManager: sm, Location: loc})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	articles := content.NewArticles(fake)
	events := content.NewEvents(fake)
	ls := leads.NewService(fake, nil)

	frontend := NewFrontendHandler(renderer, sm, articles, events, ls)
	forms := NewFormsHandler(renderer, sm, ls)
	authHandler := NewAuthHandler(renderer, provider)
	articlesAdmin := NewArticlesHandler(renderer, articles)
	eventsAdmin := NewEventsHandler(renderer, events, loc)
	health := NewHealthHandler(fake, "fake", "test")

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave, provider.Load)
	r.NotFound(frontend.NotFound)

	r.Get("/health", health.Health)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Get(RouteRoot, frontend.Home)
	r.Get(RouteAbout, frontend.About)
	r.Get(RouteNews, frontend.News)
	r.Get(RouteNewsSlug, frontend.NewsDetail)
	r.Get(RouteEvents, frontend.Events)
	r.Get(RouteEventsSlug, frontend.EventDetail)
	r.Post(RouteEventsSlugRegister, frontend.Register)
	r.Get(RouteJoin, forms.JoinForm)
	r.Post(RouteJoin, forms.Join)
	r.Get(RouteContact, forms.ContactForm)
	r.Post(RouteContact, forms.Contact)

	r.With(middleware.RedirectIfSignedIn(redirectAdmin)).Get(RouteLogin, authHandler.LoginForm)
	r.Post(RouteLogin, authHandler.Login)
	r.Post(RouteLogout, authHandler.Logout)

	r.Route(RouteAdmin, func(r chi.Router) {
		r.Use(middleware.Auth, middleware.NoStore)
		r.Get("/", Dashboard)
		for _, p := range []struct {
			base, baseID string
			h            adminPanel
		}{
			{RouteArticles, RouteArticlesID, articlesAdmin},
			{RouteAdminEvents, RouteAdminEventsID, eventsAdmin},
		} {
			r.Get(p.base, p.h.List)
			r.Get(p.base+RouteSuffixNew, p.h.NewForm)
			r.Post(p.base, p.h.Create)
			r.Get(p.baseID, p.h.EditForm)
			r.Post(p.baseID, p.h.Update)
			r.Get(p.baseID+RouteSuffixDelete, p.h.DeleteConfirm)
			r.Post(p.baseID+RouteSuffixDelete, p.h.Delete)
		}
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New: %v", err)
	}
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &testEnv{
		store:    fake,
		articles: articles,
		events:   events,
		loc:      loc,
		server:   srv,
		client:   client,
	}
}

type adminPanel interface {
	List(http.ResponseWriter, *http.Request)
	NewForm(http.ResponseWriter, *http.Request)
	Create(http.ResponseWriter, *http.Request)
	EditForm(http.ResponseWriter, *http.Request)
	Update(http.ResponseWriter, *http.Request)
	DeleteConfirm(http.ResponseWriter, *http.Request)
	Delete(http.ResponseWriter, *http.Request)
}

type testResponse struct {
	status   int
	location string
	header   http.Header
	body     string
}

func (e *testEnv) do(t *testing.T, req *http.Request) testResponse {
	t.Helper()
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36")
	resp, err := e.client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return testResponse{
		status:   resp.StatusCode,
		location: resp.Header.Get("Location"),
		header:   resp.Header,
		body:     string(body),
	}
}

func (e *testEnv) get(t *testing.T, path string) testResponse {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, e.server.URL+path, nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	return e.do(t, req)
}

func (e *testEnv) post(t *testing.T, path string, form url.Values) testResponse {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, e.server.URL+path, strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set(HeaderContentType, "application/x-www-form-urlencoded")
	return e.do(t, req)
}

// signIn logs the test admin in and fails the test otherwise.
func (e *testEnv) signIn(t *testing.T) {
	t.Helper()
	resp := e.post(t, RouteLogin, url.Values{
		"email":    {testAdminEmail},
		"password": {testAdminPassword},
	})
	assertRedirect(t, resp, redirectAdmin)

	u, err := url.Parse(e.server.URL)
	if err != nil {
		t.Fatalf("parsing server URL: %v", err)
	}
	for _, c := range e.client.Jar.Cookies(u) {
		if c.Name == session.CookieName && c.Value != "" {
			return
		}
	}
	t.Fatalf("sign-in set no %s cookie", session.CookieName)
}

// assertStatus checks if the response status code matches the expected value.
func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status = %d; want %d", got, want)
	}
}

func assertRedirect(t *testing.T, resp testResponse, want string) {
	t.Helper()
	if resp.status != http.StatusSeeOther {
		t.Fatalf("status = %d; want %d (body: %.200s)", resp.status, http.StatusSeeOther, resp.body)
	}
	if resp.location != want {
		t.Fatalf("Location = %q; want %q", resp.location, want)
	}
}

func assertContains(t *testing.T, body string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(body, want) {
			t.Errorf("body does not contain %q", want)
		}
	}
}

func assertNotContains(t *testing.T, body string, unwanted ...string) {
	t.Helper()
	for _, s := range unwanted {
		if strings.Contains(body, s) {
			t.Errorf("body unexpectedly contains %q", s)
		}
	}
}
