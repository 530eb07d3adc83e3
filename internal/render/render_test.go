// Copyright (c) 2026 The MRE Site Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"
	_ "time/tzdata"

	"github.com/mouvement-re/mre-site/internal/session"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.html":    {Data: []byte(`{{define "base"}}<title>{{.Title}}</title>{{if .Flash}}<div class="flash-{{.FlashType}}">{{.Flash}}</div>{{end}}{{template "layout" .}}{{end}}`)},
		"layouts/public.html":  {Data: []byte(`{{define "layout"}}<main>{{template "content" .}}</main>{{template "footer" .}}{{end}}`)},
		"layouts/admin.html":   {Data: []byte(`{{define "layout"}}<aside>{{with .CurrentUser}}{{.Email}}{{end}}</aside>{{template "content" .}}{{end}}`)},
		"partials/footer.html": {Data: []byte(`{{define "footer"}}<footer>{{.CurrentYear}}</footer>{{end}}`)},
		"public/article.html":  {Data: []byte(`{{define "content"}}<h1>{{.Data.Title}}</h1><p>{{formatDate .Data.Date}}</p>{{markdown .Data.Body}}{{end}}`)},
		"auth/login.html":      {Data: []byte(`{{define "content"}}<form>{{.CurrentPath}}</form>{{end}}`)},
		"admin/dashboard.html": {Data: []byte(`{{define "content"}}<h1>Tableau de bord</h1>{{end}}`)},
	}
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	loc, err := time.LoadLocation("Africa/Kinshasa")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}
	r, err := New(Config{TemplatesFS: testFS(), Location: loc})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r.now = func() time.Time { return time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC) }
	return r
}

func TestNewParsesAllDirectories(t *testing.T) {
	r := newTestRenderer(t)
	for _, name := range []string{"public/article", "auth/login", "admin/dashboard"} {
		if !r.Has(name) {
			t.Errorf("template %s was not parsed", name)
		}
	}
	if r.Has("partials/footer") {
		t.Error("partials should not be pages")
	}
}

func TestRenderStatus(t *testing.T) {
	r := newTestRenderer(t)
	req := httptest.NewRequest(http.MethodGet, "/news/x", nil)
	rr := httptest.NewRecorder()

	err := r.RenderStatus(rr, req, http.StatusNotFound, "public/article", TemplateData{
		Title: "Article",
		Data: map[string]any{
			"Title": "Bonjour",
			"Date":  time.Date(2025, 1, 14, 23, 30, 0, 0, time.UTC),
			"Body":  "Premier paragraphe.\n\nSecond <script>alert(1)</script> paragraphe.",
		},
	})
	if err != nil {
		t.Fatalf("RenderStatus: %v", err)
	}

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	body := rr.Body.String()
	for _, want := range []string{
		"<title>Article</title>",
		"<h1>Bonjour</h1>",
		"<p>15 janvier 2025</p>",
		"<p>Premier paragraphe.</p>",
		"<footer>2026</footer>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
	if strings.Contains(body, "<script>") {
		t.Errorf("body contains unsanitized script: %s", body)
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	r := newTestRenderer(t)
	rr := httptest.NewRecorder()
	err := r.Render(rr, httptest.NewRequest(http.MethodGet, "/", nil), "public/missing", TemplateData{})
	if err == nil {
		t.Fatal("Render of an unknown template succeeded")
	}
	if rr.Body.Len() != 0 {
		t.Errorf("body = %q, want nothing written", rr.Body.String())
	}
}

func TestRenderCurrentUserAndPath(t *testing.T) {
	r := newTestRenderer(t)
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req = req.WithContext(session.WithUser(req.Context(), &session.User{ID: "u-1", Email: "admin@mouvement-re.cd"}))
	rr := httptest.NewRecorder()

	if err := r.Render(rr, req, "admin/dashboard", TemplateData{}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(rr.Body.String(), "<aside>admin@mouvement-re.cd</aside>") {
		t.Errorf("admin layout should show the signed-in email: %s", rr.Body.String())
	}

	rr = httptest.NewRecorder()
	if err := r.Render(rr, httptest.NewRequest(http.MethodGet, "/login", nil), "auth/login", TemplateData{}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(rr.Body.String(), "<form>/login</form>") {
		t.Errorf("CurrentPath not set: %s", rr.Body.String())
	}
}

func TestFlash(t *testing.T) {
	sm := session.New(session.NewMemoryStore(), true)
	r, err := New(Config{TemplatesFS: testFS(), SessionManager: sm})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var cookie *http.Cookie
	set := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.SetFlash(req, "Article créé", "success")
	}))
	rr := httptest.NewRecorder()
	set.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/admin/articles", nil))
	for _, c := range rr.Result().Cookies() {
		if c.Name == session.CookieName {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("no session cookie after SetFlash")
	}

	show := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if err := r.Render(w, req, "admin/dashboard", TemplateData{}); err != nil {
			t.Errorf("Render: %v", err)
		}
	}))
	for i, want := range []bool{true, false} {
		req := httptest.NewRequest(http.MethodGet, "/admin/articles", nil)
		req.AddCookie(cookie)
		rr = httptest.NewRecorder()
		show.ServeHTTP(rr, req)
		got := strings.Contains(rr.Body.String(), `<div class="flash-success">Article créé</div>`)
		if got != want {
			t.Errorf("render %d: flash shown = %v, want %v", i, got, want)
		}
	}
}
