// Copyright (c) 2026 The MRE Site Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mouvement-re/mre-site/internal/session"
	"github.com/mouvement-re/mre-site/internal/testutil"
)

func TestHealthHandler_Liveness(t *testing.T) {
	h := NewHealthHandler(testutil.NewFakeStore(), "fake", "test")

	w := httptest.NewRecorder()
	h.Liveness(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assertStatus(t, w.Code, http.StatusOK)
	if ct := w.Header().Get(HeaderContentType); ct != "application/json" {
		t.Errorf("Content-Type = %q; want application/json", ct)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "alive" {
		t.Errorf("status = %q; want alive", body["status"])
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	tests := []struct {
		name       string
		storeDown  bool
		signedIn   bool
		wantCode   int
		wantStatus string
		wantMsg    string
	}{
		{"ready", false, false, http.StatusOK, "ready", ""},
		{"store down anonymous", true, false, http.StatusServiceUnavailable, "not_ready", ""},
		{"store down admin", true, true, http.StatusServiceUnavailable, "not_ready", testutil.ErrStoreDown.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := testutil.NewFakeStore()
			if tt.storeDown {
				fake.FailOn("ping", "", testutil.ErrStoreDown)
			}
			h := NewHealthHandler(fake, "fake", "test")

			req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
			if tt.signedIn {
				req = req.WithContext(session.WithUser(req.Context(), &session.User{ID: "admin-1", Email: testAdminEmail}))
			}
			w := httptest.NewRecorder()
			h.Readiness(w, req)

			assertStatus(t, w.Code, tt.wantCode)
			var body map[string]string
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["status"] != tt.wantStatus {
				t.Errorf("status = %q; want %q", body["status"], tt.wantStatus)
			}
			if body["message"] != tt.wantMsg {
				t.Errorf("message = %q; want %q", body["message"], tt.wantMsg)
			}
		})
	}
}

func TestHealthHandler_Health(t *testing.T) {
	h := NewHealthHandler(testutil.NewFakeStore(), "fake", "1.2.3")

	w := httptest.NewRecorder()
	h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assertStatus(t, w.Code, http.StatusOK)
	if got := w.Body.String(); got != "{\"status\":\"healthy\"}\n" {
		t.Errorf("anonymous body = %q; want minimal status", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/health?verbose=true", nil)
	req = req.WithContext(session.WithUser(req.Context(), &session.User{ID: "admin-1", Email: testAdminEmail}))
	w = httptest.NewRecorder()
	h.Health(w, req)

	var status HealthStatus
	if err := json.NewDecoder(w.Body).Decode(&status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.Version != "1.2.3" {
		t.Errorf("Version = %q; want 1.2.3", status.Version)
	}
	if status.Checks["store"].Status != "healthy" {
		t.Errorf("store check = %+v; want healthy", status.Checks["store"])
	}
	if status.System == nil {
		t.Error("System should be set with verbose=true")
	}
}

func TestHealthHandler_HealthDegraded(t *testing.T) {
	fake := testutil.NewFakeStore()
	fake.FailOn("ping", "", testutil.ErrStoreDown)
	h := NewHealthHandler(fake, "fake", "test")

	w := httptest.NewRecorder()
	h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assertStatus(t, w.Code, http.StatusServiceUnavailable)
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes uint64
		want  string
	}{
		{512, "512 B"},
		{2048, "2.00 KB"},
		{5 * 1024 * 1024, "5.00 MB"},
		{3 * 1024 * 1024 * 1024, "3.00 GB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.bytes); got != tt.want {
			t.Errorf("formatBytes(%d) = %q; want %q", tt.bytes, got, tt.want)
		}
	}
}
