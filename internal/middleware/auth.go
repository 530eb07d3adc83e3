// Copyright (c) 2026 The MRE Site Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for the admin gate,
// request hardening and static asset caching.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mouvement-re/mre-site/internal/session"
)

// LoginPath is where unauthenticated admin requests are sent.
const LoginPath = "/login"

// Auth requires a signed-in admin. It runs after session.Provider.Load,
// which places the user in the request context. Anonymous requests are
// redirected to the login page without reaching next.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := session.CurrentUser(r.Context()); !ok {
			slog.Debug("admin access without session", "path", r.URL.Path, "remote_addr", r.RemoteAddr)
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RedirectIfSignedIn sends an already signed-in admin from the login page
// straight to target.
func RedirectIfSignedIn(target string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				if _, ok := session.CurrentUser(r.Context()); ok {
					http.Redirect(w, r, target, http.StatusSeeOther)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserEmail returns the signed-in admin's email, or "" for logging.
func UserEmail(r *http.Request) string {
	if u, ok := session.CurrentUser(r.Context()); ok {
		return u.Email
	}
	return ""
}
