// Copyright (c) 2026 The MRE Site Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mouvement-re/mre-site/internal/render"
	"github.com/mouvement-re/mre-site/internal/session"
)

// AuthHandler handles the admin login and logout routes.
type AuthHandler struct {
	renderer *render.Renderer
	provider *session.Provider
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(renderer *render.Renderer, p *session.Provider) *AuthHandler {
	return &AuthHandler{renderer: renderer, provider: p}
}

type loginPage struct {
	Email string
	Error string
}

// LoginForm renders the login page. Signed-in admins are redirected by
// middleware before reaching it.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, r, http.StatusOK, loginPage{})
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectLogin) {
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	if _, err := h.provider.SignIn(r.Context(), email, password); err != nil {
		if !errors.Is(err, session.ErrInvalidCredentials) {
			slog.Error("login failed", "email", email, "error", err)
		}
		h.renderLogin(w, r, http.StatusOK, loginPage{Email: email, Error: msgInvalidLogin})
		return
	}

	http.Redirect(w, r, redirectAdmin, http.StatusSeeOther)
}

// Logout signs the admin out and returns to the login page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	email := ""
	if u, ok := session.CurrentUser(r.Context()); ok {
		email = u.Email
	}
	if err := h.provider.SignOut(r.Context()); err != nil {
		slog.Warn("sign out reported an error", "error", err)
	}
	slog.Info("admin signed out", "email", email)
	flashSuccess(w, r, h.renderer, redirectLogin, msgSignedOut)
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, status int, page loginPage) {
	renderPage(w, r, h.renderer, status, "auth/login", render.TemplateData{
		Title: "Espace Administrateur",
		Data:  page,
	})
}
