// Copyright (c) 2026 The MRE Site Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/mileusna/useragent"

	"github.com/mouvement-re/mre-site/internal/leads"
	"github.com/mouvement-re/mre-site/internal/model"
	"github.com/mouvement-re/mre-site/internal/render"
)

// FormsHandler serves the membership and contact forms.
type FormsHandler struct {
	renderer *render.Renderer
	sm       *scs.SessionManager
	leads    *leads.Service
}

// NewFormsHandler creates a new FormsHandler.
func NewFormsHandler(renderer *render.Renderer, sm *scs.SessionManager, ls *leads.Service) *FormsHandler {
	return &FormsHandler{renderer: renderer, sm: sm, leads: ls}
}

type formPage[F any] struct {
	Form      F
	State     leads.FormState
	Error     string
	Provinces []string
}

func (p formPage[F]) Success() bool  { return p.State == leads.StateSuccess }
func (p formPage[F]) HasError() bool { return p.State == leads.StateError }

// JoinForm renders the membership form, or the success panel right after
// a successful submission.
func (h *FormsHandler) JoinForm(w http.ResponseWriter, r *http.Request) {
	page := formPage[leads.JoinForm]{Provinces: model.Provinces}
	if popSubmitted(r, h.sm, leads.FormJoin, "") {
		page.State = leads.StateSuccess
	}
	h.renderJoin(w, r, page)
}

// Join handles the membership form submission.
func (h *FormsHandler) Join(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteJoin) {
		return
	}

	form := leads.BindJoin(r.PostForm)
	if err := h.leads.Join(r.Context(), form); err != nil {
		slog.Error("failed to record membership", "error", err)
		h.renderJoin(w, r, formPage[leads.JoinForm]{
			Form:      form,
			State:     leads.StateError,
			Error:     msgGenericError,
			Provinces: model.Provinces,
		})
		return
	}

	logLead(r, leads.FormJoin, "province", form.Province)
	markSubmitted(r, h.sm, leads.FormJoin, "")
	http.Redirect(w, r, RouteJoin, http.StatusSeeOther)
}

func (h *FormsHandler) renderJoin(w http.ResponseWriter, r *http.Request, page formPage[leads.JoinForm]) {
	renderPage(w, r, h.renderer, http.StatusOK, "public/join", render.TemplateData{
		Title: "Rejoignez-nous",
		Data:  page,
	})
}

// ContactForm renders the contact page.
func (h *FormsHandler) ContactForm(w http.ResponseWriter, r *http.Request) {
	page := formPage[leads.ContactForm]{}
	if popSubmitted(r, h.sm, leads.FormContact, "") {
		page.State = leads.StateSuccess
	}
	h.renderContact(w, r, page)
}

// Contact handles the contact form submission.
func (h *FormsHandler) Contact(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteContact) {
		return
	}

	form := leads.BindContact(r.PostForm)
	if err := h.leads.Contact(r.Context(), form); err != nil {
		slog.Error("failed to record contact message", "error", err)
		h.renderContact(w, r, formPage[leads.ContactForm]{
			Form:  form,
			State: leads.StateError,
			Error: msgGenericError,
		})
		return
	}

	logLead(r, leads.FormContact)
	markSubmitted(r, h.sm, leads.FormContact, "")
	http.Redirect(w, r, RouteContact, http.StatusSeeOther)
}

func (h *FormsHandler) renderContact(w http.ResponseWriter, r *http.Request, page formPage[leads.ContactForm]) {
	renderPage(w, r, h.renderer, http.StatusOK, "public/contact", render.TemplateData{
		Title: "Contact",
		Data:  page,
	})
}

// submittedKey is the session flag set after a successful submission.
func submittedKey(form, scope string) string {
	key := "lead_success:" + form
	if scope != "" {
		key += ":" + scope
	}
	return key
}

func markSubmitted(r *http.Request, sm *scs.SessionManager, form, scope string) {
	sm.Put(r.Context(), submittedKey(form, scope), true)
}

// popSubmitted reports and clears the success flag, so a reload after the
// success panel shows a blank form.
func popSubmitted(r *http.Request, sm *scs.SessionManager, form, scope string) bool {
	return sm.PopBool(r.Context(), submittedKey(form, scope))
}

// logLead logs an accepted submission with the visitor's client class.
// Personal data stays out of the log.
func logLead(r *http.Request, form string, args ...any) {
	ua := useragent.Parse(r.UserAgent())
	attrs := append([]any{
		"form", form,
		"device", deviceClass(ua),
		"browser", ua.Name,
		"os", ua.OS,
	}, args...)
	slog.Info("lead submitted", attrs...)
}

func deviceClass(ua useragent.UserAgent) string {
	switch {
	case ua.Bot:
		return "bot"
	case ua.Tablet:
		return "tablet"
	case ua.Mobile:
		return "mobile"
	case ua.Desktop:
		return "desktop"
	default:
		return "unknown"
	}
}
