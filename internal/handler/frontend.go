// Copyright (c) 2026 The MRE Site Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/mouvement-re/mre-site/internal/content"
	"github.com/mouvement-re/mre-site/internal/leads"
	"github.com/mouvement-re/mre-site/internal/model"
	"github.com/mouvement-re/mre-site/internal/render"
)

// FrontendHandler serves the public content pages and the event
// registration form.
type FrontendHandler struct {
	renderer *render.Renderer
	sm       *scs.SessionManager
	articles *content.Articles
	events   *content.Events
	leads    *leads.Service
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(renderer *render.Renderer, sm *scs.SessionManager, articles *content.Articles, events *content.Events, ls *leads.Service) *FrontendHandler {
	return &FrontendHandler{
		renderer: renderer,
		sm:       sm,
		articles: articles,
		events:   events,
		leads:    ls,
	}
}

type listPage[T any] struct {
	State content.ViewState
	Items []T
}

func (p listPage[T]) Empty() bool { return p.State == content.StateEmpty }

type articlePage struct {
	State   content.ViewState
	Article model.Article
}

func (p articlePage) NotFound() bool { return p.State == content.StateNotFound }

type eventPage struct {
	State     content.ViewState
	Slug      string
	Event     model.Event
	Form      leads.RegistrationForm
	FormState leads.FormState
	Error     string

	// LookupFailed is set when a registration could not resolve its event.
	// The page then shows only the form with the submitted values.
	LookupFailed bool
}

func (p eventPage) NotFound() bool { return p.State == content.StateNotFound }
func (p eventPage) Success() bool  { return p.FormState == leads.StateSuccess }
func (p eventPage) HasError() bool { return p.FormState == leads.StateError }

// Home renders the landing page.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusOK, "public/home", render.TemplateData{
		Title: "Accueil",
	})
}

// About renders the movement presentation page.
func (h *FrontendHandler) About(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusOK, "public/about", render.TemplateData{
		Title: "À Propos",
	})
}

// NotFound renders the site-wide 404 page.
func (h *FrontendHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusNotFound, "public/not_found", render.TemplateData{
		Title: "Page non trouvée",
	})
}

// News lists articles, newest first. A fetch error renders the empty state.
func (h *FrontendHandler) News(w http.ResponseWriter, r *http.Request) {
	articles, err := h.articles.List(r.Context())
	if err != nil {
		slog.Error("failed to list articles", "error", err)
		articles = nil
	}
	renderPage(w, r, h.renderer, http.StatusOK, "public/news", render.TemplateData{
		Title: "Actualités",
		Data:  listPage[model.Article]{State: content.ListState(len(articles)), Items: articles},
	})
}

// NewsDetail renders one article by slug.
func (h *FrontendHandler) NewsDetail(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	article, found, err := h.articles.GetBySlug(r.Context(), slug)

	status := http.StatusOK
	page := articlePage{State: content.StatePopulated, Article: article}
	switch {
	case err != nil:
		slog.Error("failed to get article", "slug", slug, "error", err)
		page.State, status = content.StateNotFound, http.StatusBadGateway
	case !found:
		page.State, status = content.StateNotFound, http.StatusNotFound
	}

	title := article.Title
	if page.NotFound() {
		title = msgArticleNotFound
	}
	renderPage(w, r, h.renderer, status, "public/news_detail", render.TemplateData{
		Title: title,
		Data:  page,
	})
}

// Events lists upcoming events, soonest first.
func (h *FrontendHandler) Events(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.ListUpcoming(r.Context(), 0)
	if err != nil {
		slog.Error("failed to list events", "error", err)
		events = nil
	}
	renderPage(w, r, h.renderer, http.StatusOK, "public/events", render.TemplateData{
		Title: "Événements",
		Data:  listPage[model.Event]{State: content.ListState(len(events)), Items: events},
	})
}

// EventDetail renders one event with its registration form.
func (h *FrontendHandler) EventDetail(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	page, status, _ := h.loadEvent(r, slug)
	if !page.NotFound() && popSubmitted(r, h.sm, leads.FormRegister, slug) {
		page.FormState = leads.StateSuccess
	}
	h.renderEvent(w, r, status, page)
}

// Register handles the event registration form. The event is resolved
// from the slug at submit time.
func (h *FrontendHandler) Register(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	detailURL := RouteEvents + "/" + slug

	if !parseFormOrRedirect(w, r, h.renderer, detailURL) {
		return
	}

	form := leads.BindRegistration(r.PostForm)
	page, status, err := h.loadEvent(r, slug)
	if err != nil {
		page = eventPage{
			State:        content.StatePopulated,
			Slug:         slug,
			Form:         form,
			FormState:    leads.StateError,
			Error:        msgGenericError,
			LookupFailed: true,
		}
		h.renderEvent(w, r, http.StatusOK, page)
		return
	}
	if page.NotFound() {
		h.renderEvent(w, r, status, page)
		return
	}

	if err := h.leads.Register(r.Context(), page.Event.ID, form); err != nil {
		slog.Error("failed to register for event", "slug", slug, "error", err)
		page.Form = form
		page.FormState = leads.StateError
		page.Error = msgGenericError
		h.renderEvent(w, r, http.StatusOK, page)
		return
	}

	logLead(r, leads.FormRegister, "event_id", page.Event.ID)
	markSubmitted(r, h.sm, leads.FormRegister, slug)
	http.Redirect(w, r, detailURL, http.StatusSeeOther)
}

// loadEvent resolves slug. A store error is returned alongside the
// not-found page so callers can tell it from a missing event.
func (h *FrontendHandler) loadEvent(r *http.Request, slug string) (eventPage, int, error) {
	ev, found, err := h.events.GetBySlug(r.Context(), slug)
	switch {
	case err != nil:
		slog.Error("failed to get event", "slug", slug, "error", err)
		return eventPage{State: content.StateNotFound, Slug: slug}, http.StatusBadGateway, err
	case !found:
		return eventPage{State: content.StateNotFound, Slug: slug}, http.StatusNotFound, nil
	}
	return eventPage{State: content.StatePopulated, Slug: slug, Event: ev}, http.StatusOK, nil
}

func (h *FrontendHandler) renderEvent(w http.ResponseWriter, r *http.Request, status int, page eventPage) {
	title := page.Event.Title
	switch {
	case page.NotFound():
		title = msgEventNotFound
	case page.LookupFailed:
		title = "Inscription"
	}
	renderPage(w, r, h.renderer, status, "public/event_detail", render.TemplateData{
		Title: title,
		Data:  page,
	})
}
