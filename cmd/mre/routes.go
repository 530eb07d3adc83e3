// Copyright (c) 2026 The MRE Site Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mouvement-re/mre-site/internal/handler"
	"github.com/mouvement-re/mre-site/internal/middleware"
)

// crudHandlers defines the admin panel handler methods.
type crudHandlers struct {
	List          http.HandlerFunc
	NewForm       http.HandlerFunc
	Create        http.HandlerFunc
	EditForm      http.HandlerFunc
	Update        http.HandlerFunc
	DeleteConfirm http.HandlerFunc
	Delete        http.HandlerFunc
}

// registerCRUD registers the admin routes for a resource.
// Routes: GET /, GET /new, POST /, GET /{id}, PUT /{id}, POST /{id},
// GET /{id}/delete, POST /{id}/delete
func registerCRUD(r chi.Router, base, baseID string, h crudHandlers) {
	r.Get(base, h.List)
	r.Get(base+handler.RouteSuffixNew, h.NewForm)
	r.Post(base, h.Create)
	r.Get(baseID, h.EditForm)
	r.Put(baseID, h.Update)
	r.Post(baseID, h.Update) // HTML forms can't send PUT
	r.Get(baseID+handler.RouteSuffixDelete, h.DeleteConfirm)
	r.Post(baseID+handler.RouteSuffixDelete, h.Delete)
}

// registerFrontendRoutes registers the public pages and lead forms.
func registerFrontendRoutes(r chi.Router, h *handler.FrontendHandler, forms *handler.FormsHandler) {
	r.Get(handler.RouteRoot, h.Home)
	r.Get(handler.RouteAbout, h.About)
	r.Get(handler.RouteNews, h.News)
	r.Get(handler.RouteNewsSlug, h.NewsDetail)
	r.Get(handler.RouteEvents, h.Events)
	r.Get(handler.RouteEventsSlug, h.EventDetail)
	r.Post(handler.RouteEventsSlugRegister, h.Register)

	r.Get(handler.RouteJoin, forms.JoinForm)
	r.Post(handler.RouteJoin, forms.Join)
	r.Get(handler.RouteContact, forms.ContactForm)
	r.Post(handler.RouteContact, forms.Contact)
}

// registerAuthRoutes registers login and logout.
func registerAuthRoutes(r chi.Router, h *handler.AuthHandler) {
	r.With(middleware.RedirectIfSignedIn(handler.RouteAdmin)).Get(handler.RouteLogin, h.LoginForm)
	r.Post(handler.RouteLogin, h.Login)
	r.Post(handler.RouteLogout, h.Logout)
}

// registerAdminRoutes registers the session-gated admin panels under /admin.
func registerAdminRoutes(r chi.Router, articles *handler.ArticlesHandler, events *handler.EventsHandler) {
	r.Route(handler.RouteAdmin, func(r chi.Router) {
		r.Use(middleware.Auth)
		r.Use(middleware.NoStore)

		r.Get("/", handler.Dashboard)
		registerCRUD(r, handler.RouteArticles, handler.RouteArticlesID, crudHandlers{
			List: articles.List, NewForm: articles.NewForm, Create: articles.Create,
			EditForm: articles.EditForm, Update: articles.Update,
			DeleteConfirm: articles.DeleteConfirm, Delete: articles.Delete,
		})
		registerCRUD(r, handler.RouteAdminEvents, handler.RouteAdminEventsID, crudHandlers{
			List: events.List, NewForm: events.NewForm, Create: events.Create,
			EditForm: events.EditForm, Update: events.Update,
			DeleteConfirm: events.DeleteConfirm, Delete: events.Delete,
		})
	})
}
