// Copyright (c) 2026 The MRE Site Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import "github.com/mouvement-re/mre-site/internal/leads"

// Route pattern constants for chi router registration.
const (
	RouteRoot    = "/"
	RouteNews    = "/news"
	RouteEvents  = "/events"
	RouteAbout   = "/about"
	RouteContact = "/contact"
	RouteJoin    = "/join"
	RouteLogin   = "/login"
	RouteLogout  = "/logout"
	RouteAdmin   = "/admin"

	// RouteSuffixNew is the suffix for "new" routes.
	RouteSuffixNew = "/new"
	// RouteSuffixDelete is the suffix for delete confirmation routes.
	RouteSuffixDelete = "/delete"
	// RouteSuffixRegister is the suffix for the event registration route.
	RouteSuffixRegister = "/register"

	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"
	// RouteParamSlug is the slug parameter pattern.
	RouteParamSlug = "/{slug}"

	RouteNewsSlug           = RouteNews + RouteParamSlug
	RouteEventsSlug         = RouteEvents + RouteParamSlug
	RouteEventsSlugRegister = RouteEventsSlug + RouteSuffixRegister

	// Admin routes, relative to RouteAdmin.
	RouteArticles      = "/articles"
	RouteArticlesID    = RouteArticles + RouteParamID
	RouteAdminEvents   = "/events"
	RouteAdminEventsID = RouteAdminEvents + RouteParamID
)

const (
	redirectAdmin         = RouteAdmin
	redirectAdminArticles = RouteAdmin + RouteArticles
	redirectAdminEvents   = RouteAdmin + RouteAdminEvents
	redirectLogin         = RouteLogin
)

// Messages shown to visitors and admins.
const (
	msgGenericError      = leads.ErrorMessage
	msgInvalidLogin      = "Identifiants incorrects. Veuillez réessayer."
	msgArticleCreated    = "Article publié."
	msgArticleUpdated    = "Article mis à jour."
	msgArticleDeleted    = "Article supprimé."
	msgArticleNotFound   = "Article non trouvé"
	msgEventCreated      = "Événement créé."
	msgEventUpdated      = "Événement mis à jour."
	msgEventDeleted      = "Événement supprimé."
	msgEventNotFound     = "Événement non trouvé"
	msgSignedOut         = "Vous êtes déconnecté."
	msgInvalidEventInput = "La date de l'événement est invalide."
)

// HeaderContentType is the Content-Type HTTP header name.
const HeaderContentType = "Content-Type"
