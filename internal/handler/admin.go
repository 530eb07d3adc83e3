// Copyright (c) 2026 The MRE Site Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/mouvement-re/mre-site/internal/content"
)

// Admin panel tabs.
const (
	tabArticles = "articles"
	tabEvents   = "events"
)

// Dashboard sends /admin to the first panel.
func Dashboard(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, redirectAdminArticles, http.StatusSeeOther)
}

type adminListPage[T any] struct {
	Tab   string
	State content.ViewState
	Items []T
}

func (p adminListPage[T]) Empty() bool { return p.State == content.StateEmpty }

// adminFormPage backs the shared create/edit template of a panel.
type adminFormPage[F any] struct {
	Tab    string
	Form   F
	IsEdit bool
	Action string
	Error  string
}

type deleteConfirmPage struct {
	Tab       string
	Question  string
	Title     string
	Action    string
	CancelURL string
}

// confirmed reports whether a delete submission carries the explicit
// confirmation. Anything else is treated as declining.
func confirmed(r *http.Request) bool {
	return r.PostFormValue("confirm") == "yes"
}
