// Copyright (c) 2026 The MRE Site Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
)

// CookieName is the name of the session cookie.
const CookieName = "mre_session"

// New creates a session manager over the given store.
func New(store scs.Store, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = store

	sm.Lifetime = 24 * time.Hour
	sm.IdleTimeout = 12 * time.Hour
	sm.Cookie.Name = CookieName
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev // Secure cookies in production only

	return sm
}

// NewSQLiteStore keeps sessions in the sessions table of the local database.
func NewSQLiteStore(db *sql.DB) scs.Store {
	return sqlite3store.New(db)
}

// NewMemoryStore keeps sessions in process memory. Used with the hosted
// backend, where the server has no database of its own.
func NewMemoryStore() scs.Store {
	return memstore.New()
}
