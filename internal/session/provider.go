// Copyright (c) 2026 The MRE Site Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session owns the signed-in admin state: sign-in and sign-out
// through an Authenticator, persistence in an scs session, and per-request
// rehydration with token refresh.
package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/mouvement-re/mre-site/internal/auth"
	"github.com/mouvement-re/mre-site/internal/record"
)

// Session keys.
const (
	keyUserID       = "auth.user_id"
	keyEmail        = "auth.email"
	keyAccessToken  = "auth.access_token"
	keyRefreshToken = "auth.refresh_token"
	keyExpiresAt    = "auth.expires_at" // unix seconds, 0 when unknown
)

// ErrInvalidCredentials is the only sign-in failure callers see.
// The underlying cause is logged.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Authenticator verifies credentials against an identity backend.
type Authenticator interface {
	SignInWithPassword(ctx context.Context, email, password string) (*auth.Grant, error)
	Refresh(ctx context.Context, refreshToken string) (*auth.Grant, error)
	SignOut(ctx context.Context, accessToken string) error
}

// User is the signed-in admin.
type User struct {
	ID    string
	Email string
}

type userKey struct{}

// CurrentUser returns the user rehydrated by Provider.Load, if any.
func CurrentUser(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(userKey{}).(*User)
	return u, ok && u != nil
}

// WithUser attaches u to ctx the way Provider.Load does.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// Provider is the session provider shared by the auth handlers and the
// admin gate. Construct one in main and pass it explicitly.
type Provider struct {
	sm   *scs.SessionManager
	auth Authenticator
	now  func() time.Time
}

// NewProvider creates a Provider.
func NewProvider(sm *scs.SessionManager, a Authenticator) *Provider {
	return &Provider{sm: sm, auth: a, now: time.Now}
}

// Manager returns the underlying session manager.
func (p *Provider) Manager() *scs.SessionManager {
	return p.sm
}

// SignIn authenticates email/password and binds the result to the session.
// A concurrent sign-in on the same session overwrites this one.
func (p *Provider) SignIn(ctx context.Context, email, password string) (*User, error) {
	grant, err := p.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		slog.Warn("sign-in failed", "email", email, "error", err)
		return nil, ErrInvalidCredentials
	}

	// New token on privilege change to prevent session fixation.
	if err := p.sm.RenewToken(ctx); err != nil {
		return nil, err
	}
	p.put(ctx, grant)

	slog.Info("admin signed in", "email", grant.Email, "user_id", grant.UserID)
	return &User{ID: grant.UserID, Email: grant.Email}, nil
}

// SignOut revokes the remote session best-effort and destroys the local one.
func (p *Provider) SignOut(ctx context.Context) error {
	if token := p.sm.GetString(ctx, keyAccessToken); token != "" {
		if err := p.auth.SignOut(ctx, token); err != nil {
			slog.Warn("remote sign-out failed", "error", err)
		}
	}
	return p.sm.Destroy(ctx)
}

// IsSignedIn reports whether the session carries a user, without refreshing.
func (p *Provider) IsSignedIn(ctx context.Context) bool {
	return p.sm.GetString(ctx, keyUserID) != ""
}

// Load rehydrates the signed-in user on every request. An expired access
// token is refreshed; when refresh fails the session is cleared and the
// request continues anonymously. Must run inside sm.LoadAndSave.
func (p *Provider) Load(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := p.sm.GetString(ctx, keyUserID)
		if userID == "" {
			next.ServeHTTP(w, r)
			return
		}

		grant := p.get(ctx)
		if grant.Expired(p.now()) {
			refreshed, err := p.refresh(ctx, grant)
			if err != nil {
				slog.Info("session expired", "user_id", userID, "error", err)
				p.clear(ctx)
				next.ServeHTTP(w, r)
				return
			}
			grant = refreshed
		}

		ctx = WithUser(ctx, &User{ID: grant.UserID, Email: grant.Email})
		ctx = record.WithAccessToken(ctx, grant.AccessToken)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (p *Provider) refresh(ctx context.Context, old *auth.Grant) (*auth.Grant, error) {
	if old.RefreshToken == "" {
		return nil, errors.New("no refresh token")
	}
	grant, err := p.auth.Refresh(ctx, old.RefreshToken)
	if err != nil {
		return nil, err
	}
	if grant.UserID == "" {
		grant.UserID = old.UserID
	}
	if grant.Email == "" {
		grant.Email = old.Email
	}
	if grant.RefreshToken == "" {
		grant.RefreshToken = old.RefreshToken
	}
	p.put(ctx, grant)
	return grant, nil
}

func (p *Provider) put(ctx context.Context, g *auth.Grant) {
	expiresAt := g.ExpiresAt
	if expiresAt.IsZero() {
		if exp, err := auth.TokenExpiry(g.AccessToken); err == nil {
			expiresAt = exp
		}
	}
	p.sm.Put(ctx, keyUserID, g.UserID)
	p.sm.Put(ctx, keyEmail, g.Email)
	p.sm.Put(ctx, keyAccessToken, g.AccessToken)
	p.sm.Put(ctx, keyRefreshToken, g.RefreshToken)
	var expiresUnix int64
	if !expiresAt.IsZero() {
		expiresUnix = expiresAt.Unix()
	}
	p.sm.Put(ctx, keyExpiresAt, expiresUnix)
}

func (p *Provider) get(ctx context.Context) *auth.Grant {
	g := &auth.Grant{
		UserID:       p.sm.GetString(ctx, keyUserID),
		Email:        p.sm.GetString(ctx, keyEmail),
		AccessToken:  p.sm.GetString(ctx, keyAccessToken),
		RefreshToken: p.sm.GetString(ctx, keyRefreshToken),
	}
	if exp := p.sm.GetInt64(ctx, keyExpiresAt); exp > 0 {
		g.ExpiresAt = time.Unix(exp, 0)
	}
	return g
}

func (p *Provider) clear(ctx context.Context) {
	for _, k := range []string{keyUserID, keyEmail, keyAccessToken, keyRefreshToken, keyExpiresAt} {
		p.sm.Remove(ctx, k)
	}
}
