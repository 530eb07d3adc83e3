// Copyright (c) 2026 The MRE Site Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mouvement-re/mre-site/internal/auth"
)

// Auth authenticates admins against the GoTrue API of the project.
type Auth struct {
	client *Client
	now    func() time.Time
}

// NewAuth creates an Auth sharing the connection settings of c.
func NewAuth(c *Client) *Auth {
	return &Auth{client: c, now: time.Now}
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// SignInWithPassword exchanges email and password for a session grant.
func (a *Auth) SignInWithPassword(ctx context.Context, email, password string) (*auth.Grant, error) {
	return a.token(ctx, "password", map[string]string{"email": email, "password": password})
}

// Refresh exchanges a refresh token for a new grant.
func (a *Auth) Refresh(ctx context.Context, refreshToken string) (*auth.Grant, error) {
	return a.token(ctx, "refresh_token", map[string]string{"refresh_token": refreshToken})
}

// SignOut revokes the session behind accessToken.
func (a *Auth) SignOut(ctx context.Context, accessToken string) error {
	req, err := a.request(ctx, http.MethodPost, "/auth/v1/logout", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if _, err := a.client.send(req); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

func (a *Auth) token(ctx context.Context, grantType string, payload map[string]string) (*auth.Grant, error) {
	path := "/auth/v1/token?" + url.Values{"grant_type": {grantType}}.Encode()
	req, err := a.request(ctx, http.MethodPost, path, payload)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+a.client.anonKey)

	body, err := a.client.send(req)
	if err != nil {
		return nil, fmt.Errorf("token (%s): %w", grantType, err)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("token (%s): decoding response: %w", grantType, err)
	}
	if tr.AccessToken == "" {
		return nil, fmt.Errorf("token (%s): response has no access token", grantType)
	}

	return &auth.Grant{
		UserID:       tr.User.ID,
		Email:        tr.User.Email,
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		ExpiresAt:    a.expiry(tr),
	}, nil
}

// expiry prefers expires_at, then expires_in, then the exp claim of the token.
func (a *Auth) expiry(tr tokenResponse) time.Time {
	switch {
	case tr.ExpiresAt > 0:
		return time.Unix(tr.ExpiresAt, 0)
	case tr.ExpiresIn > 0:
		return a.now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}
	if exp, err := auth.TokenExpiry(tr.AccessToken); err == nil {
		return exp
	}
	return time.Time{}
}

func (a *Auth) request(ctx context.Context, method, path string, payload any) (*http.Request, error) {
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding payload: %w", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.client.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("apikey", a.client.anonKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}
