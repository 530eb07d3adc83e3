// Copyright (c) 2026 The MRE Site Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mouvement-re/mre-site/internal/auth"
	"github.com/mouvement-re/mre-site/internal/record"
)

// ErrInvalidLogin is returned for an unknown email or a wrong password.
var ErrInvalidLogin = errors.New("invalid email or password")

// AdminUser is a row of admin_users.
type AdminUser struct {
	ID           string
	Email        string
	PasswordHash string
}

// GetAdminByEmail looks up an admin case-insensitively.
func GetAdminByEmail(ctx context.Context, db *sql.DB, email string) (AdminUser, error) {
	var u AdminUser
	err := db.QueryRowContext(ctx,
		"SELECT id, email, password_hash FROM admin_users WHERE email = ?",
		strings.TrimSpace(email),
	).Scan(&u.ID, &u.Email, &u.PasswordHash)
	return u, err
}

func getAdminByID(ctx context.Context, db *sql.DB, id string) (AdminUser, error) {
	var u AdminUser
	err := db.QueryRowContext(ctx,
		"SELECT id, email, password_hash FROM admin_users WHERE id = ?", id,
	).Scan(&u.ID, &u.Email, &u.PasswordHash)
	return u, err
}

// UpsertAdmin creates the admin account or resets its password.
func UpsertAdmin(ctx context.Context, db *sql.DB, email, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	now := record.FormatTime(time.Now())

	_, err = db.ExecContext(ctx, `
		INSERT INTO admin_users (id, email, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET password_hash = excluded.password_hash, updated_at = excluded.updated_at`,
		uuid.NewString(), strings.TrimSpace(email), hash, now, now,
	)
	if err != nil {
		return fmt.Errorf("saving admin user: %w", err)
	}
	return nil
}

// Authenticator signs admins in against admin_users and issues HS256 tokens.
type Authenticator struct {
	db     *sql.DB
	tokens *auth.TokenIssuer
}

// NewAuthenticator creates an Authenticator signing tokens with secret.
func NewAuthenticator(db *sql.DB, secret []byte) *Authenticator {
	return &Authenticator{db: db, tokens: auth.NewTokenIssuer(secret)}
}

// SignInWithPassword verifies the credentials and issues a grant.
func (a *Authenticator) SignInWithPassword(ctx context.Context, email, password string) (*auth.Grant, error) {
	u, err := GetAdminByEmail(ctx, a.db, email)
	if errors.Is(err, sql.ErrNoRows) {
		slog.Debug("login attempt for unknown admin", "email", email)
		return nil, ErrInvalidLogin
	}
	if err != nil {
		return nil, fmt.Errorf("looking up admin: %w", err)
	}

	ok, err := auth.CheckPassword(password, u.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("checking password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidLogin
	}
	return a.tokens.Issue(u.ID, u.Email)
}

// Refresh issues a new grant for a valid refresh token of an existing admin.
func (a *Authenticator) Refresh(ctx context.Context, refreshToken string) (*auth.Grant, error) {
	claims, err := a.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, err
	}
	u, err := getAdminByID(ctx, a.db, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("looking up admin %s: %w", claims.Subject, err)
	}
	return a.tokens.Issue(u.ID, u.Email)
}

// SignOut is a no-op: local tokens are stateless and the session is destroyed by the caller.
func (a *Authenticator) SignOut(context.Context, string) error {
	return nil
}
