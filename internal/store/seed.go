// Copyright (c) 2026 The MRE Site Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

// Seed creates the admin account from MRE_ADMIN_EMAIL / MRE_ADMIN_PASSWORD
// when it does not exist yet. Existing accounts are left untouched.
func Seed(ctx context.Context, db *sql.DB, email, password string) error {
	if email == "" || password == "" {
		slog.Warn("no admin credentials configured, admin panel sign-in disabled until an account exists")
		return nil
	}

	_, err := GetAdminByEmail(ctx, db, email)
	if err == nil {
		slog.Info("admin user already exists, skipping seed", "email", email)
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	if err := UpsertAdmin(ctx, db, email, password); err != nil {
		return err
	}
	slog.Info("created admin user", "email", email)
	return nil
}
