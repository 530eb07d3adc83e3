// Copyright (c) 2026 The MRE Site Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content provides the typed article and event operations used by
// the public pages and the admin panel.
package content

import (
	"context"
	"fmt"
	"time"

	"github.com/mouvement-re/mre-site/internal/record"
)

// ViewState is the state a list or detail page renders.
type ViewState int

const (
	StateEmpty ViewState = iota
	StatePopulated
	StateNotFound
)

func (s ViewState) String() string {
	switch s {
	case StatePopulated:
		return "populated"
	case StateNotFound:
		return "not_found"
	default:
		return "empty"
	}
}

// ListState returns the state of a list page showing n rows.
func ListState(n int) ViewState {
	if n == 0 {
		return StateEmpty
	}
	return StatePopulated
}

// table is the shared CRUD surface of one content table.
type table[T any] struct {
	store     record.Store
	name      string
	orderBy   string
	ascending bool
	now       func() time.Time
}

func (t table[T]) list(ctx context.Context, q record.Query) ([]T, error) {
	var rows []T
	if err := t.store.Select(ctx, t.name, q.OrderBy(t.orderBy, t.ascending), &rows); err != nil {
		return nil, fmt.Errorf("listing %s: %w", t.name, err)
	}
	return rows, nil
}

func (t table[T]) getBy(ctx context.Context, column, value string) (T, bool, error) {
	row, found, err := record.GetOne[T](ctx, t.store, t.name, record.Query{}.Where(record.Eq(column, value)))
	if err != nil {
		return row, false, fmt.Errorf("getting %s by %s: %w", t.name, column, err)
	}
	return row, found, nil
}

func (t table[T]) insert(ctx context.Context, row any) error {
	if err := t.store.Insert(ctx, t.name, row); err != nil {
		return fmt.Errorf("inserting into %s: %w", t.name, err)
	}
	return nil
}

func (t table[T]) update(ctx context.Context, id string, patch any) error {
	if err := t.store.Update(ctx, t.name, id, patch); err != nil {
		return fmt.Errorf("updating %s %s: %w", t.name, id, err)
	}
	return nil
}

func (t table[T]) delete(ctx context.Context, id string) error {
	if err := t.store.Delete(ctx, t.name, id); err != nil {
		return fmt.Errorf("deleting %s %s: %w", t.name, id, err)
	}
	return nil
}
