// Copyright (c) 2026 The MRE Site Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"time"

	"github.com/mouvement-re/mre-site/internal/model"
	"github.com/mouvement-re/mre-site/internal/record"
	"github.com/mouvement-re/mre-site/internal/util"
)

// Events reads and writes the events table.
type Events struct {
	t table[model.Event]
}

// NewEvents creates an Events over s.
func NewEvents(s record.Store) *Events {
	return &Events{t: table[model.Event]{
		store:     s,
		name:      record.TableEvents,
		orderBy:   "date",
		ascending: true,
		now:       time.Now,
	}}
}

// List returns every event, soonest first. Used by the admin panel.
func (e *Events) List(ctx context.Context) ([]model.Event, error) {
	return e.t.list(ctx, record.Query{})
}

// ListUpcoming returns events dated now or later, soonest first.
// The date filter is applied by the store.
func (e *Events) ListUpcoming(ctx context.Context, limit int) ([]model.Event, error) {
	return e.t.list(ctx, record.Query{Limit: limit}.Where(record.GteTime("date", e.t.now())))
}

// GetBySlug returns the event with the given slug.
func (e *Events) GetBySlug(ctx context.Context, slug string) (model.Event, bool, error) {
	return e.t.getBy(ctx, "slug", slug)
}

// GetByID returns the event with the given id.
func (e *Events) GetByID(ctx context.Context, id string) (model.Event, bool, error) {
	return e.t.getBy(ctx, "id", id)
}

// Create inserts a new event. An empty slug is derived from the title.
func (e *Events) Create(ctx context.Context, f model.EventFields) error {
	if f.Slug == "" {
		f.Slug = util.Slugify(f.Title)
	}
	return e.t.insert(ctx, f)
}

// Update overwrites the editable columns and refreshes updated_at.
func (e *Events) Update(ctx context.Context, id string, f model.EventFields) error {
	return e.t.update(ctx, id, model.EventPatch{EventFields: f, UpdatedAt: e.t.now().UTC()})
}

// Delete removes the event. Its registrations go with it.
func (e *Events) Delete(ctx context.Context, id string) error {
	return e.t.delete(ctx, id)
}
