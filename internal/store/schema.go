// Copyright (c) 2026 The MRE Site Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"fmt"

	"github.com/mouvement-re/mre-site/internal/record"
)

type columnKind int

const (
	kindText columnKind = iota
	kindTime
	kindInt
)

// tableSchema lists the columns a table exposes through record.Store, in
// select order, and which timestamps the store assigns on insert.
type tableSchema struct {
	columns  []string
	known    map[string]bool
	kinds    map[string]columnKind
	assigned []string
}

func newSchema(columns []string, kinds map[string]columnKind, assigned ...string) tableSchema {
	if kinds == nil {
		kinds = map[string]columnKind{}
	}
	for _, c := range assigned {
		kinds[c] = kindTime
	}
	known := make(map[string]bool, len(columns))
	for _, c := range columns {
		known[c] = true
	}
	return tableSchema{columns: columns, known: known, kinds: kinds, assigned: assigned}
}

func (s tableSchema) has(column string) bool {
	return s.known[column]
}

func (s tableSchema) kind(column string) columnKind {
	return s.kinds[column]
}

var schemas = map[string]tableSchema{
	record.TableArticles: newSchema(
		[]string{"id", "title", "slug", "summary", "content", "image_url", "author", "published_at", "created_at", "updated_at"},
		nil,
		"published_at", "created_at", "updated_at",
	),
	record.TableEvents: newSchema(
		[]string{"id", "title", "slug", "description", "location", "date", "image_url", "capacity", "created_at", "updated_at"},
		map[string]columnKind{"date": kindTime, "capacity": kindInt},
		"created_at", "updated_at",
	),
	record.TableMovementRegistrations: newSchema(
		[]string{"id", "full_name", "email", "phone", "province", "message", "created_at"},
		nil,
		"created_at",
	),
	record.TableEventRegistrations: newSchema(
		[]string{"id", "event_id", "full_name", "email", "phone", "created_at"},
		nil,
		"created_at",
	),
	record.TableContactMessages: newSchema(
		[]string{"id", "full_name", "email", "subject", "message", "created_at"},
		nil,
		"created_at",
	),
}

func schemaFor(table string) (tableSchema, error) {
	s, ok := schemas[table]
	if !ok {
		return tableSchema{}, fmt.Errorf("unknown table %q", table)
	}
	return s, nil
}
