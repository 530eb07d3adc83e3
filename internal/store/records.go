// Copyright (c) 2026 The MRE Site Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mouvement-re/mre-site/internal/record"
)

// Records is a record.Store over the local SQLite database.
type Records struct {
	db  *sql.DB
	now func() time.Time
}

// NewRecords creates a Records store.
func NewRecords(db *sql.DB) *Records {
	return &Records{db: db, now: time.Now}
}

// Ping implements record.Pinger.
func (s *Records) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Select implements record.Store.
func (s *Records) Select(ctx context.Context, table string, q record.Query, dest any) error {
	if err := record.CheckDest(dest); err != nil {
		return err
	}
	schema, err := schemaFor(table)
	if err != nil {
		return err
	}

	var (
		where []string
		args  []any
	)
	for _, f := range q.Filters {
		if !schema.has(f.Column) {
			return fmt.Errorf("select %s: unknown column %q", table, f.Column)
		}
		var op string
		switch f.Op {
		case record.OpEq:
			op = "="
		case record.OpGte:
			op = ">="
		default:
			return fmt.Errorf("select %s: unsupported filter %q", table, f.Op)
		}
		where = append(where, f.Column+" "+op+" ?")
		args = append(args, filterValue(schema.kind(f.Column), f.Value))
	}

	query := "SELECT " + strings.Join(schema.columns, ", ") + " FROM " + table
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	if q.Order != nil {
		if !schema.has(q.Order.Column) {
			return fmt.Errorf("select %s: unknown order column %q", table, q.Order.Column)
		}
		dir := "DESC"
		if q.Order.Ascending {
			dir = "ASC"
		}
		query += " ORDER BY " + q.Order.Column + " " + dir
	}
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("select %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	out := []map[string]any{}
	for rows.Next() {
		values := make([]any, len(schema.columns))
		ptrs := make([]any, len(schema.columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return fmt.Errorf("select %s: scanning row: %w", table, err)
		}
		row := make(map[string]any, len(schema.columns))
		for i, col := range schema.columns {
			if b, ok := values[i].([]byte); ok {
				values[i] = string(b)
			}
			row[col] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("select %s: %w", table, err)
	}

	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("select %s: encoding rows: %w", table, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("select %s: decoding rows: %w", table, err)
	}
	return nil
}

// Insert implements record.Store.
// Missing id and store-assigned timestamps are filled in.
func (s *Records) Insert(ctx context.Context, table string, row any) error {
	schema, err := schemaFor(table)
	if err != nil {
		return err
	}
	values, err := columnValues(schema, row)
	if err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}

	if id, _ := values["id"].(string); id == "" {
		values["id"] = uuid.NewString()
	}
	now := record.FormatTime(s.now())
	for _, col := range schema.assigned {
		if _, ok := values[col]; !ok {
			values[col] = now
		}
	}

	cols := sortedKeys(values)
	args := make([]any, len(cols))
	for i, c := range cols {
		args[i] = values[c]
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), placeholders(len(cols)))

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

// Update implements record.Store.
func (s *Records) Update(ctx context.Context, table, id string, patch any) error {
	schema, err := schemaFor(table)
	if err != nil {
		return err
	}
	values, err := columnValues(schema, patch)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	delete(values, "id")
	if len(values) == 0 {
		return nil
	}

	cols := sortedKeys(values)
	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+1)
	for i, c := range cols {
		sets[i] = c + " = ?"
		args = append(args, values[c])
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, strings.Join(sets, ", "))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update %s %s: %w", table, id, err)
	}
	return nil
}

// Delete implements record.Store.
func (s *Records) Delete(ctx context.Context, table, id string) error {
	if _, err := schemaFor(table); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete %s %s: %w", table, id, err)
	}
	return nil
}

// columnValues converts a row struct into column values through its JSON
// form. Unknown columns are rejected; zero timestamps are left out.
func columnValues(schema tableSchema, row any) (map[string]any, error) {
	data, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("encoding row: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("row must encode as an object: %w", err)
	}

	values := make(map[string]any, len(raw))
	for col, v := range raw {
		if !schema.has(col) {
			return nil, fmt.Errorf("unknown column %q", col)
		}
		switch schema.kind(col) {
		case kindTime:
			str, ok := v.(string)
			if !ok || str == "" {
				continue
			}
			t, err := time.Parse(time.RFC3339Nano, str)
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", col, err)
			}
			if t.IsZero() {
				continue
			}
			values[col] = record.FormatTime(t)
		case kindInt:
			if n, ok := v.(float64); ok {
				values[col] = int64(n)
			} else {
				values[col] = nil
			}
		default:
			if v == nil {
				values[col] = nil
			} else {
				values[col] = fmt.Sprint(v)
			}
		}
	}
	return values, nil
}

// filterValue normalizes timestamp filter values so that string comparison
// in SQLite follows time order.
func filterValue(kind columnKind, v string) string {
	if kind != kindTime {
		return v
	}
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return record.FormatTime(t)
	}
	return v
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
