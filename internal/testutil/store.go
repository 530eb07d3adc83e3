// Copyright (c) 2026 The MRE Site Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package testutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/mouvement-re/mre-site/internal/record"
)

// ErrStoreDown is a convenient failure for fault injection.
var ErrStoreDown = errors.New("store unavailable")

// timeColumns are normalized to record.TimeLayout so string comparison
// matches time order.
var timeColumns = []string{"published_at", "date", "created_at", "updated_at"}

// Call is one recorded store operation.
type Call struct {
	Op    string
	Table string
	ID    string
	Row   map[string]any
	Query record.Query
}

// FakeStore is an in-memory record.Store that records every call.
type FakeStore struct {
	mu    sync.Mutex
	rows  map[string][]map[string]any
	calls []Call
	errs  map[string]error
	seq   int

	// Now stamps store-assigned timestamps. Defaults to time.Now.
	Now func() time.Time
}

// NewFakeStore returns an empty FakeStore.
func NewFakeStore() *FakeStore {
	return &FakeStore{
		rows: make(map[string][]map[string]any),
		errs: make(map[string]error),
		Now:  time.Now,
	}
}

// FailOn makes op ("select", "insert", "update", "delete", "ping") on table return err.
// An empty table fails op on every table.
func (s *FakeStore) FailOn(op, table string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[op+":"+table] = err
}

// Seed inserts rows without recording calls and returns the assigned ids.
func (s *FakeStore) Seed(table string, rows ...any) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		m, err := toMap(row)
		if err != nil {
			panic(fmt.Sprintf("seeding %s: %v", table, err))
		}
		ids = append(ids, s.insertLocked(table, m))
	}
	return ids
}

// Calls returns the recorded calls for op, or all calls when op is "".
func (s *FakeStore) Calls(op string) []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Call
	for _, c := range s.calls {
		if op == "" || c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Rows returns a copy of the stored rows of table.
func (s *FakeStore) Rows(table string) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]map[string]any, 0, len(s.rows[table]))
	for _, r := range s.rows[table] {
		out = append(out, copyRow(r))
	}
	return out
}

func (s *FakeStore) fail(op, table string) error {
	if err, ok := s.errs[op+":"+table]; ok {
		return err
	}
	return s.errs[op+":"]
}

// Select implements record.Store.
func (s *FakeStore) Select(_ context.Context, table string, q record.Query, dest any) error {
	if err := record.CheckDest(dest); err != nil {
		return err
	}
	s.mu.Lock()
	s.calls = append(s.calls, Call{Op: "select", Table: table, Query: q})
	if err := s.fail("select", table); err != nil {
		s.mu.Unlock()
		return err
	}

	var matched []map[string]any
	for _, row := range s.rows[table] {
		if matches(row, q.Filters) {
			matched = append(matched, copyRow(row))
		}
	}
	s.mu.Unlock()

	if q.Order != nil {
		col, asc := q.Order.Column, q.Order.Ascending
		slices.SortStableFunc(matched, func(a, b map[string]any) int {
			c := strings.Compare(fmt.Sprint(a[col]), fmt.Sprint(b[col]))
			if !asc {
				c = -c
			}
			return c
		})
	}
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	if matched == nil {
		matched = []map[string]any{}
	}

	data, err := json.Marshal(matched)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// Insert implements record.Store.
func (s *FakeStore) Insert(_ context.Context, table string, row any) error {
	m, err := toMap(row)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Op: "insert", Table: table, Row: copyRow(m)})
	if err := s.fail("insert", table); err != nil {
		return err
	}
	s.insertLocked(table, m)
	return nil
}

// Update implements record.Store.
func (s *FakeStore) Update(_ context.Context, table, id string, patch any) error {
	m, err := toMap(patch)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Op: "update", Table: table, ID: id, Row: copyRow(m)})
	if err := s.fail("update", table); err != nil {
		return err
	}
	for _, row := range s.rows[table] {
		if row["id"] == id {
			for k, v := range m {
				row[k] = v
			}
		}
	}
	return nil
}

// Delete implements record.Store.
func (s *FakeStore) Delete(_ context.Context, table, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Op: "delete", Table: table, ID: id})
	if err := s.fail("delete", table); err != nil {
		return err
	}
	s.rows[table] = slices.DeleteFunc(s.rows[table], func(row map[string]any) bool {
		return row["id"] == id
	})
	return nil
}

// Ping implements record.Pinger. FailOn("ping", "", err) makes it fail.
func (s *FakeStore) Ping(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fail("ping", "")
}

func (s *FakeStore) insertLocked(table string, m map[string]any) string {
	now := record.FormatTime(s.Now())
	if id, _ := m["id"].(string); id == "" {
		s.seq++
		m["id"] = fmt.Sprintf("%s-%d", table, s.seq)
	}
	for _, col := range []string{"created_at", "updated_at"} {
		if isZeroTime(m[col]) {
			m[col] = now
		}
	}
	if table == record.TableArticles && isZeroTime(m["published_at"]) {
		m["published_at"] = now
	}
	s.rows[table] = append(s.rows[table], m)
	return m["id"].(string)
}

func matches(row map[string]any, filters []record.Filter) bool {
	for _, f := range filters {
		v := fmt.Sprint(row[f.Column])
		switch f.Op {
		case record.OpEq:
			if v != f.Value {
				return false
			}
		case record.OpGte:
			if v < f.Value {
				return false
			}
		}
	}
	return true
}

func toMap(row any) (map[string]any, error) {
	data, err := json.Marshal(row)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	for _, col := range timeColumns {
		s, ok := m[col].(string)
		if !ok {
			continue
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			continue
		}
		if t.IsZero() {
			delete(m, col)
			continue
		}
		m[col] = record.FormatTime(t)
	}
	return m, nil
}

func isZeroTime(v any) bool {
	s, _ := v.(string)
	return s == ""
}

func copyRow(r map[string]any) map[string]any {
	out := make(map[string]any, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
