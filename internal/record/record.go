// Copyright (c) 2026 The MRE Site Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package record defines the table-oriented store contract shared by the
// hosted and local backends. Each call is a single round trip with no
// retries, batching or caching.
package record

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"
)

// Table names.
const (
	TableArticles              = "articles"
	TableEvents                = "events"
	TableMovementRegistrations = "movement_registrations"
	TableEventRegistrations    = "event_registrations"
	TableContactMessages       = "contact_messages"
)

// TimeLayout is the fixed-width UTC layout used for timestamp filter values.
// Values in this layout sort lexicographically in time order.
const TimeLayout = "2006-01-02T15:04:05.000000Z07:00"

// ErrMultipleRows is returned by GetOne when the filter matches more than one row.
var ErrMultipleRows = errors.New("query matched more than one row")

// Store is implemented by every record store backend.
//
// Rows travel as JSON objects keyed by column name. Select decodes the
// matching rows into dest, which must be a pointer to a slice.
type Store interface {
	Select(ctx context.Context, table string, q Query, dest any) error
	Insert(ctx context.Context, table string, row any) error
	Update(ctx context.Context, table, id string, patch any) error
	Delete(ctx context.Context, table, id string) error
}

// Pinger is implemented by stores that can report their reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Op is a filter comparison.
type Op string

// Supported comparisons.
const (
	OpEq  Op = "eq"
	OpGte Op = "gte"
)

// Filter restricts a column to a value.
type Filter struct {
	Column string
	Op     Op
	Value  string
}

// Eq matches rows whose column equals value.
func Eq(column, value string) Filter {
	return Filter{Column: column, Op: OpEq, Value: value}
}

// Gte matches rows whose column is greater than or equal to value.
func Gte(column, value string) Filter {
	return Filter{Column: column, Op: OpGte, Value: value}
}

// GteTime matches rows whose timestamp column is at or after t.
func GteTime(column string, t time.Time) Filter {
	return Gte(column, FormatTime(t))
}

// Order sorts the result by a single column.
type Order struct {
	Column    string
	Ascending bool
}

// Query describes a select. The zero value selects every row in store order.
type Query struct {
	Filters []Filter
	Order   *Order
	Limit   int
}

// Where returns a copy of q with the filters appended.
func (q Query) Where(filters ...Filter) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), filters...)
	return q
}

// OrderBy returns a copy of q sorted by column.
func (q Query) OrderBy(column string, ascending bool) Query {
	q.Order = &Order{Column: column, Ascending: ascending}
	return q
}

// FormatTime renders t in TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// GetOne selects at most one row matching q into a T.
// found is false when nothing matched; more than one match is an error.
func GetOne[T any](ctx context.Context, s Store, table string, q Query) (row T, found bool, err error) {
	q.Limit = 2
	var rows []T
	if err := s.Select(ctx, table, q, &rows); err != nil {
		return row, false, err
	}
	switch len(rows) {
	case 0:
		return row, false, nil
	case 1:
		return rows[0], true, nil
	default:
		return row, false, fmt.Errorf("%s: %w", table, ErrMultipleRows)
	}
}

// CheckDest reports whether dest is a non-nil pointer to a slice.
func CheckDest(dest any) error {
	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("select destination must be a pointer to a slice, got %T", dest)
	}
	return nil
}

type accessTokenKey struct{}

// WithAccessToken attaches the caller's access token to ctx.
// Backends that enforce row-level access use it in place of the public key.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey{}, token)
}

// AccessToken returns the token attached by WithAccessToken, or "".
func AccessToken(ctx context.Context) string {
	token, _ := ctx.Value(accessTokenKey{}).(string)
	return token
}
