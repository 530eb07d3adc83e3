// Copyright (c) 2026 The MRE Site Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mouvement-re/mre-site/internal/model"
	"github.com/mouvement-re/mre-site/internal/record"
)

const testAnonKey = "anon-key"

type capturedRequest struct {
	Method string
	Path   string
	Query  map[string][]string
	Header http.Header
	Body   []byte
}

// newTestServer answers every request with status and body and records it.
func newTestServer(t *testing.T, status int, body string) (*Client, *[]capturedRequest) {
	t.Helper()
	var captured []capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		captured = append(captured, capturedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   data,
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	return New(Config{URL: srv.URL + "/", AnonKey: testAnonKey, Timeout: 5 * time.Second}), &captured
}

func TestClient_Select(t *testing.T) {
	c, reqs := newTestServer(t, http.StatusOK, `[
		{"id":"a1","title":"Lancement","slug":"lancement","published_at":"2025-01-15T10:00:00+00:00",
		 "created_at":"2025-01-15T10:00:00.123456+00:00","updated_at":"2025-01-15T10:00:00+00:00"}
	]`)

	var rows []model.Article
	q := record.Query{}.Where(record.Eq("slug", "lancement")).OrderBy("published_at", false)
	q.Limit = 2
	err := c.Select(context.Background(), record.TableArticles, q, &rows)
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, "Lancement", rows[0].Title)
	assert.Equal(t, 2025, rows[0].PublishedAt.Year())

	require.Len(t, *reqs, 1)
	got := (*reqs)[0]
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/rest/v1/articles", got.Path)
	assert.Equal(t, []string{"*"}, got.Query["select"])
	assert.Equal(t, []string{"eq.lancement"}, got.Query["slug"])
	assert.Equal(t, []string{"published_at.desc"}, got.Query["order"])
	assert.Equal(t, []string{"2"}, got.Query["limit"])
	assert.Equal(t, testAnonKey, got.Header.Get("apikey"))
	assert.Equal(t, "Bearer "+testAnonKey, got.Header.Get("Authorization"))
}

func TestClient_SelectUpcomingFilter(t *testing.T) {
	c, reqs := newTestServer(t, http.StatusOK, `[]`)

	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	var rows []model.Event
	q := record.Query{}.Where(record.GteTime("date", now)).OrderBy("date", true)
	require.NoError(t, c.Select(context.Background(), record.TableEvents, q, &rows))

	assert.Empty(t, rows)
	got := (*reqs)[0]
	assert.Equal(t, []string{"gte.2025-03-01T08:00:00.000000Z"}, got.Query["date"])
	assert.Equal(t, []string{"date.asc"}, got.Query["order"])
}

func TestClient_UsesAccessToken(t *testing.T) {
	c, reqs := newTestServer(t, http.StatusNoContent, ``)

	ctx := record.WithAccessToken(context.Background(), "user-jwt")
	require.NoError(t, c.Delete(ctx, record.TableEvents, "e1"))

	got := (*reqs)[0]
	assert.Equal(t, "Bearer user-jwt", got.Header.Get("Authorization"))
	assert.Equal(t, testAnonKey, got.Header.Get("apikey"))
}

func TestClient_Insert(t *testing.T) {
	c, reqs := newTestServer(t, http.StatusCreated, ``)

	row := model.MovementRegistration{
		FullName: "Jean Mukendi",
		Email:    "jean@example.cd",
		Phone:    "+243 81 234 5678",
		Province: "Kinshasa",
	}
	require.NoError(t, c.Insert(context.Background(), record.TableMovementRegistrations, row))

	got := (*reqs)[0]
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/rest/v1/movement_registrations", got.Path)
	assert.Equal(t, "return=minimal", got.Header.Get("Prefer"))
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))

	var body []map[string]any
	require.NoError(t, json.Unmarshal(got.Body, &body))
	require.Len(t, body, 1)
	assert.Equal(t, "Jean Mukendi", body[0]["full_name"])
	assert.Equal(t, "Kinshasa", body[0]["province"])
}

func TestClient_Update(t *testing.T) {
	c, reqs := newTestServer(t, http.StatusNoContent, ``)

	patch := model.EventPatch{
		EventFields: model.EventFields{Title: "Conférence", Capacity: nil},
		UpdatedAt:   time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
	}
	require.NoError(t, c.Update(context.Background(), record.TableEvents, "e1", patch))

	got := (*reqs)[0]
	assert.Equal(t, http.MethodPatch, got.Method)
	assert.Equal(t, []string{"eq.e1"}, got.Query["id"])

	var body map[string]any
	require.NoError(t, json.Unmarshal(got.Body, &body))
	assert.Equal(t, "Conférence", body["title"])
	assert.Contains(t, body, "capacity")
	assert.Nil(t, body["capacity"])
	assert.Equal(t, "2025-03-01T08:00:00Z", body["updated_at"])
}

func TestClient_APIError(t *testing.T) {
	c, _ := newTestServer(t, http.StatusConflict,
		`{"code":"23505","message":"duplicate key value violates unique constraint","details":"Key (slug)=(x) already exists.","hint":null}`)

	err := c.Insert(context.Background(), record.TableArticles, model.ArticleFields{Slug: "x"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "23505", apiErr.Code)
	assert.Contains(t, apiErr.Details, "slug")
}

func TestClient_SelectRejectsBadDest(t *testing.T) {
	c, reqs := newTestServer(t, http.StatusOK, `[]`)
	var row model.Article
	err := c.Select(context.Background(), record.TableArticles, record.Query{}, &row)
	assert.Error(t, err)
	assert.Empty(t, *reqs)
}

func TestClient_Ping(t *testing.T) {
	c, _ := newTestServer(t, http.StatusOK, `[]`)
	assert.NoError(t, c.Ping(context.Background()))

	bad, _ := newTestServer(t, http.StatusUnauthorized, `{"message":"Invalid API key"}`)
	assert.Error(t, bad.Ping(context.Background()))
}

func TestDecodeAPIError(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode string
		wantMsg  string
	}{
		{"postgrest", `{"code":"PGRST116","message":"no rows"}`, "PGRST116", "no rows"},
		{"gotrue legacy", `{"error":"invalid_grant","error_description":"Invalid login credentials"}`, "invalid_grant", "Invalid login credentials"},
		{"gotrue current", `{"code":400,"error_code":"invalid_credentials","msg":"Invalid login credentials"}`, "invalid_credentials", "Invalid login credentials"},
		{"not json", `<html>`, "", "Bad Request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := decodeAPIError(http.StatusBadRequest, []byte(tt.body))
			assert.Equal(t, tt.wantCode, e.Code)
			assert.Equal(t, tt.wantMsg, e.Message)
		})
	}
}
