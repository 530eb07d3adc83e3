// Copyright (c) 2026 The MRE Site Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package supabase talks to a hosted Supabase project: PostgREST for table
// access and GoTrue for email/password authentication.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mouvement-re/mre-site/internal/record"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 10 << 20

// Config holds the connection settings of a Supabase project.
type Config struct {
	URL     string
	AnonKey string
	Timeout time.Duration

	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client is a record.Store backed by the PostgREST API of a Supabase project.
type Client struct {
	baseURL string
	anonKey string
	http    *http.Client
}

// New creates a Client.
func New(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.URL, "/"),
		anonKey: cfg.AnonKey,
		http:    hc,
	}
}

// Select implements record.Store.
func (c *Client) Select(ctx context.Context, table string, q record.Query, dest any) error {
	if err := record.CheckDest(dest); err != nil {
		return err
	}

	params := url.Values{}
	params.Set("select", "*")
	for _, f := range q.Filters {
		params.Add(f.Column, string(f.Op)+"."+f.Value)
	}
	if q.Order != nil {
		dir := "desc"
		if q.Order.Ascending {
			dir = "asc"
		}
		params.Set("order", q.Order.Column+"."+dir)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	body, err := c.do(ctx, http.MethodGet, c.tableURL(table, params), nil)
	if err != nil {
		return fmt.Errorf("select %s: %w", table, err)
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("select %s: decoding rows: %w", table, err)
	}
	return nil
}

// Insert implements record.Store.
func (c *Client) Insert(ctx context.Context, table string, row any) error {
	if _, err := c.do(ctx, http.MethodPost, c.tableURL(table, nil), []any{row}); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

// Update implements record.Store.
func (c *Client) Update(ctx context.Context, table, id string, patch any) error {
	if _, err := c.do(ctx, http.MethodPatch, c.tableURL(table, byID(id)), patch); err != nil {
		return fmt.Errorf("update %s %s: %w", table, id, err)
	}
	return nil
}

// Delete implements record.Store.
func (c *Client) Delete(ctx context.Context, table, id string) error {
	if _, err := c.do(ctx, http.MethodDelete, c.tableURL(table, byID(id)), nil); err != nil {
		return fmt.Errorf("delete %s %s: %w", table, id, err)
	}
	return nil
}

// Ping checks that the REST endpoint answers with the configured key.
func (c *Client) Ping(ctx context.Context) error {
	params := url.Values{"select": {"id"}, "limit": {"1"}}
	if _, err := c.do(ctx, http.MethodGet, c.tableURL(record.TableArticles, params), nil); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

func byID(id string) url.Values {
	return url.Values{"id": {"eq." + id}}
}

func (c *Client) tableURL(table string, params url.Values) string {
	u := c.baseURL + "/rest/v1/" + url.PathEscape(table)
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// do sends a request authorized with the caller's access token when present,
// or the anon key otherwise.
func (c *Client) do(ctx context.Context, method, rawURL string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	token := record.AccessToken(ctx)
	if token == "" {
		token = c.anonKey
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("Prefer", "return=minimal")
	}

	return c.send(req)
}

func (c *Client) send(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeAPIError(resp.StatusCode, data)
	}
	return data, nil
}
