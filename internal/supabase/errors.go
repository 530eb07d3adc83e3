// Copyright (c) 2026 The MRE Site Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package supabase

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// APIError is a non-2xx response from PostgREST or GoTrue.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Details    string
	Hint       string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("supabase: %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("supabase: %d: %s", e.StatusCode, e.Message)
}

// decodeAPIError reads either error shape: PostgREST uses code/message/details/hint,
// GoTrue uses error/error_description or error_code/msg.
func decodeAPIError(status int, body []byte) *APIError {
	e := &APIError{StatusCode: status}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err == nil {
		e.Code = firstString(raw, "error_code", "code", "error")
		e.Message = firstString(raw, "message", "msg", "error_description")
		e.Details = firstString(raw, "details")
		e.Hint = firstString(raw, "hint")
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}
