// Copyright (c) 2026 The MRE Site Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateTimeLocalLayout is the value format of an HTML datetime-local input.
const DateTimeLocalLayout = "2006-01-02T15:04"

// Event is a scheduled movement event.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Date        time.Time `json:"date"`
	ImageURL    string    `json:"image_url"`
	Capacity    *int      `json:"capacity"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EventFields are the admin-editable columns of an event.
type EventFields struct {
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Date        time.Time `json:"date"`
	ImageURL    string    `json:"image_url"`
	Capacity    *int      `json:"capacity"`
}

// EventPatch is the payload of an event update.
type EventPatch struct {
	EventFields
	UpdatedAt time.Time `json:"updated_at"`
}

// Fields returns the editable columns of a stored event.
func (e Event) Fields() EventFields {
	return EventFields{
		Title:       e.Title,
		Slug:        e.Slug,
		Description: e.Description,
		Location:    e.Location,
		Date:        e.Date,
		ImageURL:    e.ImageURL,
		Capacity:    e.Capacity,
	}
}

// FormatDateTimeLocal renders t in loc as a datetime-local input value.
// Seconds and below are dropped.
func FormatDateTimeLocal(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(DateTimeLocalLayout)
}

// ParseDateTimeLocal parses a datetime-local input value in loc.
func ParseDateTimeLocal(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateTimeLocalLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}

// ParseCapacity converts the capacity input into a positive integer.
// Empty, malformed and non-positive input yields nil.
func ParseCapacity(s string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return nil
	}
	return &n
}

// FormatCapacity renders a capacity for the admin form input.
func FormatCapacity(c *int) string {
	if c == nil {
		return ""
	}
	return strconv.Itoa(*c)
}
