// Copyright (c) 2026 The MRE Site Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"testing"
	"time"
	_ "time/tzdata"
)

func TestParseCapacity(t *testing.T) {
	tests := []struct {
		input string
		want  *int
	}{
		{"150", intPtr(150)},
		{" 20 ", intPtr(20)},
		{"", nil},
		{"abc", nil},
		{"0", nil},
		{"-5", nil},
		{"12.5", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseCapacity(tt.input)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("ParseCapacity(%q) = %d, want nil", tt.input, *got)
			case tt.want != nil && got == nil:
				t.Errorf("ParseCapacity(%q) = nil, want %d", tt.input, *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("ParseCapacity(%q) = %d, want %d", tt.input, *got, *tt.want)
			}
		})
	}
}

func TestFormatCapacity(t *testing.T) {
	if got := FormatCapacity(nil); got != "" {
		t.Errorf("FormatCapacity(nil) = %q, want empty", got)
	}
	if got := FormatCapacity(intPtr(150)); got != "150" {
		t.Errorf("FormatCapacity(150) = %q, want %q", got, "150")
	}
}

func TestDateTimeLocalRoundTrip(t *testing.T) {
	loc, err := time.LoadLocation("Africa/Kinshasa")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}

	stored := time.Date(2025, 3, 15, 13, 30, 42, 500, time.UTC)

	formatted := FormatDateTimeLocal(stored, loc)
	if formatted != "2025-03-15T14:30" {
		t.Errorf("FormatDateTimeLocal = %q, want %q", formatted, "2025-03-15T14:30")
	}

	parsed, err := ParseDateTimeLocal(formatted, loc)
	if err != nil {
		t.Fatalf("ParseDateTimeLocal: %v", err)
	}
	if !parsed.Equal(stored.Truncate(time.Minute)) {
		t.Errorf("round trip = %v, want %v", parsed.UTC(), stored.Truncate(time.Minute))
	}
}

func TestFormatDateTimeLocal_Zero(t *testing.T) {
	if got := FormatDateTimeLocal(time.Time{}, time.UTC); got != "" {
		t.Errorf("FormatDateTimeLocal(zero) = %q, want empty", got)
	}
}

func TestParseDateTimeLocal_Invalid(t *testing.T) {
	for _, s := range []string{"", "2025-03-15", "15/03/2025 14:30"} {
		if _, err := ParseDateTimeLocal(s, time.UTC); err == nil {
			t.Errorf("ParseDateTimeLocal(%q) error = nil, want error", s)
		}
	}
}

func TestEventFields(t *testing.T) {
	e := Event{ID: "e1", Title: "Rassemblement", Slug: "rassemblement", Capacity: intPtr(10)}
	f := e.Fields()
	if f.Title != e.Title || f.Slug != e.Slug || f.Capacity != e.Capacity {
		t.Errorf("Fields() = %+v, want values copied from %+v", f, e)
	}
}

func intPtr(n int) *int { return &n }
