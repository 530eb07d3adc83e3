// Copyright (c) 2026 The MRE Site Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"bytes"
	"html/template"
	"log/slog"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/mouvement-re/mre-site/internal/model"
)

var (
	frenchMonths = [...]string{
		"janvier", "février", "mars", "avril", "mai", "juin",
		"juillet", "août", "septembre", "octobre", "novembre", "décembre",
	}
	frenchWeekdays = [...]string{
		"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi",
	}

	bodyPolicy = bluemonday.UGCPolicy()
)

// FormatDate formats t as "15 janvier 2025".
func FormatDate(t time.Time) string {
	return strconv.Itoa(t.Day()) + " " + frenchMonths[t.Month()-1] + " " + strconv.Itoa(t.Year())
}

// FormatDateLong formats t as "mercredi 15 janvier 2025".
func FormatDateLong(t time.Time) string {
	return frenchWeekdays[t.Weekday()] + " " + FormatDate(t)
}

// FormatTime formats t as "14:30".
func FormatTime(t time.Time) string {
	return t.Format("15:04")
}

// Markdown renders body as sanitized HTML. Blank lines separate paragraphs.
func Markdown(body string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(body), &buf); err != nil {
		slog.Warn("rendering markdown", "error", err)
		return template.HTML(template.HTMLEscapeString(body))
	}
	return template.HTML(bodyPolicy.SanitizeBytes(buf.Bytes()))
}

// Truncate shortens s to at most n runes, appending an ellipsis when cut.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "…"
}

func (r *Renderer) templateFuncs() template.FuncMap {
	local := func(t time.Time) time.Time { return t.In(r.loc) }
	return template.FuncMap{
		"formatDate":     func(t time.Time) string { return FormatDate(local(t)) },
		"formatDateLong": func(t time.Time) string { return FormatDateLong(local(t)) },
		"formatTime":     func(t time.Time) string { return FormatTime(local(t)) },
		"isoDate":        func(t time.Time) string { return t.UTC().Format(time.RFC3339) },
		"markdown":       Markdown,
		"truncate":       Truncate,
		"capacity":       model.FormatCapacity,
		"provinces":      func() []string { return model.Provinces },
	}
}
