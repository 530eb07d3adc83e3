// Copyright (c) 2026 The MRE Site Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mouvement-re/mre-site/internal/model"
	"github.com/mouvement-re/mre-site/internal/record"
	"github.com/mouvement-re/mre-site/internal/testutil"
)

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/actualites/{slug}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, slug := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/actualites/"+slug, nil))
	}

	assert.Equal(t, 3.0, promtest.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/actualites/{slug}", "404")))
	assert.Equal(t, 1, promtest.CollectAndCount(m.RequestDuration))
}

func TestInstrumentStore(t *testing.T) {
	m := New()
	fake := testutil.NewFakeStore()
	fake.FailOn("insert", record.TableContactMessages, testutil.ErrStoreDown)
	s := m.InstrumentStore(fake)
	ctx := context.Background()

	var rows []model.Article
	require.NoError(t, s.Select(ctx, record.TableArticles, record.Query{}, &rows))
	err := s.Insert(ctx, record.TableContactMessages, model.ContactMessage{FullName: "x"})
	assert.True(t, errors.Is(err, testutil.ErrStoreDown))

	assert.Equal(t, 1.0, promtest.ToFloat64(m.StoreCalls.WithLabelValues("select", record.TableArticles, "ok")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.StoreCalls.WithLabelValues("insert", record.TableContactMessages, "error")))

	p, ok := s.(record.Pinger)
	require.True(t, ok)
	assert.NoError(t, p.Ping(ctx))
}

func TestRecordLead(t *testing.T) {
	m := New()
	m.RecordLead("contact", nil)
	m.RecordLead("contact", errors.New("boom"))
	m.RecordLead("contact", nil)

	assert.Equal(t, 2.0, promtest.ToFloat64(m.LeadsTotal.WithLabelValues("contact", "ok")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.LeadsTotal.WithLabelValues("contact", "error")))

	var nilMetrics *Metrics
	nilMetrics.RecordLead("contact", nil)
}

func TestHandler(t *testing.T) {
	m := New()
	m.RecordLead("join", nil)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body, _ := io.ReadAll(rr.Body)
	assert.True(t, strings.Contains(string(body), `mre_leads_total{form="join",outcome="ok"} 1`))
	assert.True(t, strings.Contains(string(body), "go_goroutines"))
}
