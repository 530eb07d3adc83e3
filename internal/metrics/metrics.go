// Copyright (c) 2026 The MRE Site Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package metrics provides Prometheus metrics for HTTP traffic and record
// store calls.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mouvement-re/mre-site/internal/record"
)

const namespace = "mre"

// Metrics owns a registry and the collectors registered in it.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	StoreCalls      *prometheus.CounterVec
	StoreDuration   *prometheus.HistogramVec
	LeadsTotal      *prometheus.CounterVec
}

// New creates a Metrics with Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		StoreCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_calls_total",
				Help:      "Total number of record store calls",
			},
			[]string{"op", "table", "status"},
		),
		StoreDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "store_call_duration_seconds",
				Help:      "Duration of record store calls in seconds",
				Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 15},
			},
			[]string{"op", "table"},
		),
		LeadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "leads_total",
				Help:      "Lead form submissions by form and outcome",
			},
			[]string{"form", "outcome"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestsTotal,
		m.RequestDuration,
		m.StoreCalls,
		m.StoreDuration,
		m.LeadsTotal,
	)
	return m
}

// Registry returns the registry backing m.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordLead counts a lead submission. A nil Metrics is a no-op.
func (m *Metrics) RecordLead(form string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.LeadsTotal.WithLabelValues(form, outcome).Inc()
}

// Middleware records request counts and latency labelled by chi route
// pattern, so /actualites/{slug} is one series regardless of slug.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// InstrumentStore wraps s so every call is counted and timed.
func (m *Metrics) InstrumentStore(s record.Store) record.Store {
	return &instrumentedStore{next: s, m: m}
}

type instrumentedStore struct {
	next record.Store
	m    *Metrics
}

func (s *instrumentedStore) observe(op, table string, start time.Time, err error) {
	status := "ok"
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		status = "timeout"
	case err != nil:
		status = "error"
	}
	s.m.StoreCalls.WithLabelValues(op, table, status).Inc()
	s.m.StoreDuration.WithLabelValues(op, table).Observe(time.Since(start).Seconds())
}

func (s *instrumentedStore) Select(ctx context.Context, table string, q record.Query, dest any) error {
	start := time.Now()
	err := s.next.Select(ctx, table, q, dest)
	s.observe("select", table, start, err)
	return err
}

func (s *instrumentedStore) Insert(ctx context.Context, table string, row any) error {
	start := time.Now()
	err := s.next.Insert(ctx, table, row)
	s.observe("insert", table, start, err)
	return err
}

func (s *instrumentedStore) Update(ctx context.Context, table, id string, patch any) error {
	start := time.Now()
	err := s.next.Update(ctx, table, id, patch)
	s.observe("update", table, start, err)
	return err
}

func (s *instrumentedStore) Delete(ctx context.Context, table, id string) error {
	start := time.Now()
	err := s.next.Delete(ctx, table, id)
	s.observe("delete", table, start, err)
	return err
}

// Ping forwards to the wrapped store when it supports it.
func (s *instrumentedStore) Ping(ctx context.Context) error {
	if p, ok := s.next.(record.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
