// Copyright (c) 2026 The MRE Site Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package leads captures the public lead forms. Every submission is a single
// insert; nothing is read back.
package leads

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mouvement-re/mre-site/internal/record"
)

// Form names used in logs and metrics.
const (
	FormJoin     = "join"
	FormContact  = "contact"
	FormRegister = "event_registration"
)

// Recorder observes submission outcomes.
type Recorder interface {
	RecordLead(form string, err error)
}

type nopRecorder struct{}

func (nopRecorder) RecordLead(string, error) {}

// Service inserts lead rows.
type Service struct {
	store    record.Store
	recorder Recorder
}

// NewService creates a Service. A nil recorder is allowed.
func NewService(s record.Store, rec Recorder) *Service {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Service{store: s, recorder: rec}
}

// Join records a membership request.
func (s *Service) Join(ctx context.Context, f JoinForm) error {
	return s.insert(ctx, FormJoin, record.TableMovementRegistrations, f.Record())
}

// Contact records a contact message.
func (s *Service) Contact(ctx context.Context, f ContactForm) error {
	return s.insert(ctx, FormContact, record.TableContactMessages, f.Record())
}

// Register books f onto the event with the given id. Callers resolve the
// id from the event slug at submit time.
func (s *Service) Register(ctx context.Context, eventID string, f RegistrationForm) error {
	return s.insert(ctx, FormRegister, record.TableEventRegistrations, f.Record(eventID))
}

func (s *Service) insert(ctx context.Context, form, table string, row any) error {
	err := s.store.Insert(ctx, table, row)
	s.recorder.RecordLead(form, err)
	if err != nil {
		return fmt.Errorf("inserting %s: %w", table, err)
	}
	slog.Debug("lead recorded", "form", form, "table", table)
	return nil
}
