// Copyright (c) 2026 The MRE Site Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package leads

import (
	"net/url"
	"strings"

	"github.com/mouvement-re/mre-site/internal/model"
)

// FormState is the state a lead form renders in.
type FormState int

const (
	StateEditing FormState = iota
	StateSuccess
	StateError
)

// ErrorMessage is shown when a submission fails.
const ErrorMessage = "Une erreur est survenue. Veuillez réessayer."

// JoinForm is the membership form.
type JoinForm struct {
	FullName string
	Email    string
	Phone    string
	Province string
	Message  string
}

// BindJoin reads a JoinForm from posted values.
func BindJoin(v url.Values) JoinForm {
	return JoinForm{
		FullName: field(v, "full_name"),
		Email:    field(v, "email"),
		Phone:    field(v, "phone"),
		Province: field(v, "province"),
		Message:  field(v, "message"),
	}
}

// Record converts the form to a store row. An empty message is sent as "".
func (f JoinForm) Record() model.MovementRegistration {
	return model.MovementRegistration{
		FullName: f.FullName,
		Email:    f.Email,
		Phone:    f.Phone,
		Province: f.Province,
		Message:  f.Message,
	}
}

// ContactForm is the contact form.
type ContactForm struct {
	FullName string
	Email    string
	Subject  string
	Message  string
}

// BindContact reads a ContactForm from posted values.
func BindContact(v url.Values) ContactForm {
	return ContactForm{
		FullName: field(v, "full_name"),
		Email:    field(v, "email"),
		Subject:  field(v, "subject"),
		Message:  field(v, "message"),
	}
}

// Record converts the form to a store row.
func (f ContactForm) Record() model.ContactMessage {
	return model.ContactMessage{
		FullName: f.FullName,
		Email:    f.Email,
		Subject:  f.Subject,
		Message:  f.Message,
	}
}

// RegistrationForm is the event registration form.
type RegistrationForm struct {
	FullName string
	Email    string
	Phone    string
}

// BindRegistration reads a RegistrationForm from posted values.
func BindRegistration(v url.Values) RegistrationForm {
	return RegistrationForm{
		FullName: field(v, "full_name"),
		Email:    field(v, "email"),
		Phone:    field(v, "phone"),
	}
}

// Record converts the form to a store row for eventID.
func (f RegistrationForm) Record(eventID string) model.EventRegistration {
	return model.EventRegistration{
		EventID:  eventID,
		FullName: f.FullName,
		Email:    f.Email,
		Phone:    f.Phone,
	}
}

// field returns the trimmed value of key. Message bodies keep inner newlines.
func field(v url.Values, key string) string {
	return strings.TrimSpace(v.Get(key))
}
