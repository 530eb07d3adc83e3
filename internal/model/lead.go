// Copyright (c) 2026 The MRE Site Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// MovementRegistration is a membership request from the join form.
type MovementRegistration struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Province string `json:"province"`
	Message  string `json:"message"`
}

// EventRegistration books one person onto an event.
type EventRegistration struct {
	EventID  string `json:"event_id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// ContactMessage is a message from the contact form.
type ContactMessage struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
}

// Provinces lists the DRC provinces offered by the join form.
var Provinces = []string{
	"Kinshasa",
	"Kongo Central",
	"Kwango",
	"Kwilu",
	"Mai-Ndombe",
	"Kasaï",
	"Kasaï Central",
	"Kasaï Oriental",
	"Lomami",
	"Sankuru",
	"Maniema",
	"Sud-Kivu",
	"Nord-Kivu",
	"Ituri",
	"Haut-Uélé",
	"Tshopo",
	"Bas-Uélé",
	"Nord-Ubangi",
	"Mongala",
	"Sud-Ubangi",
	"Équateur",
	"Tshuapa",
	"Tanganyika",
	"Haut-Lomami",
	"Lualaba",
	"Haut-Katanga",
}
