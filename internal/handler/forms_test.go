// Copyright (c) 2026 The MRE Site Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"html"
	"net/http"
	"net/url"
	"testing"

	"github.com/mileusna/useragent"

	"github.com/mouvement-re/mre-site/internal/leads"
	"github.com/mouvement-re/mre-site/internal/record"
	"github.com/mouvement-re/mre-site/internal/testutil"
)

func joinValues() url.Values {
	return url.Values{
		"full_name": {"Jean Mukendi"},
		"email":     {"jean.mukendi@example.cd"},
		"phone":     {"+243812345678"},
		"province":  {"Kinshasa"},
		"message":   {""},
	}
}

func TestJoin_EndToEnd(t *testing.T) {
	env := newTestEnv(t)

	resp := env.get(t, RouteJoin)
	assertStatus(t, resp.status, http.StatusOK)
	assertContains(t, resp.body, "Formulaire d'Inscription", "Sélectionnez votre province")

	resp = env.post(t, RouteJoin, joinValues())
	assertRedirect(t, resp, RouteJoin)

	inserts := env.store.Calls("insert")
	if len(inserts) != 1 {
		t.Fatalf("insert calls = %d; want 1", len(inserts))
	}
	if inserts[0].Table != record.TableMovementRegistrations {
		t.Errorf("table = %q; want %q", inserts[0].Table, record.TableMovementRegistrations)
	}
	want := map[string]string{
		"full_name": "Jean Mukendi",
		"email":     "jean.mukendi@example.cd",
		"phone":     "+243812345678",
		"province":  "Kinshasa",
		"message":   "",
	}
	for k, v := range want {
		if got := inserts[0].Row[k]; got != v {
			t.Errorf("row[%q] = %v; want %q", k, got, v)
		}
	}

	resp = env.get(t, RouteJoin)
	assertStatus(t, resp.status, http.StatusOK)
	assertContains(t, resp.body, "Bienvenue dans le Mouvement!", "Inscrire une autre personne")
	assertNotContains(t, resp.body, "S'inscrire Maintenant")

	// "Inscrire une autre personne" links back to a blank form.
	resp = env.get(t, RouteJoin)
	assertContains(t, resp.body, "S'inscrire Maintenant")
	assertNotContains(t, resp.body, "Bienvenue dans le Mouvement!", `value="Jean Mukendi"`)

	if n := len(env.store.Calls("insert")); n != 1 {
		t.Errorf("insert calls after reloads = %d; want 1", n)
	}
}

func TestJoin_InsertFailureKeepsValues(t *testing.T) {
	env := newTestEnv(t)
	env.store.FailOn("insert", record.TableMovementRegistrations, testutil.ErrStoreDown)

	resp := env.post(t, RouteJoin, joinValues())
	assertStatus(t, resp.status, http.StatusOK)
	assertContains(t, resp.body,
		html.EscapeString(msgGenericError),
		`value="Jean Mukendi"`,
		`<option value="Kinshasa" selected>`,
	)
	assertNotContains(t, resp.body, "Bienvenue dans le Mouvement!")

	if n := len(env.store.Calls("insert")); n != 1 {
		t.Errorf("insert calls = %d; want 1", n)
	}
}

func TestContact(t *testing.T) {
	env := newTestEnv(t)
	values := url.Values{
		"full_name": {"Marie Kabila"},
		"email":     {"marie@example.cd"},
		"subject":   {"Partenariat"},
		"message":   {"Bonjour,\nje souhaite vous rencontrer."},
	}

	resp := env.post(t, RouteContact, values)
	assertRedirect(t, resp, RouteContact)

	rows := env.store.Rows(record.TableContactMessages)
	if len(rows) != 1 {
		t.Fatalf("contact rows = %d; want 1", len(rows))
	}
	if rows[0]["subject"] != "Partenariat" {
		t.Errorf("subject = %v; want %q", rows[0]["subject"], "Partenariat")
	}

	resp = env.get(t, RouteContact)
	assertContains(t, resp.body, "Message Envoyé!", "Envoyer un autre message")

	resp = env.get(t, RouteContact)
	assertContains(t, resp.body, "Envoyez-nous un message", "Horaires d'ouverture")
}

func TestContact_InsertFailure(t *testing.T) {
	env := newTestEnv(t)
	env.store.FailOn("insert", record.TableContactMessages, testutil.ErrStoreDown)

	resp := env.post(t, RouteContact, url.Values{
		"full_name": {"Marie Kabila"},
		"email":     {"marie@example.cd"},
		"subject":   {"Partenariat"},
		"message":   {"Bonjour"},
	})
	assertStatus(t, resp.status, http.StatusOK)
	assertContains(t, resp.body, html.EscapeString(msgGenericError), `value="Partenariat"`)
	assertNotContains(t, resp.body, "Message Envoyé!")
}

func TestSubmittedKey(t *testing.T) {
	tests := []struct {
		form, scope string
		want        string
	}{
		{leads.FormJoin, "", "lead_success:join"},
		{leads.FormContact, "", "lead_success:contact"},
		{leads.FormRegister, "meeting-kinshasa", "lead_success:event_registration:meeting-kinshasa"},
	}

	for _, tt := range tests {
		if got := submittedKey(tt.form, tt.scope); got != tt.want {
			t.Errorf("submittedKey(%q, %q) = %q; want %q", tt.form, tt.scope, got, tt.want)
		}
	}
}

func TestDeviceClass(t *testing.T) {
	tests := []struct {
		name string
		ua   string
		want string
	}{
		{"iphone", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1", "mobile"},
		{"desktop", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36", "desktop"},
		{"bot", "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)", "bot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := deviceClass(useragent.Parse(tt.ua)); got != tt.want {
				t.Errorf("deviceClass() = %q; want %q", got, tt.want)
			}
		})
	}
}
