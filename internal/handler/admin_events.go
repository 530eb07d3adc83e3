// Copyright (c) 2026 The MRE Site Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mouvement-re/mre-site/internal/content"
	"github.com/mouvement-re/mre-site/internal/middleware"
	"github.com/mouvement-re/mre-site/internal/model"
	"github.com/mouvement-re/mre-site/internal/render"
)

// EventForm is the admin event editor. Date holds a datetime-local value
// in the site time zone and Capacity the raw input text.
type EventForm struct {
	ID          string
	Title       string
	Slug        string
	Description string
	Location    string
	Date        string
	ImageURL    string
	Capacity    string
}

// BindEventForm reads an EventForm from posted values.
func BindEventForm(v url.Values) EventForm {
	return EventForm{
		Title:       strings.TrimSpace(v.Get("title")),
		Slug:        strings.TrimSpace(v.Get("slug")),
		Description: v.Get("description"),
		Location:    strings.TrimSpace(v.Get("location")),
		Date:        strings.TrimSpace(v.Get("date")),
		ImageURL:    strings.TrimSpace(v.Get("image_url")),
		Capacity:    strings.TrimSpace(v.Get("capacity")),
	}
}

func eventFormFrom(e model.Event, loc *time.Location) EventForm {
	return EventForm{
		ID:          e.ID,
		Title:       e.Title,
		Slug:        e.Slug,
		Description: e.Description,
		Location:    e.Location,
		Date:        model.FormatDateTimeLocal(e.Date, loc),
		ImageURL:    e.ImageURL,
		Capacity:    model.FormatCapacity(e.Capacity),
	}
}

// Fields converts the form into store columns. The date is read in loc.
func (f EventForm) Fields(loc *time.Location) (model.EventFields, error) {
	date, err := model.ParseDateTimeLocal(f.Date, loc)
	if err != nil {
		return model.EventFields{}, err
	}
	return model.EventFields{
		Title:       f.Title,
		Slug:        f.Slug,
		Description: f.Description,
		Location:    f.Location,
		Date:        date,
		ImageURL:    f.ImageURL,
		Capacity:    model.ParseCapacity(f.Capacity),
	}, nil
}

// EventsHandler handles the admin events panel.
type EventsHandler struct {
	renderer *render.Renderer
	events   *content.Events
	loc      *time.Location
}

// NewEventsHandler creates a new EventsHandler. loc is the site time zone
// used by the date input.
func NewEventsHandler(renderer *render.Renderer, events *content.Events, loc *time.Location) *EventsHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &EventsHandler{renderer: renderer, events: events, loc: loc}
}

// List handles GET /admin/events. Past events are listed too.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.List(r.Context())
	if err != nil {
		slog.Error("failed to list events", "error", err)
		events = nil
	}
	renderPage(w, r, h.renderer, http.StatusOK, "admin/events_list", render.TemplateData{
		Title: "Gérer les Événements",
		Data: adminListPage[model.Event]{
			Tab:   tabEvents,
			State: content.ListState(len(events)),
			Items: events,
		},
	})
}

// NewForm handles GET /admin/events/new.
func (h *EventsHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, EventForm{}, "")
}

// Create handles POST /admin/events.
func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminEvents) {
		return
	}

	form := BindEventForm(r.PostForm)
	fields, err := form.Fields(h.loc)
	if err != nil {
		slog.Warn("invalid event date", "date", form.Date, "error", err)
		h.renderForm(w, r, form, msgInvalidEventInput)
		return
	}
	if err := h.events.Create(r.Context(), fields); err != nil {
		slog.Error("failed to create event", "slug", form.Slug, "error", err)
		h.renderForm(w, r, form, msgGenericError)
		return
	}

	slog.Info("event created", "slug", form.Slug, "created_by", middleware.UserEmail(r))
	flashSuccess(w, r, h.renderer, redirectAdminEvents, msgEventCreated)
}

// EditForm handles GET /admin/events/{id}.
func (h *EventsHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	event, ok := h.load(w, r)
	if !ok {
		return
	}
	h.renderForm(w, r, eventFormFrom(event, h.loc), "")
}

// Update handles POST /admin/events/{id}.
func (h *EventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminEvents+"/"+id) {
		return
	}

	form := BindEventForm(r.PostForm)
	form.ID = id
	fields, err := form.Fields(h.loc)
	if err != nil {
		slog.Warn("invalid event date", "id", id, "date", form.Date, "error", err)
		h.renderForm(w, r, form, msgInvalidEventInput)
		return
	}
	if err := h.events.Update(r.Context(), id, fields); err != nil {
		slog.Error("failed to update event", "id", id, "error", err)
		h.renderForm(w, r, form, msgGenericError)
		return
	}

	slog.Info("event updated", "id", id, "updated_by", middleware.UserEmail(r))
	flashSuccess(w, r, h.renderer, redirectAdminEvents, msgEventUpdated)
}

// DeleteConfirm handles GET /admin/events/{id}/delete.
func (h *EventsHandler) DeleteConfirm(w http.ResponseWriter, r *http.Request) {
	event, ok := h.load(w, r)
	if !ok {
		return
	}
	renderPage(w, r, h.renderer, http.StatusOK, "admin/delete_confirm", render.TemplateData{
		Title: "Supprimer l'événement",
		Data: deleteConfirmPage{
			Tab:       tabEvents,
			Question:  "Êtes-vous sûr de vouloir supprimer cet événement?",
			Title:     event.Title,
			Action:    redirectAdminEvents + "/" + event.ID + RouteSuffixDelete,
			CancelURL: redirectAdminEvents,
		},
	})
}

// Delete handles POST /admin/events/{id}/delete. Registrations for the
// event are removed with it.
func (h *EventsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminEvents) {
		return
	}
	if !confirmed(r) {
		http.Redirect(w, r, redirectAdminEvents, http.StatusSeeOther)
		return
	}

	if err := h.events.Delete(r.Context(), id); err != nil {
		slog.Error("failed to delete event", "id", id, "error", err)
		flashError(w, r, h.renderer, redirectAdminEvents, msgGenericError)
		return
	}

	slog.Info("event deleted", "id", id, "deleted_by", middleware.UserEmail(r))
	flashSuccess(w, r, h.renderer, redirectAdminEvents, msgEventDeleted)
}

func (h *EventsHandler) load(w http.ResponseWriter, r *http.Request) (model.Event, bool) {
	id := chi.URLParam(r, "id")
	event, found, err := h.events.GetByID(r.Context(), id)
	switch {
	case err != nil:
		slog.Error("failed to get event", "id", id, "error", err)
		flashError(w, r, h.renderer, redirectAdminEvents, msgGenericError)
		return model.Event{}, false
	case !found:
		flashError(w, r, h.renderer, redirectAdminEvents, msgEventNotFound)
		return model.Event{}, false
	}
	return event, true
}

func (h *EventsHandler) renderForm(w http.ResponseWriter, r *http.Request, form EventForm, errMsg string) {
	title := "Nouvel Événement"
	action := redirectAdminEvents
	if form.ID != "" {
		title = "Modifier l'Événement"
		action = redirectAdminEvents + "/" + form.ID
	}
	renderPage(w, r, h.renderer, http.StatusOK, "admin/event_form", render.TemplateData{
		Title: title,
		Data: adminFormPage[EventForm]{
			Tab:    tabEvents,
			Form:   form,
			IsEdit: form.ID != "",
			Action: action,
			Error:  errMsg,
		},
	})
}
