// Copyright (c) 2026 The MRE Site Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mouvement-re/mre-site/internal/content"
	"github.com/mouvement-re/mre-site/internal/middleware"
	"github.com/mouvement-re/mre-site/internal/model"
	"github.com/mouvement-re/mre-site/internal/render"
)

// ArticleForm is the admin article editor.
type ArticleForm struct {
	ID       string
	Title    string
	Slug     string
	Summary  string
	Content  string
	ImageURL string
	Author   string
}

// BindArticleForm reads an ArticleForm from posted values.
func BindArticleForm(v url.Values) ArticleForm {
	return ArticleForm{
		Title:    strings.TrimSpace(v.Get("title")),
		Slug:     strings.TrimSpace(v.Get("slug")),
		Summary:  strings.TrimSpace(v.Get("summary")),
		Content:  v.Get("content"),
		ImageURL: strings.TrimSpace(v.Get("image_url")),
		Author:   strings.TrimSpace(v.Get("author")),
	}
}

func articleFormFrom(a model.Article) ArticleForm {
	return ArticleForm{
		ID:       a.ID,
		Title:    a.Title,
		Slug:     a.Slug,
		Summary:  a.Summary,
		Content:  a.Content,
		ImageURL: a.ImageURL,
		Author:   a.Author,
	}
}

// Fields returns the columns written by create and update.
func (f ArticleForm) Fields() model.ArticleFields {
	return model.ArticleFields{
		Title:    f.Title,
		Slug:     f.Slug,
		Summary:  f.Summary,
		Content:  f.Content,
		ImageURL: f.ImageURL,
		Author:   f.Author,
	}
}

// ArticlesHandler handles the admin articles panel.
type ArticlesHandler struct {
	renderer *render.Renderer
	articles *content.Articles
}

// NewArticlesHandler creates a new ArticlesHandler.
func NewArticlesHandler(renderer *render.Renderer, articles *content.Articles) *ArticlesHandler {
	return &ArticlesHandler{renderer: renderer, articles: articles}
}

// List handles GET /admin/articles.
func (h *ArticlesHandler) List(w http.ResponseWriter, r *http.Request) {
	articles, err := h.articles.List(r.Context())
	if err != nil {
		slog.Error("failed to list articles", "error", err)
		articles = nil
	}
	renderPage(w, r, h.renderer, http.StatusOK, "admin/articles_list", render.TemplateData{
		Title: "Gérer les Articles",
		Data: adminListPage[model.Article]{
			Tab:   tabArticles,
			State: content.ListState(len(articles)),
			Items: articles,
		},
	})
}

// NewForm handles GET /admin/articles/new.
func (h *ArticlesHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, ArticleForm{Author: model.DefaultAuthor}, "")
}

// Create handles POST /admin/articles.
func (h *ArticlesHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminArticles) {
		return
	}

	form := BindArticleForm(r.PostForm)
	if err := h.articles.Create(r.Context(), form.Fields()); err != nil {
		slog.Error("failed to create article", "slug", form.Slug, "error", err)
		h.renderForm(w, r, form, msgGenericError)
		return
	}

	slog.Info("article created", "slug", form.Slug, "created_by", middleware.UserEmail(r))
	flashSuccess(w, r, h.renderer, redirectAdminArticles, msgArticleCreated)
}

// EditForm handles GET /admin/articles/{id}.
func (h *ArticlesHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	article, ok := h.load(w, r)
	if !ok {
		return
	}
	h.renderForm(w, r, articleFormFrom(article), "")
}

// Update handles POST /admin/articles/{id}.
func (h *ArticlesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminArticles+"/"+id) {
		return
	}

	form := BindArticleForm(r.PostForm)
	form.ID = id
	if err := h.articles.Update(r.Context(), id, form.Fields()); err != nil {
		slog.Error("failed to update article", "id", id, "error", err)
		h.renderForm(w, r, form, msgGenericError)
		return
	}

	slog.Info("article updated", "id", id, "updated_by", middleware.UserEmail(r))
	flashSuccess(w, r, h.renderer, redirectAdminArticles, msgArticleUpdated)
}

// DeleteConfirm handles GET /admin/articles/{id}/delete.
func (h *ArticlesHandler) DeleteConfirm(w http.ResponseWriter, r *http.Request) {
	article, ok := h.load(w, r)
	if !ok {
		return
	}
	renderPage(w, r, h.renderer, http.StatusOK, "admin/delete_confirm", render.TemplateData{
		Title: "Supprimer l'article",
		Data: deleteConfirmPage{
			Tab:       tabArticles,
			Question:  "Êtes-vous sûr de vouloir supprimer cet article?",
			Title:     article.Title,
			Action:    redirectAdminArticles + "/" + article.ID + RouteSuffixDelete,
			CancelURL: redirectAdminArticles,
		},
	})
}

// Delete handles POST /admin/articles/{id}/delete. Only an explicit
// confirmation reaches the store.
func (h *ArticlesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminArticles) {
		return
	}
	if !confirmed(r) {
		http.Redirect(w, r, redirectAdminArticles, http.StatusSeeOther)
		return
	}

	if err := h.articles.Delete(r.Context(), id); err != nil {
		slog.Error("failed to delete article", "id", id, "error", err)
		flashError(w, r, h.renderer, redirectAdminArticles, msgGenericError)
		return
	}

	slog.Info("article deleted", "id", id, "deleted_by", middleware.UserEmail(r))
	flashSuccess(w, r, h.renderer, redirectAdminArticles, msgArticleDeleted)
}

// load fetches the article named by the {id} parameter, redirecting to the
// list when it cannot.
func (h *ArticlesHandler) load(w http.ResponseWriter, r *http.Request) (model.Article, bool) {
	id := chi.URLParam(r, "id")
	article, found, err := h.articles.GetByID(r.Context(), id)
	switch {
	case err != nil:
		slog.Error("failed to get article", "id", id, "error", err)
		flashError(w, r, h.renderer, redirectAdminArticles, msgGenericError)
		return model.Article{}, false
	case !found:
		flashError(w, r, h.renderer, redirectAdminArticles, msgArticleNotFound)
		return model.Article{}, false
	}
	return article, true
}

func (h *ArticlesHandler) renderForm(w http.ResponseWriter, r *http.Request, form ArticleForm, errMsg string) {
	title := "Nouvel Article"
	action := redirectAdminArticles
	if form.ID != "" {
		title = "Modifier l'Article"
		action = redirectAdminArticles + "/" + form.ID
	}
	renderPage(w, r, h.renderer, http.StatusOK, "admin/article_form", render.TemplateData{
		Title: title,
		Data: adminFormPage[ArticleForm]{
			Tab:    tabArticles,
			Form:   form,
			IsEdit: form.ID != "",
			Action: action,
			Error:  errMsg,
		},
	})
}
