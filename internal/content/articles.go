// Copyright (c) 2026 The MRE Site Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"time"

	"github.com/mouvement-re/mre-site/internal/model"
	"github.com/mouvement-re/mre-site/internal/record"
	"github.com/mouvement-re/mre-site/internal/util"
)

// Articles reads and writes the articles table.
type Articles struct {
	t table[model.Article]
}

// NewArticles creates an Articles over s.
func NewArticles(s record.Store) *Articles {
	return &Articles{t: table[model.Article]{
		store:   s,
		name:    record.TableArticles,
		orderBy: "published_at",
		now:     time.Now,
	}}
}

// List returns every article, newest first.
func (a *Articles) List(ctx context.Context) ([]model.Article, error) {
	return a.t.list(ctx, record.Query{})
}

// Latest returns the n newest articles.
func (a *Articles) Latest(ctx context.Context, n int) ([]model.Article, error) {
	return a.t.list(ctx, record.Query{Limit: n})
}

// GetBySlug returns the article with the given slug.
func (a *Articles) GetBySlug(ctx context.Context, slug string) (model.Article, bool, error) {
	return a.t.getBy(ctx, "slug", slug)
}

// GetByID returns the article with the given id.
func (a *Articles) GetByID(ctx context.Context, id string) (model.Article, bool, error) {
	return a.t.getBy(ctx, "id", id)
}

// Create inserts a new article. An empty slug is derived from the title.
func (a *Articles) Create(ctx context.Context, f model.ArticleFields) error {
	if f.Slug == "" {
		f.Slug = util.Slugify(f.Title)
	}
	return a.t.insert(ctx, f)
}

// Update overwrites the editable columns and refreshes updated_at.
func (a *Articles) Update(ctx context.Context, id string, f model.ArticleFields) error {
	return a.t.update(ctx, id, model.ArticlePatch{ArticleFields: f, UpdatedAt: a.t.now().UTC()})
}

// Delete removes the article.
func (a *Articles) Delete(ctx context.Context, id string) error {
	return a.t.delete(ctx, id)
}
