// Copyright (c) 2026 The MRE Site Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the records exchanged with the record store.
// JSON tags match the store column names.
package model

import "time"

// DefaultAuthor pre-fills the author field of a new article.
const DefaultAuthor = "Mouvement pour la Renaissance Économique"

// Article is a published news item.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Summary     string    `json:"summary"`
	Content     string    `json:"content"`
	ImageURL    string    `json:"image_url"`
	Author      string    `json:"author"`
	PublishedAt time.Time `json:"published_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ArticleFields are the admin-editable columns of an article.
type ArticleFields struct {
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	Summary  string `json:"summary"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url"`
	Author   string `json:"author"`
}

// ArticlePatch is the payload of an article update.
type ArticlePatch struct {
	ArticleFields
	UpdatedAt time.Time `json:"updated_at"`
}

// Fields returns the editable columns of a stored article.
func (a Article) Fields() ArticleFields {
	return ArticleFields{
		Title:    a.Title,
		Slug:     a.Slug,
		Summary:  a.Summary,
		Content:  a.Content,
		ImageURL: a.ImageURL,
		Author:   a.Author,
	}
}
