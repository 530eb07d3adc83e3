// Copyright (c) 2026 The MRE Site Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mouvement-re/mre-site/internal/model"
	"github.com/mouvement-re/mre-site/internal/record"
)

// SeedDemo fills an empty database with sample articles and upcoming events.
// It does nothing when any article already exists.
func SeedDemo(ctx context.Context, s record.Store) error {
	var existing []model.Article
	if err := s.Select(ctx, record.TableArticles, record.Query{Limit: 1}, &existing); err != nil {
		return fmt.Errorf("checking for articles: %w", err)
	}
	if len(existing) > 0 {
		slog.Info("content already present, skipping demo seed")
		return nil
	}

	slog.Info("seeding demo content")

	articles := []model.ArticleFields{
		{
			Title:   "Lancement officiel du Mouvement",
			Slug:    "lancement-officiel-du-mouvement",
			Summary: "Le Mouvement pour la Renaissance Économique tient sa première assemblée à Kinshasa.",
			Content: "Le Mouvement pour la Renaissance Économique a été officiellement lancé à Kinshasa.\n\n" +
				"Des centaines de militants venus de plusieurs provinces ont assisté à l'assemblée inaugurale.",
			Author: model.DefaultAuthor,
		},
		{
			Title:   "Notre programme pour l'emploi des jeunes",
			Slug:    "programme-emploi-des-jeunes",
			Summary: "Formation professionnelle, entrepreneuriat et accès au crédit.",
			Content: "La jeunesse congolaise est notre première richesse.\n\n" +
				"Nous proposons des centres de **formation professionnelle** dans chaque province.",
			Author: model.DefaultAuthor,
		},
	}
	for _, a := range articles {
		if err := s.Insert(ctx, record.TableArticles, a); err != nil {
			return fmt.Errorf("seeding article %s: %w", a.Slug, err)
		}
	}

	capacity := 500
	now := time.Now()
	events := []model.EventFields{
		{
			Title:       "Grand rassemblement de Kinshasa",
			Slug:        "grand-rassemblement-kinshasa",
			Description: "Rejoignez-nous pour un grand rassemblement populaire au cœur de la capitale.",
			Location:    "Stade des Martyrs, Kinshasa",
			Date:        now.AddDate(0, 0, 14).Truncate(time.Hour),
			Capacity:    &capacity,
		},
		{
			Title:       "Forum économique de Lubumbashi",
			Slug:        "forum-economique-lubumbashi",
			Description: "Échanges avec les entrepreneurs du Haut-Katanga sur la diversification économique.",
			Location:    "Lubumbashi, Haut-Katanga",
			Date:        now.AddDate(0, 1, 0).Truncate(time.Hour),
		},
	}
	for _, e := range events {
		if err := s.Insert(ctx, record.TableEvents, e); err != nil {
			return fmt.Errorf("seeding event %s: %w", e.Slug, err)
		}
	}

	slog.Info("demo content seeded", "articles", len(articles), "events", len(events))
	return nil
}
