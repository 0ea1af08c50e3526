// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main imports Markdown articles with YAML front matter into the
// InkPress database. Usage: import_article <file.md> [<file.md>...]
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"inkpress/internal/config"
	"inkpress/internal/database"
	"inkpress/internal/importer"
	"inkpress/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <file.md> [<file.md>...]\n", os.Args[0])
		os.Exit(2)
	}

	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	im := importer.New(
		store.NewArticleStore(db),
		store.NewCategoryStore(db),
		store.NewTagStore(db),
		store.NewUserStore(db),
	)

	failed := 0
	for _, path := range os.Args[1:] {
		article, err := im.ImportFile(path)
		if err != nil {
			slog.Error("import failed", "file", path, "error", err)
			failed++
			continue
		}
		slog.Info("article imported", "file", path, "slug", article.Slug, "id", article.ID)
	}
	if failed > 0 {
		os.Exit(1)
	}
}
