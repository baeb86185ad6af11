package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"devblog/internal/config"
	"devblog/internal/seed"
	"devblog/internal/service"
	"devblog/internal/storage/blob"
	"devblog/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	dir := flag.String("dir", "seed", "directory of Markdown articles")
	author := flag.String("author", "admin", "username for articles without an author")
	categories := flag.String("categories", "", "comma separated category names to create")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	blobs, err := blob.NewLocal(cfg.Storage.MediaRoot, cfg.Storage.MediaURL)
	if err != nil {
		logger.Error("failed to prepare media storage", "error", err)
		os.Exit(1)
	}

	articleStore := postgres.NewArticleStore(db)
	categoryStore := postgres.NewCategoryStore(db)
	txManager := postgres.NewTransactionManager(db)

	// Seeding never announces; subscribers hear about articles from the server.
	publishing := service.NewPublishingService(articleStore, categoryStore, txManager, blobs, nil, logger)
	seeder := seed.NewSeeder(categoryStore, postgres.NewUserStore(db), publishing, logger)

	var names []string
	for _, name := range strings.Split(*categories, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}

	stats, err := seeder.Run(context.Background(), names, os.DirFS(*dir), *author)
	if err != nil {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}

	logger.Info("seed complete", "categories", stats.Categories, "articles", stats.Articles)
}
