package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/docgen"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"devblog/internal/auth"
	"devblog/internal/config"
	"devblog/internal/httpapi"
	"devblog/internal/markdown"
	"devblog/internal/publisher"
	"devblog/internal/service"
	"devblog/internal/storage/blob"
	"devblog/internal/storage/postgres"
)

var routes = flag.Bool("routes", false, "Generate router documentation")

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("connected to database", "host", cfg.Database.Host, "dbname", cfg.Database.DBName)

	// Events are optional; without a broker URL the blog runs silently.
	var events service.Publisher
	if cfg.RabbitMQ.URL != "" {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()
		events = rabbitMQ
	} else {
		logger.Warn("rabbitmq url not set, events disabled")
	}

	blobs, err := blob.NewLocal(cfg.Storage.MediaRoot, cfg.Storage.MediaURL)
	if err != nil {
		logger.Error("failed to prepare media storage", "error", err)
		os.Exit(1)
	}

	articleStore := postgres.NewArticleStore(db)
	categoryStore := postgres.NewCategoryStore(db)
	userStore := postgres.NewUserStore(db)
	profileStore := postgres.NewProfileStore(db)
	subscriberStore := postgres.NewSubscriberStore(db)
	txManager := postgres.NewTransactionManager(db)

	tokens := auth.NewTokens(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	hasher := auth.NewHasher(cfg.Auth.BcryptCost)

	articleService := service.NewArticleService(articleStore, categoryStore, markdown.New(), logger, cfg.Blog)
	publishingService := service.NewPublishingService(articleStore, categoryStore, txManager, blobs, events, logger)
	accountService := service.NewAccountService(userStore, profileStore, txManager, hasher, tokens, articleService, logger)
	subscriptionService := service.NewSubscriptionService(subscriberStore, events, logger)

	server := httpapi.NewServer(
		articleService,
		publishingService,
		accountService,
		subscriptionService,
		tokens,
		db,
		logger,
		httpapi.Options{
			CookieName:     cfg.Auth.CookieName,
			CookieSecure:   cfg.Auth.CookieSecure,
			TokenTTL:       cfg.Auth.TokenTTL,
			MaxUploadBytes: cfg.HTTP.MaxUploadBytes,
			MediaURL:       cfg.Storage.MediaURL,
			MediaRoot:      cfg.Storage.MediaRoot,
		},
	)
	router := server.Routes()

	if *routes {
		fmt.Println(docgen.MarkdownRoutesDoc(router, docgen.MarkdownOpts{
			ProjectPath: "devblog",
			Intro:       "Developer blog JSON API.",
		}))
		return
	}

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting http server", "addr", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("http server error", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
