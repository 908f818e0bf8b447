package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lixing-Zhang/foodgram/backend/internal/auth"
	"github.com/Lixing-Zhang/foodgram/backend/internal/config"
	"github.com/Lixing-Zhang/foodgram/backend/internal/database"
	"github.com/Lixing-Zhang/foodgram/backend/internal/fixtures"
	"github.com/Lixing-Zhang/foodgram/backend/internal/handlers"
	"github.com/Lixing-Zhang/foodgram/backend/internal/repository"
	"github.com/Lixing-Zhang/foodgram/backend/internal/service"
	"github.com/Lixing-Zhang/foodgram/backend/pkg/logger"
)

func main() {
	// Load configuration from defaults, config file and environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel, logger.WithFormat(cfg.LogFormat))
	slog.SetDefault(log)

	log.Info("starting foodgram api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"db_driver", cfg.Database.Driver,
		"log_level", cfg.LogLevel,
	)

	db, err := database.Open(cfg.Database, log)
	if err != nil {
		log.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	repos := repository.NewRepositories(db)

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Error("failed to create token manager", "error", err)
		os.Exit(1)
	}
	hasher := auth.NewBcryptHasher()

	// Seed fixtures before serving
	if len(cfg.Fixtures.Ingredients) > 0 || len(cfg.Fixtures.Users) > 0 {
		log.Info("loading fixtures...")
		seeder := fixtures.NewSeeder(fixtures.NewLoader(), repos, hasher, log)
		if err := seeder.Run(context.Background(), cfg.Fixtures); err != nil {
			log.Error("failed to load fixtures", "error", err)
			os.Exit(1)
		}
	}

	// Initialize services
	svc := handlers.Services{
		Catalog:       service.NewCatalogService(repos.Tags, repos.Ingredients),
		Recipes:       service.NewRecipeService(repos),
		Favorites:     service.NewFavoriteService(repos),
		Cart:          service.NewShoppingCartService(repos),
		Users:         service.NewUserService(repos, hasher),
		Subscriptions: service.NewSubscriptionService(repos),
		Auth:          service.NewAuthService(repos, tokens, hasher),
	}

	pinger := handlers.PingerFunc(func(ctx context.Context) error { return database.Ping(ctx, db) })
	router := handlers.NewRouter(svc, pinger, cfg.API, log)

	// Create HTTP server
	addr := cfg.Server.Addr()
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Warn("failed to close database", "error", err)
		}
	}

	log.Info("server stopped gracefully")
}
