package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/feedden/feedden/app/aggregator"
	"github.com/feedden/feedden/app/api"
	"github.com/feedden/feedden/app/cache"
	"github.com/feedden/feedden/app/cfg"
	"github.com/feedden/feedden/app/database"
	"github.com/feedden/feedden/app/feed"
	"github.com/feedden/feedden/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting feedden server", "version", appCfg.Version)

	db, err := database.NewConnection(
		appCfg.DBHost, appCfg.DBPort, appCfg.DBUser,
		appCfg.DBPassword, appCfg.DBName)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Repositories
	accountRepo := database.NewAccountRepository(db)
	folderRepo := database.NewFolderRepository(db)
	feedRepo := database.NewFeedRepository(db)
	subRepo := database.NewSubscriptionRepository(db)
	postRepo := database.NewPostRepository(db)
	statusRepo := database.NewStatusRepository(db)

	// Cache coordinator; a missing backend degrades to cache-disabled mode
	cacheCoordinator := cache.NewCoordinator(appCfg.RedisAddr, appCfg.CachingEnabled)
	defer cacheCoordinator.Close()

	// Core pipeline
	httpClient := &http.Client{Timeout: 30 * time.Second}
	fetcher := feed.NewFetcher(httpClient, appCfg.UserAgent)
	service := aggregator.NewService(fetcher, folderRepo, feedRepo, subRepo, postRepo, statusRepo,
		cacheCoordinator, aggregator.Options{
			AgeLimit:     appCfg.AgeLimit,
			SubPostLimit: appCfg.SubPostLimit,
			PageLimit:    appCfg.PageLimit,
		})

	// Background refresh
	scheduler := tasks.NewScheduler(folderRepo, service, appCfg.RefreshInterval, appCfg.WorkerCount)
	scheduler.Start()
	defer scheduler.Stop()

	// HTTP server
	handler := api.NewHandler(service, accountRepo)
	server := api.NewServer(handler, api.HeaderCallerResolver)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
