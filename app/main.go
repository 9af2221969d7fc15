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

	"github.com/fastinfo/newsboy/app/api"
	"github.com/fastinfo/newsboy/app/articles"
	"github.com/fastinfo/newsboy/app/cache"
	"github.com/fastinfo/newsboy/app/cfg"
	"github.com/fastinfo/newsboy/app/database"
	"github.com/fastinfo/newsboy/app/ingest"
	"github.com/fastinfo/newsboy/app/sources"
	"github.com/fastinfo/newsboy/app/tasks"
	"github.com/fastinfo/newsboy/app/tools"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
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

	slog.Info("Starting Newsboy server", "version", appCfg.Version)

	db, err := database.NewConnection(
		appCfg.DBHost, appCfg.DBPort, appCfg.DBUser,
		appCfg.DBPassword, appCfg.DBName)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("Connected to database")

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database migrations applied", "version", version, "dirty", dirty)

	configCache := sources.NewConfigCache(appCfg.SourcesDir)
	if err := configCache.Run(); err != nil {
		slog.Error("Failed to load source configurations", "error", err)
		os.Exit(1)
	}
	slog.Info("Source configurations loaded", "count", configCache.GetConfigCount())

	articleRepo := database.NewArticleRepository(db)

	var summarizer *ingest.Summarizer
	if appCfg.LLMBaseURL != "" {
		summarizer = ingest.NewSummarizer(appCfg.LLMBaseURL, appCfg.LLMAPIKey, appCfg.LLMModel, nil)
		slog.Info("AI summarization enabled", "model", appCfg.LLMModel)
	} else {
		slog.Info("AI summarization disabled (LLM_BASE_URL not set)")
	}

	httpClient := &http.Client{Timeout: 60 * time.Second}
	scheduler := tasks.NewScheduler(configCache, articleRepo, httpClient,
		ingest.NewParser(), ingest.NewSummaryExtractor(), summarizer)
	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount, "interval", appCfg.SchedulerInterval)
	scheduler.Start()
	defer scheduler.Stop()

	var responseCache *cache.Cache
	if appCfg.RedisAddr != "" {
		responseCache, err = cache.New(appCfg.RedisAddr, time.Duration(appCfg.CacheTTLSeconds)*time.Second)
		if err != nil {
			slog.Error("Failed to connect to Redis", "addr", appCfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		defer responseCache.Close()
		slog.Info("Response cache enabled", "addr", appCfg.RedisAddr, "ttl_seconds", appCfg.CacheTTLSeconds)
	} else {
		slog.Info("Response cache disabled (REDIS_ADDR not set)")
	}

	svc := articles.NewService(articleRepo, articles.Options{
		DefaultLimit: appCfg.DefaultLimit,
		MaxLimit:     appCfg.MaxLimit,
		DigestSize:   appCfg.DigestSize,
	})
	registry := tools.NewRegistry(svc)

	handler := api.NewHandler(svc, registry, articleRepo, responseCache)
	server := api.NewServer(handler)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	slog.Info("Newsboy server started")

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	slog.Info("Newsboy server shutdown complete")
}
