package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/sentinova/backend/app/api"
	"github.com/sentinova/backend/app/article"
	"github.com/sentinova/backend/app/broadcast"
	"github.com/sentinova/backend/app/cache"
	"github.com/sentinova/backend/app/cfg"
	"github.com/sentinova/backend/app/database"
	"github.com/sentinova/backend/app/provider"
	"github.com/sentinova/backend/app/sentiment"
	"github.com/sentinova/backend/app/tasks"
)

func main() {
	godotenv.Load()

	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// help was requested
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Sentinova backend", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBHost, appCfg.DBPort, appCfg.DBUser,
		appCfg.DBPassword, appCfg.DBName)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "migration_version", version, "dirty", dirty)

	articleRepo := database.NewArticleRepository(db)
	sentimentRepo := database.NewSentimentRepository(db)

	sources := []provider.Source{
		provider.NewClient(appCfg.NewsAPIURL, appCfg.NewsAPIKey, appCfg.NewsAPIPageSize, appCfg.UserAgent),
	}
	rssSources, err := provider.LoadSources(appCfg.SourcesDir, appCfg.UserAgent)
	if err != nil {
		slog.Error("Failed to load source configurations", "dir", appCfg.SourcesDir, "error", err)
		os.Exit(1)
	}
	sources = append(sources, rssSources...)
	slog.Info("Sources configured", "count", len(sources))

	var scorer sentiment.SentenceScorer
	switch appCfg.SentimentEngine {
	case "keyword":
		scorer = sentiment.NewKeywordScorer()
	default:
		scorer = sentiment.NewLexiconScorer()
	}
	analyzer := sentiment.NewEngineAnalyzer(scorer)
	upserter := sentiment.NewUpserter(sentimentRepo)

	resolver := article.NewResolver(articleRepo)
	hub := broadcast.NewHub()

	var imageCache *cache.Cache
	if appCfg.RedisAddr != "" {
		imageCache, err = cache.NewCache(appCfg.RedisAddr)
		if err != nil {
			slog.Warn("Image cache unavailable, proxying without cache", "error", err)
			imageCache = nil
		} else {
			defer imageCache.Close()
		}
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}

	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount, "poll_interval_ms", appCfg.PollIntervalMs)
	scheduler := tasks.NewScheduler(sources, resolver, articleRepo, analyzer, upserter, hub,
		httpClient, article.NewContentExtractor())
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(articleRepo, sentimentRepo, analyzer, upserter, hub,
		imageCache, httpClient, appCfg.Version)
	server := api.NewServer(handler)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // SSE connections stay open
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("HTTP server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
