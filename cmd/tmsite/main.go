// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mayconcorreia/site-tmhigienizacao/internal/apiclient"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/auth"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/cache"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/config"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/content"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/handler"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/logging"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/middleware"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/render"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/scheduler"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/seo"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/session"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/store"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/version"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/webhook"
	"github.com/mayconcorreia/site-tmhigienizacao/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

const (
	eventRetention = 30 * 24 * time.Hour
	staticMaxAge   = 24 * time.Hour
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "tmsite - TM Higienização website and admin panel\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TMSITE_BACKEND_URL       REST backend base URL (required)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TMSITE_SESSION_SECRET    Session and CSRF key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TMSITE_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TMSITE_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TMSITE_DB_PATH           SQLite session database (default: ./data/sessions.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TMSITE_REDIS_URL         Redis URL for the shared content cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TMSITE_WARM_SCHEDULE     Cron spec for cache warming (default: @every 5m)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TMSITE_SITE_URL          Public origin for canonical URLs and the sitemap\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TMSITE_NOINDEX           Ask crawlers to skip the site (default: false)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TMSITE_LEAD_WEBHOOK_URL  Endpoint notified of new leads (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	info := version.New(appVersion, appGitCommit, appBuildTime)
	if *showVersion {
		_, _ = fmt.Printf("tmsite %s\n", info)
		os.Exit(0)
	}

	if err := run(info); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(info version.Info) error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := cfg.LogLevelValue()
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(logging.NewContextHandler(textHandler)))

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	if err := store.Migrate(context.Background(), db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// WARN and above also go to the event log shown on the dashboard.
	events := store.NewEvents(db)
	logger := slog.New(logging.NewContextHandler(logging.NewEventLogHandler(textHandler, events)))
	slog.SetDefault(logger)
	slog.Info("database ready", "event_log", "warn")

	sessionManager := session.New(db, session.Options{
		IsDev:    cfg.IsDevelopment(),
		Lifetime: cfg.SessionLifetime,
	})
	tokens := session.NewTokenStore(sessionManager)
	flashes := session.NewFlashes(sessionManager)

	api, err := apiclient.New(cfg.BackendURL, apiclient.Options{
		Timeout: cfg.APITimeout,
		Tokens:  tokens,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("creating backend client: %w", err)
	}

	cacheTTL := time.Duration(cfg.CacheTTL) * time.Second
	contentCache, cacheBackend := cache.New(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cacheTTL,
		MaxSize:    cfg.CacheMaxSize,
	}, logger)
	defer func() { _ = contentCache.Close() }()

	snapshot, err := content.BundledSnapshot()
	if err != nil {
		return fmt.Errorf("loading content snapshot: %w", err)
	}
	resolver := content.NewResolver(api, snapshot, contentCache, cacheTTL, logger)
	slog.Info("content resolver ready", "cache", cacheBackend, "snapshot", resolver.SnapshotVersion())

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS: templatesFS,
		Flashes:     flashes,
		CountryCode: cfg.WhatsAppCountryCode,
		IsDev:       cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	guard := auth.NewGuard(api, tokens, auth.Options{
		VerifyInterval: cfg.VerifyInterval,
		Logger:         logger,
	})
	loginProtection := middleware.NewLoginProtection(middleware.LoginProtectionConfig{})
	loginLimiter := middleware.NewRateLimiter("login", 0.5, 5,
		"Muitas tentativas de login. Aguarde um momento.")
	contactLimiter := middleware.NewRateLimiter("contact", 0.2, 3,
		"Muitos envios em pouco tempo. Tente novamente em instantes.")

	sched := scheduler.New(resolver, cfg.WarmSchedule, logger)
	sched.AddHousekeeping("rate limiter pruning", "@every 10m", func() {
		loginLimiter.Prune()
		contactLimiter.Prune()
		loginProtection.Cleanup()
	})
	sched.AddHousekeeping("event log retention", "@daily", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		n, err := events.DeleteOlderThan(ctx, time.Now().Add(-eventRetention))
		if err != nil {
			slog.Warn("pruning event log failed", "error", err, "category", store.EventCategorySystem)
			return
		}
		slog.Debug("event log pruned", "deleted", n)
	})
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	if cfg.SiteURL == "" && !cfg.IsDevelopment() {
		slog.Warn("TMSITE_SITE_URL is not set; canonical URLs follow the request host")
	}

	devAddr := ""
	if cfg.IsDevelopment() {
		devAddr = cfg.ServerAddr()
	}

	publicHandler := handler.NewPublicHandler(resolver, api, renderer, flashes, seo.SiteConfig{
		SiteURL:         cfg.SiteURL,
		SiteDescription: cfg.SiteDescription,
		DefaultOGImage:  cfg.OGImage,
		NoIndex:         cfg.NoIndex,
	})

	if cfg.UseLeadWebhook() {
		if cfg.LeadWebhookSecret == "" {
			slog.Warn("TMSITE_LEAD_WEBHOOK_SECRET is not set; lead webhooks are sent unsigned")
		}
		wcfg := webhook.DefaultConfig()
		wcfg.URL = cfg.LeadWebhookURL
		wcfg.Secret = cfg.LeadWebhookSecret
		wcfg.AllowPrivate = cfg.LeadWebhookAllowPrivate
		dispatcher, err := webhook.NewDispatcher(wcfg, logger)
		if err != nil {
			return fmt.Errorf("initializing lead webhook: %w", err)
		}
		dispatcher.Start()
		defer dispatcher.Stop()
		publicHandler.SetDispatcher(dispatcher, cfg.WhatsAppCountryCode)
	}

	healthHandler := handler.NewHealthHandler(db, api, sched, handler.HealthInfo{
		Version:         info.Version,
		CacheBackend:    cacheBackend,
		SnapshotVersion: resolver.SnapshotVersion(),
	})
	healthHandler.SetCache(contentCache)

	router := handler.NewRouter(handler.Handlers{
		Public: publicHandler,
		Auth:   handler.NewAuthHandler(guard, loginProtection, renderer, flashes),
		Admin:  handler.NewAdminHandler(api, resolver, events, renderer, flashes),
		Health: healthHandler,
	}, handler.RouterConfig{
		Sessions:       sessionManager,
		Guard:          guard,
		CSRF:           middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment(), devAddr)),
		Security:       middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment()),
		ContactLimiter: contactLimiter,
		LoginLimiter:   loginLimiter,
		Static:         staticFS,
		StaticMaxAge:   staticMaxAge,
		RequestLog:     cfg.IsDevelopment(),
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env,
			"version", info.Version, "backend", cfg.BackendURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
