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

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/DheerajVerma945/GISCC/internal/apiclient"
	"github.com/DheerajVerma945/GISCC/internal/auth"
	"github.com/DheerajVerma945/GISCC/internal/cache"
	"github.com/DheerajVerma945/GISCC/internal/config"
	"github.com/DheerajVerma945/GISCC/internal/handler"
	"github.com/DheerajVerma945/GISCC/internal/inflight"
	"github.com/DheerajVerma945/GISCC/internal/listing"
	"github.com/DheerajVerma945/GISCC/internal/logging"
	"github.com/DheerajVerma945/GISCC/internal/middleware"
	"github.com/DheerajVerma945/GISCC/internal/render"
	"github.com/DheerajVerma945/GISCC/internal/scheduler"
	"github.com/DheerajVerma945/GISCC/internal/session"
	"github.com/DheerajVerma945/GISCC/internal/store"
	"github.com/DheerajVerma945/GISCC/internal/version"
	"github.com/DheerajVerma945/GISCC/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")
	envFile := flag.String("env", ".env", "Path to an optional .env file")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "GISCC - marketing site and content admin\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GISCC_API_BASE_URL      Content API base URL (required)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GISCC_SESSION_SECRET    Session and CSRF key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GISCC_DB_PATH           SQLite session database (default: ./data/giscc.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GISCC_REDIS_URL         Redis URL for sessions and listings (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GISCC_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GISCC_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GISCC_REFRESH_SCHEDULE  Cron spec of the listing refresh, or \"off\" (default: */5 * * * *)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	info := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	if *showVersion {
		_, _ = fmt.Printf("giscc %s\n", info)
		os.Exit(0)
	}

	if err := run(*envFile, info); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

// backends holds the session storage chosen from the configuration.
type backends struct {
	db    *sql.DB
	redis *redis.Client
}

// sessionPinger reports whether the session storage is reachable.
func (b backends) sessionPinger() handler.Pinger {
	if b.redis != nil {
		return handler.PingFunc(func(ctx context.Context) error {
			return b.redis.Ping(ctx).Err()
		})
	}
	return handler.PingFunc(b.db.PingContext)
}

func (b backends) close() {
	if b.redis != nil {
		if err := b.redis.Close(); err != nil {
			slog.Error("error closing redis connection", "error", err)
		}
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}
}

// openBackends connects to Redis when configured, otherwise opens and
// migrates the SQLite session database.
func openBackends(ctx context.Context, cfg *config.Config) (backends, error) {
	if cfg.UseRedis() {
		rdb, err := cache.DialRedis(ctx, cache.DefaultRedisOptions(cfg.RedisURL))
		if err != nil {
			return backends{}, fmt.Errorf("connecting to redis: %w", err)
		}
		slog.Info("using redis for sessions and listings")
		return backends{redis: rdb}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return backends{}, fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return backends{}, fmt.Errorf("initializing database: %w", err)
	}

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		return backends{}, fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")
	return backends{db: db}, nil
}

func run(envFile string, info version.Info) error {
	// Load .env file if present (development)
	_ = godotenv.Load(envFile)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	logger := slog.New(logging.NewRequestHandler(textHandler))
	slog.SetDefault(logger)
	slog.Info("starting giscc", "version", info.String(), "env", cfg.Env)

	ctx := context.Background()

	be, err := openBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer be.close()

	sessionManager := session.New(session.Options{
		DB:       be.db,
		Redis:    be.redis,
		Lifetime: cfg.SessionLifetime,
		IsDev:    cfg.IsDevelopment(),
	})
	tokens := session.NewTokens(sessionManager)
	slog.Info("session manager initialized")

	client, err := apiclient.New(cfg.APIBaseURL,
		apiclient.WithTimeout(cfg.APITimeout),
		apiclient.WithTokenSource(tokens),
		apiclient.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("creating API client: %w", err)
	}

	guard := auth.NewGuard(client, tokens, auth.Options{Logger: logger, ProfileTTL: cfg.SessionLifetime})
	defer func() { _ = guard.Close() }()

	// Listing snapshots are shared by every instance when Redis is configured.
	var redisClient redis.UniversalClient
	if be.redis != nil {
		redisClient = be.redis
	}
	snapshots := cache.New(cache.Config{
		Redis:           redisClient,
		Prefix:          cfg.CachePrefix + "listing:",
		CleanupInterval: time.Minute,
	})
	defer func() { _ = snapshots.Close() }()

	sources := handler.NewSources(client, snapshots, listing.Options{
		MaxAge: cfg.ListingMaxAge,
		Logger: logger,
	})
	defer sources.Close()

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	sched := scheduler.New(logger)
	if cfg.RefreshEnabled() {
		if err := sched.Register(scheduler.JobRefreshListings, "Reload blog, event and gallery listings",
			cfg.RefreshSchedule, scheduler.RefreshListings(sources)); err != nil {
			return fmt.Errorf("scheduling listing refresh: %w", err)
		}
	}
	if be.db != nil {
		if err := sched.Register(scheduler.JobPurgeSessions, "Delete expired sessions",
			scheduler.PurgeSchedule, scheduler.PurgeSessions(be.db, logger)); err != nil {
			return fmt.Errorf("scheduling session purge: %w", err)
		}
	}
	sched.Start()
	defer sched.Stop()

	// Warm the listings so the first visitors do not wait on the API.
	go func() {
		warmCtx, cancel := context.WithTimeout(context.Background(), cfg.APITimeout)
		defer cancel()
		if err := sources.Refresh(warmCtx); err != nil {
			slog.Warn("initial listing load failed", "error", err)
		}
	}()

	loginProtection := middleware.NewLoginProtection(
		middleware.LoginProtectionConfigPerMinute(cfg.LoginRateLimit))
	defer loginProtection.Close()

	authHandler := handler.NewAuthHandler(renderer, guard, loginProtection, logger)
	handlers := handler.Handlers{
		Public: handler.NewPublicHandler(renderer, sources, client, logger),
		Auth:   authHandler,
		Admin:  handler.NewAdminHandler(renderer, client, sources, inflight.New(), logger),
		Health: handler.NewHealthHandler(handler.HealthConfig{
			API:      client,
			Sessions: be.sessionPinger(),
			Guard:    guard,
			DataDir:  dataDir(cfg, be),
			Version:  info,
		}),
	}

	guards := handler.RouteGuards{
		RequireAdmin: middleware.RequireAdmin(middleware.AuthConfig{
			Guard:     guard,
			Wait:      cfg.VerifyWait,
			Waiting:   http.HandlerFunc(authHandler.Verifying),
			OnExpired: authHandler.SessionExpired,
		}),
		LoginLimit: loginProtection.Middleware(),
	}

	r, err := newRouter(cfg)
	if err != nil {
		return err
	}
	r.Group(func(r chi.Router) {
		r.Use(sessionManager.LoadAndSave)
		r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment(), cfg.ServerAddr())))
		// Must stay inside LoadAndSave.
		r.Use(middleware.Timeout(30 * time.Second))
		handlers.Routes(r, guards)
	})
	slog.Info("security middleware initialized", "hsts", !cfg.IsDevelopment(), "csrf", true)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// newRouter builds the router with the global middleware stack and the
// static file routes. Static assets skip the session and CSRF layers.
func newRouter(cfg *config.Config) (chi.Router, error) {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestPath)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.StripTrailingSlash)

	staticFS, err := fs.Sub(web.Static, "static/dist")
	if err != nil {
		return nil, fmt.Errorf("getting static fs: %w", err)
	}
	staticHandler := middleware.StaticCache(31536000)(http.StripPrefix("/static/dist/", http.FileServer(http.FS(staticFS))))
	r.Handle(handler.RouteStatic, staticHandler)

	return r, nil
}

// dataDir is the directory checked for free space, empty with Redis.
func dataDir(cfg *config.Config, be backends) string {
	if be.db == nil {
		return ""
	}
	return filepath.Dir(cfg.DBPath)
}
