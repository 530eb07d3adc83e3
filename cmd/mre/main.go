// Copyright (c) 2026 The MRE Site Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
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

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/mouvement-re/mre-site/internal/auth"
	"github.com/mouvement-re/mre-site/internal/config"
	"github.com/mouvement-re/mre-site/internal/content"
	"github.com/mouvement-re/mre-site/internal/handler"
	"github.com/mouvement-re/mre-site/internal/leads"
	"github.com/mouvement-re/mre-site/internal/metrics"
	"github.com/mouvement-re/mre-site/internal/middleware"
	"github.com/mouvement-re/mre-site/internal/record"
	"github.com/mouvement-re/mre-site/internal/render"
	"github.com/mouvement-re/mre-site/internal/session"
	"github.com/mouvement-re/mre-site/internal/store"
	"github.com/mouvement-re/mre-site/internal/supabase"
	"github.com/mouvement-re/mre-site/internal/version"
	"github.com/mouvement-re/mre-site/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")
	hashPassword := flag.String("hash-password", "", "Print the argon2id hash of a password and exit")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "MRE - site of the Mouvement pour la Renaissance Économique\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MRE_BACKEND            Record store: supabase|sqlite (default: supabase)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MRE_SUPABASE_URL       Supabase project URL (required for supabase)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MRE_SUPABASE_ANON_KEY  Supabase anon key (required for supabase)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MRE_DB_PATH            SQLite database path (default: ./data/mre.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MRE_ADMIN_EMAIL        Admin account seeded on the sqlite backend\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MRE_ADMIN_PASSWORD     Password of the seeded admin account\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MRE_SESSION_SECRET     Session key (required in production, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MRE_SERVER_PORT        Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MRE_ENV                Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  MRE_TIMEZONE           Site time zone (default: Africa/Kinshasa)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}
	if *showVersion {
		_, _ = fmt.Println(versionInfo.String())
		os.Exit(0)
	}

	if *hashPassword != "" {
		hash, err := auth.HashPassword(*hashPassword)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "hashing password: %v\n", err)
			os.Exit(1)
		}
		_, _ = fmt.Println(hash)
		os.Exit(0)
	}

	if err := run(versionInfo); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

// backend is the record store and identity provider the site runs on.
type backend struct {
	store    record.Store
	auth     session.Authenticator
	sessions scs.Store
	close    func() error
}

func openSupabase(cfg *config.Config) *backend {
	client := supabase.New(supabase.Config{
		URL:     cfg.SupabaseURL,
		AnonKey: cfg.SupabaseAnonKey,
		Timeout: cfg.StoreTimeout,
	})
	slog.Info("using supabase backend", "url", cfg.SupabaseURL)
	return &backend{
		store:    client,
		auth:     supabase.NewAuth(client),
		sessions: session.NewMemoryStore(),
		close:    func() error { return nil },
	}
}

func openSQLite(ctx context.Context, cfg *config.Config) (*backend, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	if err := store.Seed(ctx, db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("seeding database: %w", err)
	}

	records := store.NewRecords(db)
	if cfg.SeedDemo {
		if err := store.SeedDemo(ctx, records); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("seeding demo content: %w", err)
		}
	}

	return &backend{
		store:    records,
		auth:     store.NewAuthenticator(db, []byte(cfg.SessionSecret)),
		sessions: session.NewSQLiteStore(db),
		close:    db.Close,
	}, nil
}

func run(versionInfo version.Info) error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	loc, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("loading time zone: %w", err)
	}

	ctx := context.Background()
	var be *backend
	if cfg.UseSupabase() {
		be = openSupabase(cfg)
	} else {
		if be, err = openSQLite(ctx, cfg); err != nil {
			return err
		}
	}
	defer func() {
		if err := be.close(); err != nil {
			slog.Error("error closing backend", "error", err)
		}
	}()

	records := be.store
	var recorder leads.Recorder
	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
		records = m.InstrumentStore(records)
		recorder = m
	}

	pinger, ok := records.(record.Pinger)
	if !ok {
		return errors.New("record store does not support health checks")
	}

	sessionManager := session.New(be.sessions, cfg.IsDevelopment())
	provider := session.NewProvider(sessionManager, be.auth)

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		Location:       loc,
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("loading static files: %w", err)
	}

	articles := content.NewArticles(records)
	events := content.NewEvents(records)
	leadService := leads.NewService(records, recorder)

	frontendHandler := handler.NewFrontendHandler(renderer, sessionManager, articles, events, leadService)
	formsHandler := handler.NewFormsHandler(renderer, sessionManager, leadService)
	authHandler := handler.NewAuthHandler(renderer, provider)
	articlesHandler := handler.NewArticlesHandler(renderer, articles)
	eventsHandler := handler.NewEventsHandler(renderer, events, loc)
	healthHandler := handler.NewHealthHandler(pinger, cfg.Backend, versionInfo.Version)

	csrfMiddleware := middleware.CSRF(middleware.DefaultCSRFConfig(
		[]byte(cfg.SessionSecret), cfg.IsDevelopment(), cfg.ServerAddr(),
	))
	withSession := func(next http.Handler) http.Handler {
		return sessionManager.LoadAndSave(provider.Load(next))
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))                    // Gzip compression with level 5
	r.Use(chimw.GetHead)                        // Handle HEAD requests for uptime monitoring
	r.Use(middleware.Timeout(30 * time.Second)) // 30 second request timeout
	r.Use(middleware.StripTrailingSlash)        // Redirect /path/ to /path (301)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	if m != nil {
		r.Use(m.Middleware)
		r.Handle("/metrics", m.Handler())
	}

	r.With(middleware.StaticCache(86400)).Handle("/static/*",
		http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	r.Group(func(r chi.Router) {
		r.Use(withSession)
		r.Use(csrfMiddleware)

		r.Get("/health", healthHandler.Health)
		r.Get("/health/live", healthHandler.Liveness)
		r.Get("/health/ready", healthHandler.Readiness)

		registerFrontendRoutes(r, frontendHandler, formsHandler)
		registerAuthRoutes(r, authHandler)
		registerAdminRoutes(r, articlesHandler, eventsHandler)
	})

	// 404 pages render with the session so the flash and header state work.
	r.NotFound(withSession(http.HandlerFunc(frontendHandler.NotFound)).ServeHTTP)

	// Create server with appropriate timeouts
	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB max header size
	}

	slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "backend", cfg.Backend, "version", versionInfo.Version)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	if err := serve(srv, quit, 30*time.Second); err != nil {
		return err
	}

	slog.Info("server stopped")
	return nil
}

// serve runs srv until quit fires or the listener fails. On quit the
// server is shut down gracefully within shutdownTimeout.
func serve(srv *http.Server, quit <-chan os.Signal, shutdownTimeout time.Duration) error {
	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
