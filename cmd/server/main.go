// Package main initializes and starts the G-Labs website server, setting up
// configuration, logging, the database, repositories, services, handlers,
// metrics and optional TLS.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/Krackerr154/glabs-website/internal/config"
	"github.com/Krackerr154/glabs-website/internal/db"
	"github.com/Krackerr154/glabs-website/internal/logger"
	"github.com/Krackerr154/glabs-website/internal/middleware"
	"github.com/Krackerr154/glabs-website/internal/render"
	"github.com/Krackerr154/glabs-website/internal/repository"
	"github.com/Krackerr154/glabs-website/internal/server/handler/http"
	"github.com/Krackerr154/glabs-website/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Parse .env, config file, flags and environment.
	options, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(2)
	}
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize PostgreSQL connection and apply migrations.
	postgresDB, err := db.InitPostgres(ctx, options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}
	defer postgresDB.Close()

	// Sessions that expired while the server was down.
	if _, err := db.PurgeExpiredSessions(ctx, postgresDB, time.Now(), zapLogger); err != nil {
		zapLogger.Warn("startup session purge failed", zap.Error(err))
	}

	// Repositories and services.
	userRepo := repository.NewPostgresUserRepository(postgresDB)
	sessionRepo := repository.NewPostgresSessionRepository(postgresDB)
	contentRepo := repository.NewPostgresContentRepository(postgresDB)

	credentials := service.NewCredentialService(userRepo, 0)
	sessions := service.NewSessionManager(sessionRepo, service.WithTTL(options.SessionTTL))
	content := service.NewContentService(contentRepo)

	if options.Seed {
		seeder := &service.Seeder{Credentials: credentials, Content: content}
		res, err := seeder.Seed(ctx, options.AdminEmail, options.AdminPassword, service.DefaultSamples)
		if err != nil {
			zapLogger.Fatal("seeding failed", zap.Error(err))
		}
		zapLogger.Info("seeded site",
			zap.Strings("created", res.Created),
			zap.Int("skipped", len(res.Skipped)),
		)
	}

	views, err := http.NewViews()
	if err != nil {
		zapLogger.Fatal("cannot parse templates", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(registry)

	// Build the router with middleware and routes.
	router := http.NewRouter(http.RouterConfig{
		Auth: &http.AuthHandler{
			Credentials:   credentials,
			Sessions:      sessions,
			Views:         views,
			Metrics:       metrics,
			Log:           zapLogger,
			SecureCookies: options.SecureCookies,
		},
		Admin: &http.AdminHandler{Content: content, Views: views, Log: zapLogger},
		API:   &http.APIHandler{Content: content, Log: zapLogger},
		Public: &http.PublicHandler{
			Content:  content,
			Views:    views,
			Markdown: render.New(),
			DB:       postgresDB,
			SiteURL:  options.SiteURL,
			Log:      zapLogger,
		},
		Gate:           &middleware.Gate{Sessions: sessions, Log: zapLogger, Secure: options.SecureCookies},
		Metrics:        metrics,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		Logger:         zapLogger,
		Timeout:        options.RequestTimeout,
	})

	server := &nethttp.Server{
		Addr:              options.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if options.TLSCert != "" {
			zapLogger.Info("starting HTTPS server", zap.String("addr", options.Port))
			errCh <- server.ListenAndServeTLS(options.TLSCert, options.TLSKey)
			return
		}
		zapLogger.Info("starting HTTP server", zap.String("addr", options.Port))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, nethttp.ErrServerClosed) {
			zapLogger.Fatal("server failed", zap.Error(err))
		}
	case <-ctx.Done():
		zapLogger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("graceful shutdown failed", zap.Error(err))
		}
	}
}
