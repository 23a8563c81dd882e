// Package main initializes and starts the course catalog server, setting up
// configuration, logging, the catalog store, sessions, handlers and
// (optionally) TLS.
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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/atinyakov/CourseKeeper/internal/config"
	"github.com/atinyakov/CourseKeeper/internal/logger"
	"github.com/atinyakov/CourseKeeper/internal/metrics"
	"github.com/atinyakov/CourseKeeper/internal/repository"
	"github.com/atinyakov/CourseKeeper/internal/server/handler/http"
	"github.com/atinyakov/CourseKeeper/internal/service"
	"github.com/atinyakov/CourseKeeper/internal/session"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line, config file and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Load the catalog; a malformed file is fatal.
	catalogRepo := repository.NewCatalogRepository(options.CatalogFile)
	if err := catalogRepo.Load(); err != nil {
		zapLogger.Fatal("cannot load catalog", zap.String("file", options.CatalogFile), zap.Error(err))
	}
	zapLogger.Info("catalog loaded",
		zap.String("file", options.CatalogFile),
		zap.Int("courses", len(catalogRepo.Codes())),
	)
	attachmentRepo := repository.NewAttachmentRepository(options.AttachmentsDir)

	// Initialize business-logic services.
	catalogService := service.NewCatalogService(catalogRepo, attachmentRepo)
	authService := service.NewAuthService(service.Credentials{
		Username:     options.AdminUser,
		Password:     options.AdminPassword,
		PasswordHash: options.AdminPasswordHash,
	})
	sessionController := service.NewSessionController(authService, catalogService)
	sessions := session.NewStore(options.SessionTTL)

	// Metrics registry with runtime collectors.
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(reg)

	// Create HTTP handlers.
	authHandler := &http.AuthHandler{Sessions: sessionController, Metrics: appMetrics, Logger: zapLogger}
	catalogHandler := &http.CatalogHandler{Catalog: catalogService, Sessions: sessionController, Metrics: appMetrics, Logger: zapLogger}
	filesHandler := &http.FilesHandler{Catalog: catalogService, Files: attachmentRepo, Metrics: appMetrics, Logger: zapLogger}

	// Build the router with middleware and routes.
	router := http.NewRouter(
		authHandler,
		catalogHandler,
		filesHandler,
		sessions,
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		zapLogger,
	)

	server := &nethttp.Server{
		Addr:              options.Addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		var err error
		if options.TLSCert != "" {
			zapLogger.Info("starting HTTPS server", zap.String("addr", options.Addr))
			err = server.ListenAndServeTLS(options.TLSCert, options.TLSKey)
		} else {
			zapLogger.Info("starting HTTP server", zap.String("addr", options.Addr))
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			zapLogger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-done
	zapLogger.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		zapLogger.Error("graceful shutdown failed", zap.Error(err))
		_ = server.Close()
	}
	zapLogger.Info("server stopped")
}
