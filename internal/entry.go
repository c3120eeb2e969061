// Package internal provides the main application initialization and runtime logic.
package internal

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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"github.com/starford/sowilo/internal/api"
	"github.com/starford/sowilo/internal/docservice"
	"github.com/starford/sowilo/internal/render"
	"github.com/starford/sowilo/internal/sse"
	"github.com/starford/sowilo/internal/storage"
	"github.com/starford/sowilo/internal/viewer"
	"github.com/starford/sowilo/internal/watch"
	"github.com/starford/sowilo/internal/web"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("docs_path", cfg.Docs.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure documents directory exists.
	if err := os.MkdirAll(cfg.Docs.Path, 0o755); err != nil {
		return fmt.Errorf("create docs dir: %w", err)
	}

	store := app.store
	if store == nil {
		fsStore, err := storage.NewFS(cfg.Docs.Path)
		if err != nil {
			return fmt.Errorf("init storage: %w", err)
		}
		store = fsStore
	}

	// Document service.
	svc := docservice.New(store, render.New())

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)

	// Display processor and web UI.
	processor := viewer.NewProcessor(viewer.NewMermaidRenderer())
	ui, err := web.NewHandler(svc, processor)
	if err != nil {
		return fmt.Errorf("init web ui: %w", err)
	}

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoint.
	r.Get("/health", api.Health)

	// Mount API routes under /api, the browser UI at the root.
	r.Mount("/api", api.NewRouter(svc, broker))
	r.Mount("/", ui.Routes())

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept", "If-None-Match", "Last-Event-ID"},
	})

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: corsHandler.Handler(r),
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start file watcher with SSE callback. A watcher failure costs live
	// reload, not the server.
	g.Go(func() error {
		if err := watch.Watch(gCtx, cfg.Docs.Path, logger, func(kind, path string) {
			broker.PublishDocEvent(kind, path)
		}); err != nil {
			logger.Warn("file watcher stopped", slog.String("error", err.Error()))
		}
		return nil
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		broker.Close()

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
