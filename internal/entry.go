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
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/ansuz/internal/dataset"
	"github.com/starford/ansuz/internal/media"
	"github.com/starford/ansuz/internal/mcpserver"
	"github.com/starford/ansuz/internal/preview"
	"github.com/starford/ansuz/internal/sse"
	"github.com/starford/ansuz/internal/storage"
	"github.com/starford/ansuz/internal/vault"
)

// Run executes an export with the given options. With watch or serve
// enabled the process stays alive: rebuilding on vault changes and/or
// serving the preview API until a shutdown signal arrives.
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
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel(),
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("output_path", cfg.Export.OutputPath),
		slog.Int("verbosity", cfg.App.Verbosity))

	info, err := os.Stat(cfg.Vault.Path)
	if err != nil {
		return fmt.Errorf("vault directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("vault path %s is not a directory", cfg.Vault.Path)
	}

	store, err := storage.NewFS(cfg.Vault.Path)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	exporter := vault.NewExporter(store, logger, exportOptions(cfg, logger))

	if _, err := exporter.Run(ctx); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	if !app.watch && !app.serve {
		return nil
	}

	svc := dataset.NewService(cfg.Export.OutputPath)
	if err := svc.Reload(); err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	var broker *sse.Broker
	var httpServer *http.Server
	if app.serve {
		broker = sse.NewBroker()
		defer broker.Close()

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.RealIP)
		r.Use(middleware.Logger)
		r.Use(middleware.Recoverer)

		r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
		r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})

		r.Mount("/", preview.NewRouter(svc, filepath.Dir(cfg.Export.OutputPath), broker))

		httpServer = &http.Server{
			Addr:    cfg.Serve.Address(),
			Handler: r,
		}
	}

	g, gCtx := errgroup.WithContext(ctx)

	if app.watch {
		g.Go(func() error {
			return exporter.Watch(gCtx, func(report *vault.Report) {
				if reloadErr := svc.Reload(); reloadErr != nil {
					logger.Warn("dataset reload failed", slog.String("error", reloadErr.Error()))
					return
				}
				if broker != nil {
					broker.PublishRebuild(report.Pages)
				}
			})
		})
	}

	if httpServer != nil {
		g.Go(func() error {
			logger.Info("Starting preview server", slog.String("address", cfg.Serve.Address()))
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("HTTP server error: %w", err)
			}
			return nil
		})
	}

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

		if httpServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Stopped")
	return nil
}

// RunMCP serves the exported dataset over MCP stdio. A missing dataset
// triggers one export before serving.
func RunMCP(ctx context.Context, opts ...Option) error {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	// Logs must stay off stdout: the MCP transport owns it.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel(),
	}))
	slog.SetDefault(logger)

	svc := dataset.NewService(cfg.Export.OutputPath)
	if err := svc.Reload(); err != nil {
		store, storeErr := storage.NewFS(cfg.Vault.Path)
		if storeErr != nil {
			return fmt.Errorf("init storage: %w", storeErr)
		}
		exporter := vault.NewExporter(store, logger, exportOptions(cfg, logger))
		if _, runErr := exporter.Run(ctx); runErr != nil {
			return fmt.Errorf("export: %w", runErr)
		}
		if err := svc.Reload(); err != nil {
			return fmt.Errorf("load dataset: %w", err)
		}
	}

	logger.Info("Starting MCP server on stdio")
	return mcpserver.New(svc).ServeStdio()
}

// exportOptions maps the file/flag configuration onto one run's options.
func exportOptions(cfg *Config, logger *slog.Logger) vault.Options {
	return vault.Options{
		OutputPath:       cfg.Export.OutputPath,
		MediaResultsPath: cfg.Export.MediaResultsPath,
		NotePrefix:       cfg.Export.NotePrefix,
		SkipMedia:        cfg.Media.Skip,
		Media: media.PipelineOptions{
			OutputDir:      cfg.Media.OutputDir,
			PathPrefix:     cfg.Media.Prefix,
			Domain:         cfg.Export.Domain,
			Sizes:          cfg.Media.Sizes,
			Formats:        cfg.Media.Formats,
			OptimizeImages: cfg.Media.Optimize,
			SkipExisting:   cfg.Media.SkipExisting,
			ForceReprocess: cfg.Media.Force,
			Progress: func(current, total int, file string) {
				logger.Debug("media: processing",
					slog.Int("current", current),
					slog.Int("total", total),
					slog.String("file", file))
			},
		},
		Resolve: media.ResolveOptions{
			PreferredSize:    cfg.Media.PreferredSize,
			UseAbsolutePaths: cfg.Export.Domain != "",
			Placeholder:      cfg.Media.Placeholder,
		},
	}
}
