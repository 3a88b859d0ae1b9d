// Package app wires configuration, logging, services, middleware and
// HTTP transport into a runnable application.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"revxcli/internal/config"
	"revxcli/internal/exporter"
	"revxcli/internal/loader"
	custommiddleware "revxcli/internal/middleware"
	"revxcli/internal/services"
	transporthttp "revxcli/internal/transport/http"
)

// Application owns the HTTP server and its collaborators.
type Application struct {
	Config *config.Config
	Logger *slog.Logger
	Server *http.Server

	comparisonService *services.ComparisonService
}

// NewApplication assembles the application from configuration.
func NewApplication(cfg *config.Config, logger *slog.Logger) *Application {
	if logger == nil {
		logger = slog.Default()
	}

	app := &Application{
		Config:            cfg,
		Logger:            logger,
		comparisonService: services.NewComparisonService(cfg.Analysis, logger),
	}

	app.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return app
}

func (a *Application) router() chi.Router {
	r := chi.NewRouter()

	r.Use(custommiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(custommiddleware.StructuredLogger(a.Logger))
	r.Use(custommiddleware.Recoverer(a.Logger))
	if a.Config.Server.RateLimit.Enabled {
		limiter := custommiddleware.NewRateLimiter(a.Config.Server.RateLimit.RPS, a.Config.Server.RateLimit.Burst, a.Logger)
		r.Use(limiter.Handler)
	}

	compareHandler := transporthttp.NewCompareHandler(
		a.comparisonService,
		loader.New(a.Logger),
		exporter.NewResultsExporter(exporter.NewCSVWriter(a.Logger)),
		a.Config.Server.MaxUploadBytes,
		a.Logger,
	)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/health", transporthttp.NewHealthHandler().Routes())
		r.Mount("/compare", compareHandler.Routes())
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// Start runs the HTTP server until the context is canceled, then shuts
// down gracefully within the configured timeout.
func (a *Application) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("http server listening",
			slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	a.Logger.Info("shutting down http server")
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
