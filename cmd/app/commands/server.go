package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/custodia/internal/app"
	"github.com/custodia-labs/custodia/internal/config"
)

// service is a long running server that stops when Shutdown is called.
type service interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// worker is a loop that stops when its context is cancelled.
type worker interface {
	Start(ctx context.Context) error
}

// RunServer starts the API server, the metrics server and the reconciliation worker.
// Blocks until SIGINT/SIGTERM or until one of them fails, then stops the rest within
// SHUTDOWN_TIMEOUT_SECONDS.
func RunServer(ctx context.Context, version string) error {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on log level
	gin.SetMode(cfg.GetGinMode())

	// Create DI container
	container := app.NewContainer(cfg)

	logger := container.Logger()
	logger.Info("starting server", slog.String("version", version))

	// Ensure cleanup on exit
	defer closeContainer(container, logger)

	// Get HTTP server from container (this initializes all dependencies)
	server, err := container.HTTPServer()
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	services := []service{server}

	if cfg.MetricsEnabled {
		metricsServer, err := container.MetricsServer()
		if err != nil {
			return fmt.Errorf("failed to initialize metrics server: %w", err)
		}
		services = append(services, metricsServer)
	}

	reconciler, err := container.ReconcileUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize reconciliation worker: %w", err)
	}

	// Setup graceful shutdown
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return serve(ctx, cfg.ShutdownTimeout, logger, services, reconciler)
}

// serve runs every service and the worker until ctx is done or one of them fails.
// Services are then shut down with a fresh context bounded by shutdownTimeout.
func serve(
	ctx context.Context,
	shutdownTimeout time.Duration,
	logger *slog.Logger,
	services []service,
	w worker,
) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, s := range services {
		g.Go(func() error {
			return s.Start(gctx)
		})
	}

	g.Go(func() error {
		if err := w.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("reconciliation worker error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			logger.Info("shutdown signal received")
		} else {
			logger.Error("server error, initiating shutdown")
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		var shutdownErrors []error
		for _, s := range services {
			if err := s.Shutdown(shutdownCtx); err != nil {
				shutdownErrors = append(shutdownErrors, err)
			}
		}
		return errors.Join(shutdownErrors...)
	})

	return g.Wait()
}
