// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/custodia-labs/custodia/internal/blobstore"
	"github.com/custodia-labs/custodia/internal/config"
	cryptoService "github.com/custodia-labs/custodia/internal/crypto/service"
	"github.com/custodia-labs/custodia/internal/docstore"
	"github.com/custodia-labs/custodia/internal/http"
	mediaHTTP "github.com/custodia-labs/custodia/internal/media/http"
	mediaUseCase "github.com/custodia-labs/custodia/internal/media/usecase"
	"github.com/custodia-labs/custodia/internal/metrics"
	reconcileUseCase "github.com/custodia-labs/custodia/internal/reconcile/usecase"
	walletHTTP "github.com/custodia-labs/custodia/internal/wallet/http"
	walletUseCase "github.com/custodia-labs/custodia/internal/wallet/usecase"
)

// Container holds all application dependencies and provides methods to access them.
// Components are created on first access and cached; an initialization error is
// cached as well and returned on every later call.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger     *slog.Logger
	db         *sql.DB
	mongoStore *docstore.MongoStore
	bucket     *blobstore.BucketStore
	docStore   docstore.Store
	blobStore  blobstore.Store

	// Metrics
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Services
	seedVault      cryptoService.SeedVault
	contentCipher  cryptoService.ContentCipher
	keyWrapper     cryptoService.KeyWrapper
	walletProvider walletUseCase.WalletProvider

	// Repositories
	walletRepository walletUseCase.WalletRepository
	mediaRepository  mediaUseCase.MediaRepository
	entryRepository  reconcileUseCase.EntryRepository

	// Use Cases
	walletUseCase    walletUseCase.WalletUseCase
	mediaUseCase     mediaUseCase.MediaUseCase
	reconcileUseCase *reconcileUseCase.ReconcileUseCase

	// Handlers
	walletHandler *walletHTTP.WalletHandler
	mediaHandler  *mediaHTTP.MediaHandler

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                   sync.Mutex
	loggerInit           sync.Once
	dbInit               sync.Once
	docStoreInit         sync.Once
	blobStoreInit        sync.Once
	metricsProviderInit  sync.Once
	businessMetricsInit  sync.Once
	seedVaultInit        sync.Once
	contentCipherInit    sync.Once
	keyWrapperInit       sync.Once
	walletProviderInit   sync.Once
	walletRepositoryInit sync.Once
	mediaRepositoryInit  sync.Once
	entryRepositoryInit  sync.Once
	walletUseCaseInit    sync.Once
	mediaUseCaseInit     sync.Once
	reconcileUseCaseInit sync.Once
	walletHandlerInit    sync.Once
	mediaHandlerInit     sync.Once
	httpServerInit       sync.Once
	metricsServerInit    sync.Once
	initErrors           map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = c.initMetricsProvider()
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the use case metrics, a no-op when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// HTTPServer returns the API server with its router configured.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown releases every initialized resource. Servers are stopped before the
// stores they depend on.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.mongoStore != nil {
		if err := c.mongoStore.Close(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("mongo close: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if c.bucket != nil {
		if err := c.bucket.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("bucket close: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	return errors.Join(shutdownErrors...)
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initMetricsProvider creates the OpenTelemetry provider when metrics are enabled.
func (c *Container) initMetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}
	provider, err := metrics.NewProvider(c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics provider: %w", err)
	}
	return provider, nil
}

// initBusinessMetrics creates the use case instruments on the metrics provider.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return businessMetrics, nil
}

// initHTTPServer creates the API server and registers its routes.
func (c *Container) initHTTPServer() (*http.Server, error) {
	store, err := c.DocStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get document store for http server: %w", err)
	}

	walletHandler, err := c.WalletHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet handler for http server: %w", err)
	}

	mediaHandler, err := c.MediaHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get media handler for http server: %w", err)
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	server := http.NewServer(
		map[string]http.ReadinessCheck{"docstore": store.Ping},
		c.config.ServerHost,
		c.config.ServerPort,
		c.Logger(),
	)
	server.SetupRouter(c.config, walletHandler, mediaHandler, provider)
	return server, nil
}

// initMetricsServer creates the server that exposes /metrics.
func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}
	return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider), nil
}
