// Package http provides the API server, its router and shared middleware.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/custodia-labs/custodia/internal/config"
	"github.com/custodia-labs/custodia/internal/httputil"
	mediaHTTP "github.com/custodia-labs/custodia/internal/media/http"
	"github.com/custodia-labs/custodia/internal/metrics"
	walletHTTP "github.com/custodia-labs/custodia/internal/wallet/http"
)

const readinessTimeout = 2 * time.Second

// ReadinessCheck reports whether a backend the API depends on is reachable.
type ReadinessCheck func(ctx context.Context) error

// Server is the API HTTP server.
type Server struct {
	server      *http.Server
	router      *gin.Engine
	checks      map[string]ReadinessCheck
	rateLimiter *addressRateLimiter
	logger      *slog.Logger
}

// NewServer creates a new API server. checks are consulted by /ready, keyed by the
// component name reported in the response.
func NewServer(
	checks map[string]ReadinessCheck,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		checks: checks,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter registers middleware and every API route.
//
// When cfg.RateLimitEnabled is set, download and share are rate limited per wallet
// address and wallet creation per client IP. metricsProvider may be nil.
func (s *Server) SetupRouter(
	cfg *config.Config,
	walletHandler *walletHTTP.WalletHandler,
	mediaHandler *mediaHTTP.MediaHandler,
	metricsProvider *metrics.Provider,
) {
	router := gin.New()
	router.Use(gin.CustomRecovery(s.recoveryHandler))
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	var createRoute, passwordRoute gin.HandlerFunc = passThrough, passThrough
	if cfg.RateLimitEnabled {
		s.rateLimiter = newAddressRateLimiter(cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger)
		createRoute = s.rateLimiter.byClientIP()
		passwordRoute = s.rateLimiter.byAddress()
	}

	v1 := router.Group("/v1")

	wallets := v1.Group("/wallets")
	{
		wallets.POST("", createRoute, walletHandler.CreateHandler)
		wallets.GET("/:address", walletHandler.GetHandler)
	}

	media := v1.Group("/media")
	{
		media.GET("", mediaHandler.ListHandler)
		media.POST("", mediaHandler.UploadHandler)
		media.POST("/download", passwordRoute, mediaHandler.DownloadHandler)
		media.POST("/share", passwordRoute, mediaHandler.ShareHandler)
	}

	s.router = router
}

func passThrough(c *gin.Context) { c.Next() }

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called. The rate limiter's stale entry sweep runs
// until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.router

	if s.rateLimiter != nil {
		go s.rateLimiter.cleanupStale(ctx, 5*time.Minute)
	}

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler runs every readiness check and reports each component.
func (s *Server) readinessHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	ready := true
	components := make(map[string]string, len(s.checks))
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			s.logger.Warn("readiness check failed", slog.String("component", name), slog.Any("error", err))
			components[name] = "error"
			ready = false
			continue
		}
		components[name] = "ok"
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "components": components})
}

// recoveryHandler turns a panic into a 500 without leaking its value to the client.
func (s *Server) recoveryHandler(c *gin.Context, recovered any) {
	s.logger.Error("panic recovered",
		slog.Any("error", recovered),
		slog.String("path", c.Request.URL.Path),
		slog.String("method", c.Request.Method),
	)
	c.AbortWithStatusJSON(http.StatusInternalServerError, httputil.ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
