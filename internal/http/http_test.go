package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/custodia/internal/config"
	mediaHTTP "github.com/custodia-labs/custodia/internal/media/http"
	mediaMocks "github.com/custodia-labs/custodia/internal/media/usecase/mocks"
	"github.com/custodia-labs/custodia/internal/metrics"
	walletDomain "github.com/custodia-labs/custodia/internal/wallet/domain"
	walletHTTP "github.com/custodia-labs/custodia/internal/wallet/http"
	walletMocks "github.com/custodia-labs/custodia/internal/wallet/usecase/mocks"
)

const testAddress = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

// TestMain sets Gin to test mode for all tests in this package.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestServer builds a fully routed server over mocked use cases.
func newTestServer(
	t *testing.T,
	cfg *config.Config,
	checks map[string]ReadinessCheck,
) (*Server, *walletMocks.MockWalletUseCase, *mediaMocks.MockMediaUseCase) {
	t.Helper()

	logger := discardLogger()
	walletUseCase := &walletMocks.MockWalletUseCase{}
	mediaUseCase := &mediaMocks.MockMediaUseCase{}

	server := NewServer(checks, "localhost", 0, logger)
	server.SetupRouter(
		cfg,
		walletHTTP.NewWalletHandler(walletUseCase, logger),
		mediaHTTP.NewMediaHandler(mediaUseCase, 1<<20, logger),
		nil,
	)

	return server, walletUseCase, mediaUseCase
}

func serve(handler http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	handler.ServeHTTP(w, req)
	return w
}

func TestServer_HealthAndReady(t *testing.T) {
	t.Run("Success_Healthy", func(t *testing.T) {
		server, _, _ := newTestServer(t, &config.Config{}, nil)

		w := serve(server.GetHandler(), http.MethodGet, "/health", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
	})

	t.Run("Success_ReadyWhenChecksPass", func(t *testing.T) {
		checks := map[string]ReadinessCheck{
			"docstore": func(ctx context.Context) error { return nil },
		}
		server, _, _ := newTestServer(t, &config.Config{}, checks)

		w := serve(server.GetHandler(), http.MethodGet, "/ready", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ready","components":{"docstore":"ok"}}`, w.Body.String())
	})

	t.Run("Error_NotReadyWhenCheckFails", func(t *testing.T) {
		checks := map[string]ReadinessCheck{
			"docstore": func(ctx context.Context) error { return errors.New("connection refused") },
		}
		server, _, _ := newTestServer(t, &config.Config{}, checks)

		w := serve(server.GetHandler(), http.MethodGet, "/ready", nil)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "not_ready", response["status"])
		assert.NotContains(t, w.Body.String(), "connection refused")
	})
}

func TestServer_Routes(t *testing.T) {
	t.Run("Success_WalletLookup", func(t *testing.T) {
		server, walletUseCase, _ := newTestServer(t, &config.Config{}, nil)

		walletUseCase.On("Resolve", mock.Anything, testAddress, "").
			Return(&walletDomain.Resolution{PublicKeyHex: "02ab"}, nil).
			Once()

		w := serve(server.GetHandler(), http.MethodGet, "/v1/wallets/"+testAddress, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
		_, err := uuid.Parse(w.Header().Get("X-Request-Id"))
		assert.NoError(t, err)
		walletUseCase.AssertExpectations(t)
	})

	t.Run("Success_MediaList", func(t *testing.T) {
		server, _, mediaUseCase := newTestServer(t, &config.Config{}, nil)

		mediaUseCase.On("List", mock.Anything, testAddress).Return([]string{"blob1"}, nil).Once()

		w := serve(server.GetHandler(), http.MethodGet, "/v1/media?address="+testAddress, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"address":"`+testAddress+`","blobIds":["blob1"]}`, w.Body.String())
	})

	t.Run("Error_UnknownRoute", func(t *testing.T) {
		server, _, _ := newTestServer(t, &config.Config{}, nil)

		w := serve(server.GetHandler(), http.MethodGet, "/v1/secrets", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Error_NoMetricsOnAPI", func(t *testing.T) {
		server, _, _ := newTestServer(t, &config.Config{}, nil)

		w := serve(server.GetHandler(), http.MethodGet, "/metrics", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Error_PanicBecomes500", func(t *testing.T) {
		server, walletUseCase, _ := newTestServer(t, &config.Config{}, nil)

		walletUseCase.On("Resolve", mock.Anything, testAddress, "").
			Run(func(args mock.Arguments) { panic("boom") }).
			Once()

		w := serve(server.GetHandler(), http.MethodGet, "/v1/wallets/"+testAddress, nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "boom")
	})
}

func TestServer_PasswordRoutesRateLimited(t *testing.T) {
	cfg := &config.Config{
		RateLimitEnabled:        true,
		RateLimitRequestsPerSec: 0.001,
		RateLimitBurst:          1,
	}
	server, _, mediaUseCase := newTestServer(t, cfg, nil)

	mediaUseCase.On("Share", mock.Anything, mock.Anything).Return(nil).Once()

	body := []byte(`{"address":"` + testAddress + `","passwordHash":"abc123","blobId":"b1",` +
		`"destinationAddress":"0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359"}`)

	first := serve(server.GetHandler(), http.MethodPost, "/v1/media/share", body)
	assert.Equal(t, http.StatusOK, first.Code)

	second := serve(server.GetHandler(), http.MethodPost, "/v1/media/share", body)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	mediaUseCase.AssertExpectations(t)
}

func TestServer_ShutdownGracefully(t *testing.T) {
	cfg := &config.Config{RateLimitEnabled: true, RateLimitRequestsPerSec: 1, RateLimitBurst: 1}
	server, _, _ := newTestServer(t, cfg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(ctx)
	}()

	time.Sleep(100 * time.Millisecond)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	require.NoError(t, server.Shutdown(shutdownCtx))
	assert.NoError(t, <-errChan)
}

func TestCustomLoggerMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	router := gin.New()
	router.Use(CustomLoggerMiddleware(logger))
	router.POST("/v1/media/download", func(c *gin.Context) {
		c.Status(http.StatusUnauthorized)
	})

	w := serve(router, http.MethodPost, "/v1/media/download?passwordHash=leak", []byte(`{"passwordHash":"secret"}`))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, buf.String(), `"status":401`)
	assert.Contains(t, buf.String(), `"path":"/v1/media/download"`)
	assert.NotContains(t, buf.String(), "leak")
	assert.NotContains(t, buf.String(), "secret")
}

func TestMetricsServer_Endpoints(t *testing.T) {
	provider, err := metrics.NewProvider("custodia_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	metricsServer := NewMetricsServer("localhost", 0, discardLogger(), provider)

	w := serve(metricsServer.GetHandler(), http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")

	w = serve(NewMetricsServer("localhost", 0, discardLogger(), nil).GetHandler(), http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
