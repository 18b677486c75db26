package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/custodia/internal/httputil"
	walletDomain "github.com/custodia-labs/custodia/internal/wallet/domain"
)

// maxKeyPeekBytes bounds the body of an address-keyed request. Download and share
// requests are a few hundred bytes.
const maxKeyPeekBytes = 16 << 10

// addressRateLimiter holds one token bucket per key.
//
// Password-bearing requests are keyed by the "address" field of their JSON body, so
// guessing passwords for one wallet is throttled no matter how many client IPs are
// used. Wallet creation carries no address and is keyed by client IP.
type addressRateLimiter struct {
	limiters sync.Map // map[string]*rateLimiterEntry
	rps      float64
	burst    int
	logger   *slog.Logger
}

// rateLimiterEntry holds a rate limiter and last access time for cleanup.
type rateLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
	mu         sync.Mutex
}

func newAddressRateLimiter(rps float64, burst int, logger *slog.Logger) *addressRateLimiter {
	return &addressRateLimiter{
		rps:    rps,
		burst:  burst,
		logger: logger,
	}
}

// byAddress limits requests per wallet address. The body is read whatever its
// Content-Type; one over maxKeyPeekBytes is rejected with 413 and one without a valid
// address with 400, so no request reaches the handler unthrottled.
func (l *addressRateLimiter) byAddress() gin.HandlerFunc {
	return func(c *gin.Context) {
		key, status, err := addressKey(c)
		if err != nil {
			l.logger.Debug("rate limit key rejected", slog.Any("error", err))
			c.AbortWithStatusJSON(status, httputil.ErrorResponse{
				Error:   "malformed_input",
				Message: err.Error(),
			})
			return
		}
		l.limit(c, key)
	}
}

// byClientIP limits requests per client IP.
func (l *addressRateLimiter) byClientIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		l.limit(c, "ip:"+c.ClientIP())
	}
}

// limit answers 429 Too Many Requests with a Retry-After header once key's bucket
// is empty.
func (l *addressRateLimiter) limit(c *gin.Context, key string) {
	limiter := l.getLimiter(key)

	if !limiter.Allow() {
		reservation := limiter.Reserve()
		retryAfter := int(reservation.Delay().Seconds())
		reservation.Cancel()

		l.logger.Debug("rate limit exceeded",
			slog.String("key", key),
			slog.Int("retry_after", retryAfter))

		c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, httputil.ErrorResponse{
			Error:   "rate_limit_exceeded",
			Message: "Too many attempts, retry after the specified delay",
		})
		return
	}

	c.Next()
}

// addressKey reads the body, restores it for the handler and returns the normalized
// address it names.
func addressKey(c *gin.Context) (string, int, error) {
	if c.Request.Body == nil {
		return "", http.StatusBadRequest, errors.New("request body is required")
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxKeyPeekBytes+1))
	if err != nil {
		return "", http.StatusBadRequest, fmt.Errorf("failed to read request body: %w", err)
	}
	if len(body) > maxKeyPeekBytes {
		return "", http.StatusRequestEntityTooLarge, fmt.Errorf("request body exceeds %d bytes", maxKeyPeekBytes)
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	var fields struct {
		Address string `json:"address"`
	}
	if err := json.Unmarshal(body, &fields); err != nil {
		return "", http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err)
	}
	address, err := walletDomain.NormalizeAddress(fields.Address)
	if err != nil {
		return "", http.StatusBadRequest, err
	}
	return "address:" + address, 0, nil
}

// getLimiter retrieves or creates the limiter for key.
func (l *addressRateLimiter) getLimiter(key string) *rate.Limiter {
	if val, ok := l.limiters.Load(key); ok {
		entry := val.(*rateLimiterEntry)
		entry.mu.Lock()
		entry.lastAccess = time.Now()
		entry.mu.Unlock()
		return entry.limiter
	}

	entry := &rateLimiterEntry{
		limiter:    rate.NewLimiter(rate.Limit(l.rps), l.burst),
		lastAccess: time.Now(),
	}
	actual, _ := l.limiters.LoadOrStore(key, entry)
	return actual.(*rateLimiterEntry).limiter
}

// cleanupStale drops limiters idle for an hour, checking every interval until ctx
// is done.
func (l *addressRateLimiter) cleanupStale(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.sweep(time.Now().Add(-1 * time.Hour))
		}
	}
}

func (l *addressRateLimiter) sweep(threshold time.Time) {
	l.limiters.Range(func(key, value any) bool {
		entry := value.(*rateLimiterEntry)
		entry.mu.Lock()
		stale := entry.lastAccess.Before(threshold)
		entry.mu.Unlock()

		if stale {
			l.limiters.Delete(key)
		}
		return true
	})
}
