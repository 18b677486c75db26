package usecase

import (
	"context"
	"time"

	"github.com/custodia-labs/custodia/internal/metrics"
	walletDomain "github.com/custodia-labs/custodia/internal/wallet/domain"
)

// walletUseCaseWithMetrics decorates WalletUseCase with metrics instrumentation.
type walletUseCaseWithMetrics struct {
	next    WalletUseCase
	metrics metrics.BusinessMetrics
}

// NewWalletUseCaseWithMetrics wraps a WalletUseCase with metrics recording.
func NewWalletUseCaseWithMetrics(useCase WalletUseCase, m metrics.BusinessMetrics) WalletUseCase {
	return &walletUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Create records metrics for wallet creation.
func (w *walletUseCaseWithMetrics) Create(
	ctx context.Context,
	passwordHash string,
) (*walletDomain.CreatedWallet, error) {
	start := time.Now()
	created, err := w.next.Create(ctx, passwordHash)

	w.record(ctx, "wallet_create", start, err)
	return created, err
}

// Resolve records metrics for wallet resolution. Public-only and unlocking
// resolutions are recorded as separate operations.
func (w *walletUseCaseWithMetrics) Resolve(
	ctx context.Context,
	address, passwordHash string,
) (*walletDomain.Resolution, error) {
	start := time.Now()
	resolution, err := w.next.Resolve(ctx, address, passwordHash)

	operation := "wallet_unlock"
	if passwordHash == "" {
		operation = "wallet_lookup"
	}
	w.record(ctx, operation, start, err)
	return resolution, err
}

func (w *walletUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	w.metrics.RecordOperation(ctx, "wallets", operation, status)
	w.metrics.RecordDuration(ctx, "wallets", operation, time.Since(start), status)
}
