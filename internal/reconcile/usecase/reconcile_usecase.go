// Package usecase replays the unfinished second step of multi-step operations.
//
// Upload writes the ciphertext blob and then the media record. When the record
// write fails the blob is orphaned; the upload records an entry here and the
// worker retries the record write until it succeeds or the retry budget is spent.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/custodia/internal/metrics"
	"github.com/custodia-labs/custodia/internal/reconcile/domain"
)

// Config holds reconciliation worker configuration.
type Config struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
}

// EntryRepository defines entry persistence operations.
type EntryRepository interface {
	Create(ctx context.Context, entry *domain.Entry) error
	Update(ctx context.Context, entry *domain.Entry) error
	ListByStatus(ctx context.Context, status domain.Status, limit int) ([]*domain.Entry, error)
}

// EntryProcessor replays the pending step of one entry. It must be idempotent.
type EntryProcessor interface {
	Process(ctx context.Context, entry *domain.Entry) error
}

// UseCase defines the reconciliation operations.
type UseCase interface {
	// Record stores a new pending entry. ID and timestamps are filled in when unset.
	Record(ctx context.Context, entry *domain.Entry) error

	// ProcessPending runs one pass over pending entries and returns how many were
	// processed successfully.
	ProcessPending(ctx context.Context) (int, error)

	// Start runs ProcessPending on every tick until ctx is cancelled.
	Start(ctx context.Context) error

	// List returns entries with status, or every entry when status is empty.
	List(ctx context.Context, status domain.Status) ([]*domain.Entry, error)
}

// ReconcileUseCase implements UseCase.
type ReconcileUseCase struct {
	config     Config
	entryRepo  EntryRepository
	processors map[string]EntryProcessor
	metrics    metrics.BusinessMetrics
	logger     *slog.Logger
}

// NewReconcileUseCase creates a new ReconcileUseCase. processors maps entry kinds
// to the processor that replays them.
func NewReconcileUseCase(
	config Config,
	entryRepo EntryRepository,
	processors map[string]EntryProcessor,
	logger *slog.Logger,
) *ReconcileUseCase {
	return &ReconcileUseCase{
		config:     config,
		entryRepo:  entryRepo,
		processors: processors,
		metrics:    metrics.NewNoOpBusinessMetrics(),
		logger:     logger,
	}
}

// WithMetrics records the outcome of every replayed entry under the "reconcile" domain.
func (uc *ReconcileUseCase) WithMetrics(m metrics.BusinessMetrics) *ReconcileUseCase {
	uc.metrics = m
	return uc
}

// Record stores entry as pending.
func (uc *ReconcileUseCase) Record(ctx context.Context, entry *domain.Entry) error {
	now := time.Now().UTC()
	if entry.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		entry.ID = id
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now
	entry.Status = domain.StatusPending

	if err := uc.entryRepo.Create(ctx, entry); err != nil {
		return err
	}

	if uc.logger != nil {
		uc.logger.Warn("recorded reconciliation entry",
			slog.String("entry_id", entry.ID.String()),
			slog.String("kind", entry.Kind),
			slog.String("address", entry.Address),
			slog.String("blob_id", entry.BlobID),
		)
	}
	return nil
}

// Start starts the reconciliation loop.
func (uc *ReconcileUseCase) Start(ctx context.Context) error {
	if uc.logger != nil {
		uc.logger.Info("starting reconciliation worker",
			slog.Duration("interval", uc.config.Interval),
			slog.Int("batch_size", uc.config.BatchSize),
		)
	}

	ticker := time.NewTicker(uc.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if uc.logger != nil {
				uc.logger.Info("stopping reconciliation worker")
			}
			return ctx.Err()
		case <-ticker.C:
			if _, err := uc.ProcessPending(ctx); err != nil && uc.logger != nil {
				uc.logger.Error("failed to process reconciliation entries", slog.Any("error", err))
			}
		}
	}
}

// ProcessPending replays one batch of pending entries.
func (uc *ReconcileUseCase) ProcessPending(ctx context.Context) (int, error) {
	entries, err := uc.entryRepo.ListByStatus(ctx, domain.StatusPending, uc.config.BatchSize)
	if err != nil {
		return 0, err
	}

	if len(entries) == 0 {
		return 0, nil
	}

	if uc.logger != nil {
		uc.logger.Info("processing reconciliation entries", slog.Int("count", len(entries)))
	}

	processed := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return processed, err
		}

		start := time.Now()
		now := start.UTC()
		entry.UpdatedAt = now

		if err := uc.process(ctx, entry); err != nil {
			if uc.logger != nil {
				uc.logger.Error("failed to process reconciliation entry",
					slog.String("entry_id", entry.ID.String()),
					slog.String("kind", entry.Kind),
					slog.Any("error", err),
				)
			}

			entry.Retries++
			errorMsg := err.Error()
			entry.LastError = &errorMsg

			outcome := "error"
			if entry.Retries >= uc.config.MaxRetries {
				entry.Status = domain.StatusFailed
				outcome = string(domain.StatusFailed)
			}
			uc.record(ctx, start, outcome)

			if err := uc.entryRepo.Update(ctx, entry); err != nil {
				return processed, err
			}
			continue
		}

		entry.Status = domain.StatusProcessed
		entry.ProcessedAt = &now
		uc.record(ctx, start, "success")

		if err := uc.entryRepo.Update(ctx, entry); err != nil {
			return processed, err
		}
		processed++
	}

	return processed, nil
}

// List returns entries filtered by status.
func (uc *ReconcileUseCase) List(ctx context.Context, status domain.Status) ([]*domain.Entry, error) {
	return uc.entryRepo.ListByStatus(ctx, status, 0)
}

func (uc *ReconcileUseCase) process(ctx context.Context, entry *domain.Entry) error {
	processor, ok := uc.processors[entry.Kind]
	if !ok {
		return fmt.Errorf("no processor for entry kind %q", entry.Kind)
	}
	return processor.Process(ctx, entry)
}

func (uc *ReconcileUseCase) record(ctx context.Context, start time.Time, status string) {
	uc.metrics.RecordOperation(ctx, "reconcile", "entry_replay", status)
	uc.metrics.RecordDuration(ctx, "reconcile", "entry_replay", time.Since(start), status)
}
