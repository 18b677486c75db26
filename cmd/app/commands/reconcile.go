package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	reconcileDomain "github.com/custodia-labs/custodia/internal/reconcile/domain"
	reconcileUseCase "github.com/custodia-labs/custodia/internal/reconcile/usecase"
)

// RunReconcile runs a single pass over pending reconciliation entries.
func RunReconcile(
	ctx context.Context,
	reconciler reconcileUseCase.UseCase,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	processed, err := reconciler.ProcessPending(ctx)
	if err != nil {
		return fmt.Errorf("failed to process reconciliation entries: %w", err)
	}

	logger.Info("reconciliation pass completed", slog.Int("processed", processed))

	if format == "json" {
		return writeJSON(writer, map[string]any{"processed": processed})
	}
	_, err = fmt.Fprintf(writer, "Processed %d pending reconciliation entries\n", processed)
	return err
}

// RunListReconciliation prints reconciliation entries, filtered by status when one
// is given.
func RunListReconciliation(
	ctx context.Context,
	reconciler reconcileUseCase.UseCase,
	writer io.Writer,
	status string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	filter, err := reconcileDomain.ParseStatus(status)
	if err != nil {
		return fmt.Errorf("invalid status %q (valid options: pending, processed, failed): %w", status, err)
	}

	entries, err := reconciler.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to list reconciliation entries: %w", err)
	}

	if format == "json" {
		if entries == nil {
			entries = []*reconcileDomain.Entry{}
		}
		return writeJSON(writer, entries)
	}

	if len(entries) == 0 {
		_, err = fmt.Fprintln(writer, "No reconciliation entries found")
		return err
	}

	for _, entry := range entries {
		lastError := "-"
		if entry.LastError != nil {
			lastError = *entry.LastError
		}
		if _, err := fmt.Fprintf(
			writer,
			"%s  %-9s  %-14s  retries=%d  address=%s  blob=%s  created=%s  error=%s\n",
			entry.ID,
			entry.Status,
			entry.Kind,
			entry.Retries,
			entry.Address,
			entry.BlobID,
			entry.CreatedAt.Format(time.RFC3339),
			lastError,
		); err != nil {
			return err
		}
	}
	return nil
}
