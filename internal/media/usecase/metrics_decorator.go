package usecase

import (
	"context"
	"time"

	mediaDomain "github.com/custodia-labs/custodia/internal/media/domain"
	"github.com/custodia-labs/custodia/internal/metrics"
)

// mediaUseCaseWithMetrics decorates MediaUseCase with metrics instrumentation.
type mediaUseCaseWithMetrics struct {
	next    MediaUseCase
	metrics metrics.BusinessMetrics
}

// NewMediaUseCaseWithMetrics wraps a MediaUseCase with metrics recording.
func NewMediaUseCaseWithMetrics(useCase MediaUseCase, m metrics.BusinessMetrics) MediaUseCase {
	return &mediaUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Upload records metrics for media uploads.
func (m *mediaUseCaseWithMetrics) Upload(ctx context.Context, input *mediaDomain.UploadInput) (string, error) {
	start := time.Now()
	blobID, err := m.next.Upload(ctx, input)
	m.record(ctx, "media_upload", start, err)
	return blobID, err
}

// Download records metrics for media downloads.
func (m *mediaUseCaseWithMetrics) Download(
	ctx context.Context,
	address, passwordHash, blobID string,
) (*mediaDomain.Media, error) {
	start := time.Now()
	media, err := m.next.Download(ctx, address, passwordHash, blobID)
	m.record(ctx, "media_download", start, err)
	return media, err
}

// List records metrics for media listing.
func (m *mediaUseCaseWithMetrics) List(ctx context.Context, address string) ([]string, error) {
	start := time.Now()
	ids, err := m.next.List(ctx, address)
	m.record(ctx, "media_list", start, err)
	return ids, err
}

// Share records metrics for media sharing.
func (m *mediaUseCaseWithMetrics) Share(ctx context.Context, input *mediaDomain.ShareInput) error {
	start := time.Now()
	err := m.next.Share(ctx, input)
	m.record(ctx, "media_share", start, err)
	return err
}

func (m *mediaUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	m.metrics.RecordOperation(ctx, "media", operation, status)
	m.metrics.RecordDuration(ctx, "media", operation, time.Since(start), status)
}
