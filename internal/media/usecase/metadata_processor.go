package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	mediaDomain "github.com/custodia-labs/custodia/internal/media/domain"
	reconcileDomain "github.com/custodia-labs/custodia/internal/reconcile/domain"
)

// MetadataProcessor replays the media record write of an interrupted upload.
type MetadataProcessor struct {
	mediaRepo MediaRepository
}

// NewMetadataProcessor creates a new MetadataProcessor.
func NewMetadataProcessor(mediaRepo MediaRepository) *MetadataProcessor {
	return &MetadataProcessor{mediaRepo: mediaRepo}
}

// Process writes the record carried by entry. Record writes are upserts, so
// replaying an entry that already succeeded is harmless.
func (p *MetadataProcessor) Process(ctx context.Context, entry *reconcileDomain.Entry) error {
	var record mediaDomain.MediaRecord
	if err := json.Unmarshal([]byte(entry.Payload), &record); err != nil {
		return fmt.Errorf("failed to decode media record: %w", err)
	}
	if record.BlobID != entry.BlobID {
		return fmt.Errorf("payload blob id %q does not match entry blob id %q", record.BlobID, entry.BlobID)
	}
	return p.mediaRepo.Create(ctx, entry.Address, &record)
}
