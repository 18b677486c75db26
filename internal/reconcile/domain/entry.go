// Package domain defines reconciliation entries: records of multi-step operations
// that stopped part way and need their remaining step replayed.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/custodia/internal/errors"
)

// Collection returns the document store collection holding entries in status,
// keyed by id. Each status has its own collection so the worker reads only pending
// entries.
func Collection(status Status) string {
	return "reconciliation/" + string(status)
}

// KindMediaMetadata marks an upload whose blob was stored but whose media record
// was not written. The payload is the media record.
const KindMediaMetadata = "media_metadata"

// Status represents the state of an entry.
type Status string

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusPending, StatusProcessed, StatusFailed}

const (
	StatusPending   Status = "pending"
	StatusProcessed Status = "processed"
	StatusFailed    Status = "failed"
)

// ErrInvalidStatus indicates a status filter that is not one of the known statuses.
var ErrInvalidStatus = errors.Wrap(errors.ErrInvalidInput, "invalid reconciliation status")

// Entry is one unfinished operation. Payload never contains secret material.
type Entry struct {
	ID          uuid.UUID  `json:"id"                    bson:"id"`
	Kind        string     `json:"kind"                  bson:"kind"`
	Address     string     `json:"address"               bson:"address"`
	BlobID      string     `json:"blobId"                bson:"blobId"`
	Payload     string     `json:"payload"               bson:"payload"`
	Status      Status     `json:"status"                bson:"status"`
	Retries     int        `json:"retries"               bson:"retries"`
	LastError   *string    `json:"lastError,omitempty"   bson:"lastError,omitempty"`
	ProcessedAt *time.Time `json:"processedAt,omitempty" bson:"processedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"             bson:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"             bson:"updatedAt"`
}

// ParseStatus validates s. An empty string means no filter.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case "", StatusPending, StatusProcessed, StatusFailed:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}
