// Package usecase implements encrypted media storage: upload under the owner's own
// public key, download with the owner's password, and sharing by re-wrapping the
// content key for another wallet.
package usecase

import (
	"context"

	mediaDomain "github.com/custodia-labs/custodia/internal/media/domain"
	reconcileDomain "github.com/custodia-labs/custodia/internal/reconcile/domain"
	walletDomain "github.com/custodia-labs/custodia/internal/wallet/domain"
)

// MediaRepository defines media record persistence operations.
type MediaRepository interface {
	Create(ctx context.Context, owner string, record *mediaDomain.MediaRecord) error
	Get(ctx context.Context, owner, blobID string) (*mediaDomain.MediaRecord, error)
	List(ctx context.Context, owner string) ([]string, error)
}

// BlobStore stores ciphertext by content-derived id.
type BlobStore interface {
	Put(ctx context.Context, data []byte) (string, error)
	Get(ctx context.Context, blobID string) ([]byte, error)
}

// WalletResolver resolves an address to its public key, or with a password to its
// unlocked wallet.
type WalletResolver interface {
	Resolve(ctx context.Context, address, passwordHash string) (*walletDomain.Resolution, error)
}

// Reconciler records operations that stopped part way.
type Reconciler interface {
	Record(ctx context.Context, entry *reconcileDomain.Entry) error
}

// MediaUseCase defines the media operations.
type MediaUseCase interface {
	// Upload encrypts content for the uploader and stores it. Returns the blob id.
	Upload(ctx context.Context, input *mediaDomain.UploadInput) (string, error)

	// Download decrypts the owner's copy of blobID.
	//
	// Security Note: the returned Media holds plaintext content.
	Download(ctx context.Context, address, passwordHash, blobID string) (*mediaDomain.Media, error)

	// List returns the blob ids address holds records for.
	List(ctx context.Context, address string) ([]string, error)

	// Share grants DestinationAddress access to the owner's blob by re-wrapping the
	// content key. The blob itself is not read or written.
	Share(ctx context.Context, input *mediaDomain.ShareInput) error
}
