package usecase

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	cryptoDomain "github.com/custodia-labs/custodia/internal/crypto/domain"
	cryptoService "github.com/custodia-labs/custodia/internal/crypto/service"
	mediaDomain "github.com/custodia-labs/custodia/internal/media/domain"
	reconcileDomain "github.com/custodia-labs/custodia/internal/reconcile/domain"
	walletDomain "github.com/custodia-labs/custodia/internal/wallet/domain"
)

// mediaUseCase implements MediaUseCase.
type mediaUseCase struct {
	mediaRepo     MediaRepository
	blobStore     BlobStore
	wallets       WalletResolver
	contentCipher cryptoService.ContentCipher
	keyWrapper    cryptoService.KeyWrapper
	reconciler    Reconciler
}

// Upload encrypts the content under a fresh key, wraps that key for the uploader,
// stores the ciphertext and then the media record.
//
// The two writes are not atomic. If the record write fails after the blob was
// stored, a reconciliation entry carrying the record is written and the record
// error is returned.
func (m *mediaUseCase) Upload(ctx context.Context, input *mediaDomain.UploadInput) (string, error) {
	if len(input.Content) == 0 {
		return "", mediaDomain.ErrEmptyContent
	}

	address, err := walletDomain.NormalizeAddress(input.Address)
	if err != nil {
		return "", err
	}

	publicKey, err := m.publicKey(ctx, address, walletDomain.ErrWalletNotFound)
	if err != nil {
		return "", err
	}

	sealed, err := m.contentCipher.Encrypt(input.Content)
	if err != nil {
		return "", err
	}
	defer sealed.Zero()

	wrapped, err := m.wrapFor(publicKey, sealed.Key)
	if err != nil {
		return "", err
	}

	blobID, err := m.blobStore.Put(ctx, sealed.Ciphertext)
	if err != nil {
		return "", err
	}

	record := &mediaDomain.MediaRecord{
		BlobID:       blobID,
		FileName:     input.FileName,
		MimeType:     input.MimeType,
		EncryptedKey: base64.StdEncoding.EncodeToString(wrapped),
		IV:           base64.StdEncoding.EncodeToString(sealed.IV),
		CreatedAt:    time.Now().UTC(),
	}

	if err := m.mediaRepo.Create(ctx, address, record); err != nil {
		return "", errors.Join(err, m.recordOrphan(ctx, address, record, err))
	}

	return blobID, nil
}

// Download opens the owner's record, unwraps the content key with the owner's
// private key and decrypts the blob.
func (m *mediaUseCase) Download(
	ctx context.Context,
	address, passwordHash, blobID string,
) (*mediaDomain.Media, error) {
	owner, err := walletDomain.NormalizeAddress(address)
	if err != nil {
		return nil, err
	}

	record, err := m.mediaRepo.Get(ctx, owner, blobID)
	if err != nil {
		return nil, err
	}

	key, err := m.unwrapForOwner(ctx, owner, passwordHash, record)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(key)

	iv, err := base64.StdEncoding.DecodeString(record.IV)
	if err != nil || len(iv) != cryptoDomain.IVSize {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	ciphertext, err := m.blobStore.Get(ctx, record.BlobID)
	if err != nil {
		return nil, err
	}

	content, err := m.contentCipher.Decrypt(key, iv, ciphertext)
	if err != nil {
		return nil, err
	}

	return &mediaDomain.Media{
		FileName: record.FileName,
		MimeType: record.MimeType,
		Content:  content,
	}, nil
}

// List returns the blob ids held by address.
func (m *mediaUseCase) List(ctx context.Context, address string) ([]string, error) {
	owner, err := walletDomain.NormalizeAddress(address)
	if err != nil {
		return nil, err
	}
	return m.mediaRepo.List(ctx, owner)
}

// Share re-wraps the owner's content key for the destination and writes a second,
// independent record under the destination with the same blob id, IV and file
// metadata.
func (m *mediaUseCase) Share(ctx context.Context, input *mediaDomain.ShareInput) error {
	owner, err := walletDomain.NormalizeAddress(input.Address)
	if err != nil {
		return err
	}
	destination, err := walletDomain.NormalizeAddress(input.DestinationAddress)
	if err != nil {
		return err
	}

	record, err := m.mediaRepo.Get(ctx, owner, input.BlobID)
	if err != nil {
		return err
	}

	key, err := m.unwrapForOwner(ctx, owner, input.PasswordHash, record)
	if err != nil {
		return err
	}
	defer cryptoDomain.Zero(key)

	recipientKey, err := m.publicKey(ctx, destination, walletDomain.ErrRecipientNotFound)
	if err != nil {
		return err
	}

	wrapped, err := m.wrapFor(recipientKey, key)
	if err != nil {
		return err
	}

	return m.mediaRepo.Create(ctx, destination, &mediaDomain.MediaRecord{
		BlobID:       record.BlobID,
		FileName:     record.FileName,
		MimeType:     record.MimeType,
		EncryptedKey: base64.StdEncoding.EncodeToString(wrapped),
		IV:           record.IV,
		CreatedAt:    time.Now().UTC(),
	})
}

// unwrapForOwner unlocks owner's wallet and opens the record's wrapped key. The
// caller must zero the returned key.
func (m *mediaUseCase) unwrapForOwner(
	ctx context.Context,
	owner, passwordHash string,
	record *mediaDomain.MediaRecord,
) ([]byte, error) {
	if passwordHash == "" {
		return nil, cryptoDomain.ErrInvalidPassword
	}

	resolution, err := m.wallets.Resolve(ctx, owner, passwordHash)
	if err != nil {
		return nil, err
	}
	if resolution.Wallet == nil {
		return nil, cryptoDomain.ErrInvalidPassword
	}
	defer resolution.Wallet.Zero()

	wrapped, err := base64.StdEncoding.DecodeString(record.EncryptedKey)
	if err != nil {
		return nil, cryptoDomain.ErrUnwrapFailed
	}

	return m.keyWrapper.Unwrap(resolution.Wallet.PrivateKey, wrapped)
}

// publicKey resolves address without a password. notFound replaces
// ErrWalletNotFound so callers can tell the owner and the recipient apart.
func (m *mediaUseCase) publicKey(ctx context.Context, address string, notFound error) ([]byte, error) {
	resolution, err := m.wallets.Resolve(ctx, address, "")
	if err != nil {
		if errors.Is(err, walletDomain.ErrWalletNotFound) {
			return nil, notFound
		}
		return nil, err
	}

	publicKey, err := hex.DecodeString(resolution.PublicKeyHex)
	if err != nil {
		return nil, walletDomain.ErrCorruptRecord
	}
	return publicKey, nil
}

// wrapFor wraps key under a public key read from a wallet record. A key that is not
// a curve point means the record is damaged, not that the caller sent bad input.
func (m *mediaUseCase) wrapFor(publicKey, key []byte) ([]byte, error) {
	wrapped, err := m.keyWrapper.Wrap(publicKey, key)
	if errors.Is(err, cryptoDomain.ErrInvalidPublicKey) {
		return nil, walletDomain.ErrCorruptRecord
	}
	return wrapped, err
}

// recordOrphan writes a reconciliation entry for a blob whose record write failed.
// It runs detached from ctx so an expired request deadline does not lose the entry.
func (m *mediaUseCase) recordOrphan(
	ctx context.Context,
	address string,
	record *mediaDomain.MediaRecord,
	cause error,
) error {
	if m.reconciler == nil {
		return nil
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}

	lastError := cause.Error()
	return m.reconciler.Record(context.WithoutCancel(ctx), &reconcileDomain.Entry{
		Kind:      reconcileDomain.KindMediaMetadata,
		Address:   address,
		BlobID:    record.BlobID,
		Payload:   string(payload),
		LastError: &lastError,
	})
}

// NewMediaUseCase creates a new MediaUseCase. reconciler may be nil, in which case
// orphaned blobs are not recorded.
func NewMediaUseCase(
	mediaRepo MediaRepository,
	blobStore BlobStore,
	wallets WalletResolver,
	contentCipher cryptoService.ContentCipher,
	keyWrapper cryptoService.KeyWrapper,
	reconciler Reconciler,
) MediaUseCase {
	return &mediaUseCase{
		mediaRepo:     mediaRepo,
		blobStore:     blobStore,
		wallets:       wallets,
		contentCipher: contentCipher,
		keyWrapper:    keyWrapper,
		reconciler:    reconciler,
	}
}
