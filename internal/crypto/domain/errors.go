package domain

import (
	"github.com/custodia-labs/custodia/internal/errors"
)

// Cryptographic operation error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors so the
// HTTP layer can map them without knowing about cryptography.
var (
	// ErrInvalidPassword indicates an encrypted seed did not open under the supplied
	// password hash.
	//
	// Padding failures, malformed encodings and implausible plaintexts all collapse
	// into this single error so that callers learn nothing beyond "wrong password".
	//
	// HTTP Status: 401 Unauthorized
	ErrInvalidPassword = errors.Wrap(errors.ErrUnauthorized, "invalid password")

	// ErrUnwrapFailed indicates a wrapped content key could not be opened with the
	// presented private key, either because the key belongs to someone else or the
	// wrapped bytes were altered.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrUnwrapFailed = errors.Wrap(errors.ErrUnprocessable, "unwrap failed")

	// ErrDecryptionFailed indicates content ciphertext did not decrypt under its key.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrDecryptionFailed = errors.Wrap(errors.ErrUnprocessable, "decryption failed")

	// ErrInvalidKeySize indicates a symmetric key or IV of the wrong length.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrInvalidPublicKey indicates bytes that do not encode a secp256k1 point.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrInvalidPublicKey = errors.Wrap(errors.ErrInvalidInput, "invalid public key")
)
