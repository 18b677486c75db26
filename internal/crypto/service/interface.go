// Package service provides the cryptographic primitives behind wallet custody and
// media envelope encryption: the password-based seed vault, the one-time content
// cipher, and ECIES key wrapping over secp256k1.
package service

import (
	cryptoDomain "github.com/custodia-labs/custodia/internal/crypto/domain"
)

// SeedVault seals and opens wallet seeds under a password-derived key.
type SeedVault interface {
	// Encrypt seals seed under passwordHash with a fresh salt and IV.
	Encrypt(passwordHash string, seed []byte) (*cryptoDomain.EncryptedSeed, error)

	// Decrypt opens a sealed seed. Any failure is reported as ErrInvalidPassword.
	// The caller owns the returned slice and must zero it.
	Decrypt(passwordHash string, sealed *cryptoDomain.EncryptedSeed) ([]byte, error)
}

// ContentCipher encrypts media content under a one-time key.
type ContentCipher interface {
	// Encrypt generates a fresh key and IV and encrypts plaintext. The caller must
	// zero the returned key once it has been wrapped.
	Encrypt(plaintext []byte) (*cryptoDomain.SealedContent, error)

	// Decrypt reverses Encrypt.
	Decrypt(key, iv, ciphertext []byte) ([]byte, error)
}

// KeyWrapper wraps symmetric keys for a recipient public key.
type KeyWrapper interface {
	// Wrap encrypts key so that only the holder of the private key matching
	// recipientPublicKey can recover it.
	Wrap(recipientPublicKey, key []byte) ([]byte, error)

	// Unwrap recovers a key wrapped by Wrap. Any failure is reported as ErrUnwrapFailed.
	// The caller owns the returned slice and must zero it.
	Unwrap(privateKey, wrapped []byte) ([]byte, error)
}
