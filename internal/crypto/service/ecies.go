package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"golang.org/x/crypto/hkdf"

	cryptoDomain "github.com/custodia-labs/custodia/internal/crypto/domain"
)

// ECIESKeyWrapper implements KeyWrapper with ECIES over secp256k1.
//
// The wire format matches the eciesjs library used by existing clients:
//
//	wrapped = ephemeralPublicKey (65, uncompressed) || nonce (16) || tag (16) || ciphertext
//	shared  = uncompressed(ephemeralPrivate * recipientPublic)
//	key     = HKDF-SHA256(ikm = ephemeralPublicKey || shared, salt = nil, info = nil, 32)
//	cipher  = AES-256-GCM with a 16-byte nonce
//
// Recipient public keys may be given compressed (33 bytes) or uncompressed (65 bytes).
// Each Wrap uses a fresh ephemeral key pair, so wrapping the same key twice yields
// different outputs.
//
// Thread safety: stateless and safe for concurrent use.
type ECIESKeyWrapper struct{}

// NewKeyWrapper creates a new ECIESKeyWrapper.
func NewKeyWrapper() *ECIESKeyWrapper {
	return &ECIESKeyWrapper{}
}

// Wrap encrypts key for recipientPublicKey.
func (w *ECIESKeyWrapper) Wrap(recipientPublicKey, key []byte) ([]byte, error) {
	recipient, err := secp256k1.ParsePubKey(recipientPublicKey)
	if err != nil {
		return nil, cryptoDomain.ErrInvalidPublicKey
	}

	ephemeral, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate ephemeral key: %w", err)
	}
	defer ephemeral.Zero()

	ephemeralPub := ephemeral.PubKey().SerializeUncompressed()

	shared := sharedPoint(ephemeral, recipient)
	defer cryptoDomain.Zero(shared)

	aead, wrapKey, err := newWrapAEAD(ephemeralPub, shared)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(wrapKey)

	nonce := make([]byte, cryptoDomain.ECIESNonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	// Seal returns ciphertext||tag; the wire format puts the tag first.
	sealed := aead.Seal(nil, nonce, key, nil)
	ciphertext := sealed[:len(sealed)-cryptoDomain.ECIESTagSize]
	tag := sealed[len(sealed)-cryptoDomain.ECIESTagSize:]

	out := make([]byte, 0, len(ephemeralPub)+len(nonce)+len(sealed))
	out = append(out, ephemeralPub...)
	out = append(out, nonce...)
	out = append(out, tag...)
	out = append(out, ciphertext...)
	return out, nil
}

// Unwrap recovers a key wrapped for the public key matching privateKey.
//
// Short input, an invalid ephemeral point, a private key of the wrong size and an
// authentication failure are all reported as ErrUnwrapFailed.
func (w *ECIESKeyWrapper) Unwrap(privateKey, wrapped []byte) ([]byte, error) {
	const headerSize = cryptoDomain.UncompressedPublicKeySize +
		cryptoDomain.ECIESNonceSize +
		cryptoDomain.ECIESTagSize

	if len(privateKey) != secp256k1.PrivKeyBytesLen || len(wrapped) < headerSize {
		return nil, cryptoDomain.ErrUnwrapFailed
	}

	ephemeralPub := wrapped[:cryptoDomain.UncompressedPublicKeySize]
	nonce := wrapped[cryptoDomain.UncompressedPublicKeySize : cryptoDomain.UncompressedPublicKeySize+cryptoDomain.ECIESNonceSize]
	tag := wrapped[cryptoDomain.UncompressedPublicKeySize+cryptoDomain.ECIESNonceSize : headerSize]
	ciphertext := wrapped[headerSize:]

	ephemeral, err := secp256k1.ParsePubKey(ephemeralPub)
	if err != nil {
		return nil, cryptoDomain.ErrUnwrapFailed
	}

	priv := secp256k1.PrivKeyFromBytes(privateKey)
	defer priv.Zero()

	shared := sharedPoint(priv, ephemeral)
	defer cryptoDomain.Zero(shared)

	aead, wrapKey, err := newWrapAEAD(ephemeralPub, shared)
	if err != nil {
		return nil, cryptoDomain.ErrUnwrapFailed
	}
	defer cryptoDomain.Zero(wrapKey)

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	key, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, cryptoDomain.ErrUnwrapFailed
	}
	return key, nil
}

// sharedPoint computes priv*pub and returns it as an uncompressed point.
func sharedPoint(priv *secp256k1.PrivateKey, pub *secp256k1.PublicKey) []byte {
	var point, result secp256k1.JacobianPoint
	pub.AsJacobian(&point)
	secp256k1.ScalarMultNonConst(&priv.Key, &point, &result)
	result.ToAffine()
	return secp256k1.NewPublicKey(&result.X, &result.Y).SerializeUncompressed()
}

// newWrapAEAD derives the wrapping key and builds the AES-GCM instance. The caller
// must zero the returned key.
func newWrapAEAD(ephemeralPub, shared []byte) (cipher.AEAD, []byte, error) {
	ikm := make([]byte, 0, len(ephemeralPub)+len(shared))
	ikm = append(ikm, ephemeralPub...)
	ikm = append(ikm, shared...)
	defer cryptoDomain.Zero(ikm)

	key := make([]byte, cryptoDomain.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, ikm, nil, nil), key); err != nil {
		return nil, nil, fmt.Errorf("failed to derive wrapping key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		cryptoDomain.Zero(key)
		return nil, nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCMWithNonceSize(block, cryptoDomain.ECIESNonceSize)
	if err != nil {
		cryptoDomain.Zero(key)
		return nil, nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return aead, key, nil
}
