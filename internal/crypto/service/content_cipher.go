package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	cryptoDomain "github.com/custodia-labs/custodia/internal/crypto/domain"
)

// CBCContentCipher implements ContentCipher with AES-256-CBC and PKCS#7 padding.
//
// Each call to Encrypt draws a fresh 32-byte key and 16-byte IV, so identical
// plaintexts never produce identical ciphertexts (and therefore never share a
// content-addressed blob id).
//
// The mode is unauthenticated: a modified ciphertext may decrypt to different bytes
// without error. The key itself is protected by the authenticated ECIES wrap.
type CBCContentCipher struct{}

// NewContentCipher creates a new CBCContentCipher.
func NewContentCipher() *CBCContentCipher {
	return &CBCContentCipher{}
}

// Encrypt encrypts plaintext under a new random key and IV.
func (c *CBCContentCipher) Encrypt(plaintext []byte) (*cryptoDomain.SealedContent, error) {
	key := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate content key: %w", err)
	}

	iv := make([]byte, cryptoDomain.IVSize)
	if _, err := rand.Read(iv); err != nil {
		cryptoDomain.Zero(key)
		return nil, fmt.Errorf("failed to generate iv: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		cryptoDomain.Zero(key)
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	padded := pkcs7Pad(plaintext)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)
	cryptoDomain.Zero(padded)

	return &cryptoDomain.SealedContent{
		Key:        key,
		IV:         iv,
		Ciphertext: ciphertext,
	}, nil
}

// Decrypt decrypts ciphertext produced by Encrypt.
func (c *CBCContentCipher) Decrypt(key, iv, ciphertext []byte) ([]byte, error) {
	if len(key) != cryptoDomain.KeySize || len(iv) != cryptoDomain.IVSize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ciphertext)

	plaintext, err := pkcs7Unpad(padded)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	return plaintext, nil
}
