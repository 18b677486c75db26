package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/pbkdf2"

	cryptoDomain "github.com/custodia-labs/custodia/internal/crypto/domain"
)

// PBKDF2SeedVault implements SeedVault with PBKDF2-HMAC-SHA256 key stretching and
// AES-256-CBC encryption.
//
// Format:
//
//	key        = PBKDF2-HMAC-SHA256(passwordHash, salt, 100000, 32)
//	ciphertext = AES-256-CBC(key, iv, PKCS7(seed))
//
// The salt and IV are 16 random bytes drawn per call, so sealing the same seed twice
// under the same password yields unrelated records. All three fields are returned
// base64 encoded.
//
// CBC carries no integrity check. Decrypt therefore treats a plaintext that is not a
// printable UTF-8 seed phrase as a wrong password; without that check roughly one
// wrong password in 256 would pass the padding test and yield garbage.
//
// Thread safety: stateless and safe for concurrent use.
type PBKDF2SeedVault struct{}

// NewSeedVault creates a new PBKDF2SeedVault.
func NewSeedVault() *PBKDF2SeedVault {
	return &PBKDF2SeedVault{}
}

// Encrypt seals seed under passwordHash.
//
// Returns an error only if the system random source fails. The seed slice is not
// modified; intermediate copies are zeroed before returning.
func (v *PBKDF2SeedVault) Encrypt(passwordHash string, seed []byte) (*cryptoDomain.EncryptedSeed, error) {
	salt := make([]byte, cryptoDomain.SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	iv := make([]byte, cryptoDomain.IVSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("failed to generate iv: %w", err)
	}

	key := deriveSeedKey(passwordHash, salt)
	defer cryptoDomain.Zero(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	padded := pkcs7Pad(seed)
	defer cryptoDomain.Zero(padded)

	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return &cryptoDomain.EncryptedSeed{
		Salt:       base64.StdEncoding.EncodeToString(salt),
		IV:         base64.StdEncoding.EncodeToString(iv),
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
	}, nil
}

// Decrypt opens a sealed seed with passwordHash.
//
// Every failure mode (undecodable fields, wrong field sizes, bad padding, implausible
// plaintext) returns ErrInvalidPassword and nothing else, so the response reveals no
// more than whether the password was right.
func (v *PBKDF2SeedVault) Decrypt(passwordHash string, sealed *cryptoDomain.EncryptedSeed) ([]byte, error) {
	if sealed == nil {
		return nil, cryptoDomain.ErrInvalidPassword
	}

	salt, err := base64.StdEncoding.DecodeString(sealed.Salt)
	if err != nil || len(salt) != cryptoDomain.SaltSize {
		return nil, cryptoDomain.ErrInvalidPassword
	}

	iv, err := base64.StdEncoding.DecodeString(sealed.IV)
	if err != nil || len(iv) != cryptoDomain.IVSize {
		return nil, cryptoDomain.ErrInvalidPassword
	}

	ciphertext, err := base64.StdEncoding.DecodeString(sealed.Ciphertext)
	if err != nil || len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, cryptoDomain.ErrInvalidPassword
	}

	key := deriveSeedKey(passwordHash, salt)
	defer cryptoDomain.Zero(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, cryptoDomain.ErrInvalidPassword
	}

	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ciphertext)

	seed, err := pkcs7Unpad(padded)
	if err != nil || !isSeedPhrase(seed) {
		cryptoDomain.Zero(padded)
		return nil, cryptoDomain.ErrInvalidPassword
	}

	return seed, nil
}

// deriveSeedKey stretches the password hash into an AES-256 key.
func deriveSeedKey(passwordHash string, salt []byte) []byte {
	return pbkdf2.Key(
		[]byte(passwordHash),
		salt,
		cryptoDomain.PBKDF2Iterations,
		cryptoDomain.KeySize,
		sha256.New,
	)
}

// isSeedPhrase reports whether b looks like a seed phrase: non-empty UTF-8 text
// without control characters.
func isSeedPhrase(b []byte) bool {
	if len(b) == 0 || !utf8.Valid(b) {
		return false
	}
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if unicode.IsControl(r) {
			return false
		}
		b = b[size:]
	}
	return true
}
