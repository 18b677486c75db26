package service

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/custodia-labs/custodia/internal/crypto/domain"
)

func TestCBCContentCipher_RoundTrip(t *testing.T) {
	c := NewContentCipher()

	tests := []struct {
		name      string
		plaintext []byte
	}{
		{name: "Success_Empty", plaintext: []byte{}},
		{name: "Success_TenBytes", plaintext: []byte("0123456789")},
		{name: "Success_BlockAligned", plaintext: make([]byte, 64)},
		{name: "Success_Binary", plaintext: []byte{0x00, 0xff, 0x10, 0x80, 0x7f}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sealed, err := c.Encrypt(tt.plaintext)
			require.NoError(t, err)
			assert.Len(t, sealed.Key, 32)
			assert.Len(t, sealed.IV, 16)
			assert.Zero(t, len(sealed.Ciphertext)%16)
			assert.Greater(t, len(sealed.Ciphertext), len(tt.plaintext))

			plaintext, err := c.Decrypt(sealed.Key, sealed.IV, sealed.Ciphertext)
			require.NoError(t, err)
			assert.Equal(t, tt.plaintext, plaintext)
		})
	}
}

func TestCBCContentCipher_NonDeterministic(t *testing.T) {
	c := NewContentCipher()

	first, err := c.Encrypt([]byte("same bytes"))
	require.NoError(t, err)
	second, err := c.Encrypt([]byte("same bytes"))
	require.NoError(t, err)

	assert.NotEqual(t, first.Key, second.Key)
	assert.NotEqual(t, first.IV, second.IV)
	assert.NotEqual(t, first.Ciphertext, second.Ciphertext)
}

func TestCBCContentCipher_Decrypt_Errors(t *testing.T) {
	c := NewContentCipher()
	sealed, err := c.Encrypt([]byte("0123456789"))
	require.NoError(t, err)

	t.Run("Error_ShortKey", func(t *testing.T) {
		_, err := c.Decrypt(sealed.Key[:16], sealed.IV, sealed.Ciphertext)
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
	})

	t.Run("Error_ShortIV", func(t *testing.T) {
		_, err := c.Decrypt(sealed.Key, sealed.IV[:8], sealed.Ciphertext)
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
	})

	t.Run("Error_TruncatedCiphertext", func(t *testing.T) {
		_, err := c.Decrypt(sealed.Key, sealed.IV, sealed.Ciphertext[:10])
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})
}

func TestSealedContent_Zero(t *testing.T) {
	sealed := &cryptoDomain.SealedContent{Key: []byte{1, 2, 3}}
	sealed.Zero()
	assert.Equal(t, []byte{0, 0, 0}, sealed.Key)
}

func TestPKCS7(t *testing.T) {
	t.Run("Success_PadLengths", func(t *testing.T) {
		assert.Len(t, pkcs7Pad(nil), 16)
		assert.Len(t, pkcs7Pad(make([]byte, 15)), 16)
		assert.Len(t, pkcs7Pad(make([]byte, 16)), 32)
	})

	t.Run("Success_Unpad", func(t *testing.T) {
		out, err := pkcs7Unpad(pkcs7Pad([]byte("abc")))
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), out)
	})

	t.Run("Error_ZeroPadByte", func(t *testing.T) {
		_, err := pkcs7Unpad(make([]byte, 16))
		assert.Error(t, err)
	})

	t.Run("Error_InconsistentPadding", func(t *testing.T) {
		block := pkcs7Pad([]byte("abcdefghijklm"))
		block[13] = 0x01
		_, err := pkcs7Unpad(block)
		assert.Error(t, err)
	})
}

func TestCBCContentCipher_DecryptKnownVector(t *testing.T) {
	key, err := hex.DecodeString("000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")
	require.NoError(t, err)
	iv, err := hex.DecodeString("f0f1f2f3f4f5f6f7f8f9fafbfcfdfeff")
	require.NoError(t, err)
	ciphertext, err := hex.DecodeString("02d209871b113366e294b3ba15cd169dec6024aec1b46f194d0fe2dbda635480")
	require.NoError(t, err)

	plaintext, err := NewContentCipher().Decrypt(key, iv, ciphertext)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 custodia", string(plaintext))
}
