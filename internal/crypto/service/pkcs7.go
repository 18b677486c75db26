package service

import (
	"bytes"
	"crypto/aes"
	"crypto/subtle"
	"errors"
)

var errInvalidPadding = errors.New("invalid padding")

// pkcs7Pad appends 1 to 16 bytes of padding so len(result) is a multiple of the AES block size.
func pkcs7Pad(data []byte) []byte {
	padLen := aes.BlockSize - len(data)%aes.BlockSize
	return append(bytes.Clone(data), bytes.Repeat([]byte{byte(padLen)}, padLen)...)
}

// pkcs7Unpad strips PKCS#7 padding. The returned slice aliases data.
func pkcs7Unpad(data []byte) ([]byte, error) {
	if len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return nil, errInvalidPadding
	}

	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > aes.BlockSize {
		return nil, errInvalidPadding
	}

	want := bytes.Repeat([]byte{byte(padLen)}, padLen)
	if subtle.ConstantTimeCompare(data[len(data)-padLen:], want) != 1 {
		return nil, errInvalidPadding
	}

	return data[:len(data)-padLen], nil
}
