package domain

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"
)

const addressHexLen = 40

// AddressFromPublicKey derives the EIP-55 checksummed address of an uncompressed
// secp256k1 public key (65 bytes, 0x04 prefix).
func AddressFromPublicKey(uncompressed []byte) string {
	h := sha3.NewLegacyKeccak256()
	h.Write(uncompressed[1:])
	return checksum(hex.EncodeToString(h.Sum(nil)[12:]))
}

// NormalizeAddress validates s and returns it in EIP-55 checksummed form, so that
// records are keyed identically regardless of the caller's casing.
func NormalizeAddress(s string) (string, error) {
	if !IsAddress(s) {
		return "", ErrInvalidAddress
	}
	return checksum(strings.ToLower(s[2:])), nil
}

// IsAddress reports whether s is 0x followed by 40 hex digits.
func IsAddress(s string) bool {
	if len(s) != 2+addressHexLen || (s[:2] != "0x" && s[:2] != "0X") {
		return false
	}
	_, err := hex.DecodeString(s[2:])
	return err == nil
}

// checksum applies EIP-55 mixed-case encoding to 40 lowercase hex digits.
func checksum(lowerHex string) string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(lowerHex))
	digest := hex.EncodeToString(h.Sum(nil))

	out := []byte(lowerHex)
	for i, c := range out {
		if c >= 'a' && c <= 'f' && digest[i] >= '8' {
			out[i] = c - 'a' + 'A'
		}
	}
	return "0x" + string(out)
}
