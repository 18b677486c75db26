package domain

// Parameters of the at-rest and envelope formats.
//
// These values are baked into every stored wallet and media record. Changing any
// of them makes existing records unreadable.
const (
	// KeySize is the length of every symmetric key: PBKDF2 output, content keys and
	// the ECIES-derived wrapping key.
	KeySize = 32

	// SaltSize is the length of the per-record PBKDF2 salt.
	SaltSize = 16

	// IVSize is the AES-CBC initialization vector length.
	IVSize = 16

	// PBKDF2Iterations is the HMAC-SHA256 iteration count used to stretch the password hash.
	PBKDF2Iterations = 100000

	// ECIESNonceSize is the AES-GCM nonce length inside a wrapped key.
	ECIESNonceSize = 16

	// ECIESTagSize is the AES-GCM authentication tag length inside a wrapped key.
	ECIESTagSize = 16

	// UncompressedPublicKeySize is the length of a 0x04-prefixed secp256k1 point.
	UncompressedPublicKeySize = 65
)
