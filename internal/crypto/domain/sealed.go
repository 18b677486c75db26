package domain

// EncryptedSeed is a wallet seed sealed under a password-derived key.
// All fields are standard base64 so the value can be stored as-is in a document.
type EncryptedSeed struct {
	Salt       string `json:"salt"`
	IV         string `json:"iv"`
	Ciphertext string `json:"encryptedSeed"`
}

// SealedContent is the output of content encryption. Key is the one-time content key;
// it must be wrapped for a recipient and zeroed, never stored in the clear.
type SealedContent struct {
	Key        []byte
	IV         []byte
	Ciphertext []byte
}

// Zero clears the content key.
func (s *SealedContent) Zero() {
	if s == nil {
		return
	}
	Zero(s.Key)
}
