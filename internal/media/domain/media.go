// Package domain defines media records: the per-owner metadata that binds a stored
// ciphertext blob to the content key wrapped for that owner.
package domain

import (
	"time"
)

// Collection returns the document store collection holding address's media records,
// keyed by blob id.
func Collection(address string) string {
	return "users/" + address + "/media"
}

// MediaRecord is one owner's view of a stored blob. Records for the same blob under
// different owners wrap the same content key for different public keys. Never
// mutated after creation.
type MediaRecord struct {
	BlobID       string    `json:"blobId"       bson:"blobId"`
	FileName     string    `json:"fileName"     bson:"fileName"`
	MimeType     string    `json:"mimeType"     bson:"mimeType"`
	EncryptedKey string    `json:"encryptedKey" bson:"encryptedKey"`
	IV           string    `json:"iv"           bson:"iv"`
	CreatedAt    time.Time `json:"createdAt"    bson:"createdAt"`
}

// Media is decrypted content returned by a download. Content is plaintext.
type Media struct {
	FileName string
	MimeType string
	Content  []byte
}

// UploadInput carries a file to encrypt and store for Address.
type UploadInput struct {
	Address  string
	FileName string
	MimeType string
	Content  []byte
}

// ShareInput names a media record to re-wrap for DestinationAddress.
type ShareInput struct {
	Address            string
	PasswordHash       string
	BlobID             string
	DestinationAddress string
}
