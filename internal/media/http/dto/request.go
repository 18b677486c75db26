// Package dto provides data transfer objects for media HTTP requests and responses.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/custodia-labs/custodia/internal/validation"
)

// UploadMediaRequest carries the form fields of a multipart upload. The file part is
// read separately.
type UploadMediaRequest struct {
	Address  string
	FileName string
}

// Validate checks if the upload request is valid.
func (r *UploadMediaRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Address, validation.Required, customValidation.Address),
		validation.Field(&r.FileName, validation.Required, customValidation.NotBlank),
	)
}

// ListMediaRequest carries the address query parameter.
type ListMediaRequest struct {
	Address string
}

// Validate checks if the list request is valid.
func (r *ListMediaRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Address, validation.Required, customValidation.Address),
	)
}

// DownloadMediaRequest identifies a media record and the password that opens its
// owner's wallet.
type DownloadMediaRequest struct {
	Address      string `json:"address"`
	PasswordHash string `json:"passwordHash"`
	BlobID       string `json:"blobId"`
}

// Validate checks if the download request is valid.
func (r *DownloadMediaRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Address, validation.Required, customValidation.Address),
		validation.Field(&r.PasswordHash, validation.Required, customValidation.NotBlank),
		validation.Field(&r.BlobID, validation.Required, customValidation.BlobID),
	)
}

// ShareMediaRequest grants DestinationAddress access to one of Address's blobs.
type ShareMediaRequest struct {
	Address            string `json:"address"`
	PasswordHash       string `json:"passwordHash"`
	BlobID             string `json:"blobId"`
	DestinationAddress string `json:"destinationAddress"`
}

// Validate checks if the share request is valid.
func (r *ShareMediaRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Address, validation.Required, customValidation.Address),
		validation.Field(&r.PasswordHash, validation.Required, customValidation.NotBlank),
		validation.Field(&r.BlobID, validation.Required, customValidation.BlobID),
		validation.Field(&r.DestinationAddress, validation.Required, customValidation.Address),
	)
}
