// Package dto provides data transfer objects for wallet HTTP requests and responses.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/custodia-labs/custodia/internal/validation"
)

// CreateWalletRequest contains the parameters for creating a wallet.
// PasswordHash is produced client side; the server never sees the raw password.
type CreateWalletRequest struct {
	PasswordHash string `json:"passwordHash"`
}

// Validate checks if the create wallet request is valid.
func (r *CreateWalletRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.PasswordHash,
			validation.Required,
			customValidation.NotBlank,
		),
	)
}

// GetWalletRequest carries the address path parameter.
type GetWalletRequest struct {
	Address string
}

// Validate checks if the get wallet request is valid.
func (r *GetWalletRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Address,
			validation.Required,
			customValidation.Address,
		),
	)
}
