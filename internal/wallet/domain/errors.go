package domain

import (
	"github.com/custodia-labs/custodia/internal/errors"
)

// Wallet error definitions.
var (
	// ErrWalletNotFound indicates no wallet record exists for the address.
	ErrWalletNotFound = errors.Wrap(errors.ErrNotFound, "wallet not found")

	// ErrRecipientNotFound indicates the destination of a share has no wallet.
	ErrRecipientNotFound = errors.Wrap(errors.ErrNotFound, "recipient wallet not found")

	// ErrInvalidAddress indicates a string that is not a 0x-prefixed 20-byte hex address.
	ErrInvalidAddress = errors.Wrap(errors.ErrInvalidInput, "invalid address")

	// ErrCorruptRecord indicates a stored wallet whose public key does not decode to a
	// secp256k1 point. It carries no domain kind and surfaces as an internal error.
	ErrCorruptRecord = errors.New("wallet record holds an invalid public key")
)
