// Package usecase implements wallet custody: minting a wallet whose seed is sealed
// under the owner's password, and resolving an address back to its keys.
package usecase

import (
	"context"

	walletDomain "github.com/custodia-labs/custodia/internal/wallet/domain"
)

// WalletRepository defines the interface for wallet record persistence.
type WalletRepository interface {
	Create(ctx context.Context, record *walletDomain.WalletRecord) error
	Get(ctx context.Context, address string) (*walletDomain.WalletRecord, error)
}

// WalletProvider mints wallets and re-derives their keys from a seed.
type WalletProvider interface {
	CreateWallet(ctx context.Context) (*walletDomain.NewWallet, error)
	FetchWallet(ctx context.Context, walletID string, seed []byte) (*walletDomain.Wallet, error)
}

// WalletUseCase defines the wallet directory operations.
type WalletUseCase interface {
	// Create mints a wallet and seals its seed under passwordHash.
	Create(ctx context.Context, passwordHash string) (*walletDomain.CreatedWallet, error)

	// Resolve looks up address. With an empty passwordHash only the public key is
	// returned. Otherwise the seed is opened and the wallet keys are re-derived.
	//
	// Security Note: a non-nil Resolution.Wallet holds the private key. Callers MUST
	// call Resolution.Wallet.Zero() when done.
	Resolve(ctx context.Context, address, passwordHash string) (*walletDomain.Resolution, error)
}
