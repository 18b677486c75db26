// Package repository persists wallet records in the document store.
package repository

import (
	"context"
	"errors"

	"github.com/custodia-labs/custodia/internal/docstore"
	walletDomain "github.com/custodia-labs/custodia/internal/wallet/domain"
)

// WalletRepository stores wallet records in the "wallets" collection keyed by address.
type WalletRepository struct {
	store docstore.Store
}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(store docstore.Store) *WalletRepository {
	return &WalletRepository{store: store}
}

// Create persists a new wallet record.
func (r *WalletRepository) Create(ctx context.Context, record *walletDomain.WalletRecord) error {
	return r.store.Put(ctx, walletDomain.Collection, record.Address, record)
}

// Get returns the record for address, or ErrWalletNotFound.
func (r *WalletRepository) Get(ctx context.Context, address string) (*walletDomain.WalletRecord, error) {
	var record walletDomain.WalletRecord
	if err := r.store.Get(ctx, walletDomain.Collection, address, &record); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, walletDomain.ErrWalletNotFound
		}
		return nil, err
	}
	return &record, nil
}
