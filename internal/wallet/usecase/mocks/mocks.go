// Package mocks provides mock implementations of the wallet use case collaborators.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	walletDomain "github.com/custodia-labs/custodia/internal/wallet/domain"
)

// MockWalletRepository is a mock implementation of WalletRepository.
type MockWalletRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockWalletRepository) Create(ctx context.Context, record *walletDomain.WalletRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// Get mocks the Get method.
func (m *MockWalletRepository) Get(ctx context.Context, address string) (*walletDomain.WalletRecord, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*walletDomain.WalletRecord), args.Error(1)
}

// MockWalletProvider is a mock implementation of WalletProvider.
type MockWalletProvider struct {
	mock.Mock
}

// CreateWallet mocks the CreateWallet method.
func (m *MockWalletProvider) CreateWallet(ctx context.Context) (*walletDomain.NewWallet, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*walletDomain.NewWallet), args.Error(1)
}

// FetchWallet mocks the FetchWallet method.
func (m *MockWalletProvider) FetchWallet(
	ctx context.Context,
	walletID string,
	seed []byte,
) (*walletDomain.Wallet, error) {
	args := m.Called(ctx, walletID, seed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*walletDomain.Wallet), args.Error(1)
}

// MockWalletUseCase is a mock implementation of WalletUseCase.
type MockWalletUseCase struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockWalletUseCase) Create(ctx context.Context, passwordHash string) (*walletDomain.CreatedWallet, error) {
	args := m.Called(ctx, passwordHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*walletDomain.CreatedWallet), args.Error(1)
}

// Resolve mocks the Resolve method.
func (m *MockWalletUseCase) Resolve(
	ctx context.Context,
	address, passwordHash string,
) (*walletDomain.Resolution, error) {
	args := m.Called(ctx, address, passwordHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*walletDomain.Resolution), args.Error(1)
}
