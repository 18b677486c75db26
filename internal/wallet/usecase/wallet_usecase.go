package usecase

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/skip2/go-qrcode"

	cryptoDomain "github.com/custodia-labs/custodia/internal/crypto/domain"
	cryptoService "github.com/custodia-labs/custodia/internal/crypto/service"
	apperrors "github.com/custodia-labs/custodia/internal/errors"
	walletDomain "github.com/custodia-labs/custodia/internal/wallet/domain"
)

const qrCodeSize = 256

// walletUseCase implements WalletUseCase.
type walletUseCase struct {
	walletRepo WalletRepository
	provider   WalletProvider
	seedVault  cryptoService.SeedVault
}

// Create mints a new wallet, seals the seed and persists the record. The plaintext
// seed is zeroed before returning on every path.
func (w *walletUseCase) Create(ctx context.Context, passwordHash string) (*walletDomain.CreatedWallet, error) {
	minted, err := w.provider.CreateWallet(ctx)
	if err != nil {
		return nil, apperrors.Unavailable(err, "wallet provider")
	}
	defer cryptoDomain.Zero(minted.Seed)

	sealed, err := w.seedVault.Encrypt(passwordHash, minted.Seed)
	if err != nil {
		return nil, err
	}

	record := &walletDomain.WalletRecord{
		Address:      minted.Address,
		WalletID:     minted.WalletID,
		PublicKeyHex: hex.EncodeToString(minted.PublicKey),
		Salt:         sealed.Salt,
		IV:           sealed.IV,
		SealedSeed:   sealed.Ciphertext,
		CreatedAt:    time.Now().UTC(),
	}

	if err := w.walletRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	qr, err := addressQRCode(record.Address)
	if err != nil {
		return nil, err
	}

	return &walletDomain.CreatedWallet{
		Address:      record.Address,
		PublicKeyHex: record.PublicKeyHex,
		QRCode:       qr,
		CreatedAt:    record.CreatedAt,
	}, nil
}

// Resolve looks up a wallet and, given a password, unlocks it.
func (w *walletUseCase) Resolve(
	ctx context.Context,
	address, passwordHash string,
) (*walletDomain.Resolution, error) {
	normalized, err := walletDomain.NormalizeAddress(address)
	if err != nil {
		return nil, err
	}

	record, err := w.walletRepo.Get(ctx, normalized)
	if err != nil {
		return nil, err
	}

	if passwordHash == "" {
		return &walletDomain.Resolution{PublicKeyHex: record.PublicKeyHex}, nil
	}

	seed, err := w.seedVault.Decrypt(passwordHash, record.EncryptedSeed())
	if err != nil {
		return nil, err
	}

	wallet, err := w.provider.FetchWallet(ctx, record.WalletID, seed)
	cryptoDomain.Zero(seed)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUnavailable) {
			return nil, err
		}
		// The seed opened but is not one the provider can use: a wrong password
		// that slipped past the padding check.
		return nil, cryptoDomain.ErrInvalidPassword
	}

	if !strings.EqualFold(hex.EncodeToString(wallet.PublicKey), record.PublicKeyHex) {
		wallet.Zero()
		return nil, cryptoDomain.ErrInvalidPassword
	}

	return &walletDomain.Resolution{
		Wallet:       wallet,
		PublicKeyHex: record.PublicKeyHex,
	}, nil
}

// addressQRCode renders address as a PNG QR code.
func addressQRCode(address string) ([]byte, error) {
	qr, err := qrcode.New(address, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	png, err := qr.PNG(qrCodeSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}
	return png, nil
}

// NewWalletUseCase creates a new WalletUseCase.
func NewWalletUseCase(
	walletRepo WalletRepository,
	provider WalletProvider,
	seedVault cryptoService.SeedVault,
) WalletUseCase {
	return &walletUseCase{
		walletRepo: walletRepo,
		provider:   provider,
		seedVault:  seedVault,
	}
}
