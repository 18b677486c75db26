package commands

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	walletUseCase "github.com/custodia-labs/custodia/internal/wallet/usecase"
)

// RunCreateWallet mints a wallet sealed under passwordHash and prints its address
// and public key. The JSON output also carries the address QR code as base64 PNG.
func RunCreateWallet(
	ctx context.Context,
	wallets walletUseCase.WalletUseCase,
	logger *slog.Logger,
	writer io.Writer,
	passwordHash string,
	format string,
) error {
	if passwordHash == "" {
		return errors.New("password hash is required")
	}
	if err := validateFormat(format); err != nil {
		return err
	}

	created, err := wallets.Create(ctx, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to create wallet: %w", err)
	}

	logger.Info("wallet created", slog.String("address", created.Address))

	if format == "json" {
		return writeJSON(writer, map[string]any{
			"address":      created.Address,
			"publicKeyHex": created.PublicKeyHex,
			"qrCode":       base64.StdEncoding.EncodeToString(created.QRCode),
			"createdAt":    created.CreatedAt.Format(time.RFC3339),
		})
	}

	_, err = fmt.Fprintf(writer, "Address:    %s\nPublic key: %s\n", created.Address, created.PublicKeyHex)
	return err
}
