package dto

import (
	"time"

	walletDomain "github.com/custodia-labs/custodia/internal/wallet/domain"
)

// CreateWalletResponse is returned after a wallet is minted. QRCode is a PNG of the
// address; encoding/json renders it as standard base64.
type CreateWalletResponse struct {
	Address      string    `json:"address"`
	PublicKeyHex string    `json:"publicKeyHex"`
	QRCode       []byte    `json:"qrCode"`
	CreatedAt    time.Time `json:"createdAt"`
}

// WalletResponse is the public view of a wallet.
type WalletResponse struct {
	Address      string `json:"address"`
	PublicKeyHex string `json:"publicKeyHex"`
}

// MapCreatedWalletToResponse converts a created wallet to its API response.
func MapCreatedWalletToResponse(w *walletDomain.CreatedWallet) CreateWalletResponse {
	return CreateWalletResponse{
		Address:      w.Address,
		PublicKeyHex: w.PublicKeyHex,
		QRCode:       w.QRCode,
		CreatedAt:    w.CreatedAt,
	}
}

// MapResolutionToResponse converts a public-only resolution to its API response.
func MapResolutionToResponse(address string, r *walletDomain.Resolution) WalletResponse {
	return WalletResponse{
		Address:      address,
		PublicKeyHex: r.PublicKeyHex,
	}
}
