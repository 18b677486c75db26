// Package domain defines the wallet custody entities: the stored wallet record, the
// unlocked wallet handle, and Ethereum-style address helpers.
package domain

import (
	"time"

	cryptoDomain "github.com/custodia-labs/custodia/internal/crypto/domain"
)

// Collection is the document store collection holding wallet records, keyed by address.
const Collection = "wallets"

// WalletRecord is the persisted custody record. It never holds a plaintext seed.
// Immutable after creation.
type WalletRecord struct {
	Address      string    `json:"address"      bson:"address"`
	WalletID     string    `json:"walletId"     bson:"walletId"`
	PublicKeyHex string    `json:"publicKeyHex" bson:"publicKeyHex"`
	Salt         string    `json:"salt"         bson:"salt"`
	IV           string    `json:"iv"           bson:"iv"`
	SealedSeed   string    `json:"encryptedSeed" bson:"encryptedSeed"`
	CreatedAt    time.Time `json:"createdAt"    bson:"createdAt"`
}

// EncryptedSeed returns the sealed seed fields of the record.
func (r *WalletRecord) EncryptedSeed() *cryptoDomain.EncryptedSeed {
	return &cryptoDomain.EncryptedSeed{
		Salt:       r.Salt,
		IV:         r.IV,
		Ciphertext: r.SealedSeed,
	}
}

// NewWallet is what a provider returns when it mints a wallet. Seed is secret and
// must be sealed and zeroed by the caller.
type NewWallet struct {
	WalletID  string
	Seed      []byte
	Address   string
	PublicKey []byte
}

// Wallet is an unlocked wallet handle. It is request-scoped; call Zero when done.
type Wallet struct {
	WalletID   string
	Address    string
	PublicKey  []byte
	PrivateKey []byte
}

// Zero clears the private key.
func (w *Wallet) Zero() {
	if w == nil {
		return
	}
	cryptoDomain.Zero(w.PrivateKey)
}

// Resolution is the result of resolving an address. Wallet is nil when no password
// was supplied.
type Resolution struct {
	Wallet       *Wallet
	PublicKeyHex string
}

// CreatedWallet is returned to the caller after wallet creation.
type CreatedWallet struct {
	Address      string
	PublicKeyHex string
	QRCode       []byte
	CreatedAt    time.Time
}
