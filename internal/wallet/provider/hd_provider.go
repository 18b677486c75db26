// Package provider implements the wallet provider: it mints new wallets and
// re-derives their keys from a seed.
package provider

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/google/uuid"

	cryptoDomain "github.com/custodia-labs/custodia/internal/crypto/domain"
	walletDomain "github.com/custodia-labs/custodia/internal/wallet/domain"
)

// seedSize is the entropy length of a new wallet seed (BIP-32 allows 16 to 64 bytes).
const seedSize = 64

var masterKeyHMACKey = []byte("Bitcoin seed")

var (
	errMalformedSeed = errors.New("malformed wallet seed")
	errUnusableSeed  = errors.New("seed does not yield a valid master key")
)

// HDProvider derives secp256k1 wallets from a BIP-32 master key.
//
// The seed is random bytes carried as a lowercase hex string; the wallet key is the
// master private key IL of HMAC-SHA512("Bitcoin seed", seed). The address is the
// Ethereum address of the corresponding public key.
type HDProvider struct{}

// NewHDProvider creates a new HDProvider.
func NewHDProvider() *HDProvider {
	return &HDProvider{}
}

// CreateWallet mints a new wallet. The returned seed is secret; the caller must seal
// and zero it.
func (p *HDProvider) CreateWallet(ctx context.Context) (*walletDomain.NewWallet, error) {
	entropy := make([]byte, seedSize)
	if _, err := rand.Read(entropy); err != nil {
		return nil, fmt.Errorf("failed to generate seed: %w", err)
	}
	defer cryptoDomain.Zero(entropy)

	seed := make([]byte, hex.EncodedLen(len(entropy)))
	hex.Encode(seed, entropy)

	wallet, err := p.FetchWallet(ctx, "", seed)
	if err != nil {
		cryptoDomain.Zero(seed)
		return nil, err
	}
	defer wallet.Zero()

	walletID, err := uuid.NewV7()
	if err != nil {
		cryptoDomain.Zero(seed)
		return nil, fmt.Errorf("failed to generate wallet id: %w", err)
	}

	return &walletDomain.NewWallet{
		WalletID:  walletID.String(),
		Seed:      seed,
		Address:   wallet.Address,
		PublicKey: wallet.PublicKey,
	}, nil
}

// FetchWallet re-derives the wallet keys from seed. The seed is not modified. The
// returned handle holds the private key; the caller must call Zero on it.
func (p *HDProvider) FetchWallet(ctx context.Context, walletID string, seed []byte) (*walletDomain.Wallet, error) {
	entropy := make([]byte, hex.DecodedLen(len(seed)))
	if _, err := hex.Decode(entropy, seed); err != nil || len(entropy) < 16 {
		cryptoDomain.Zero(entropy)
		return nil, errMalformedSeed
	}
	defer cryptoDomain.Zero(entropy)

	priv, err := masterPrivateKey(entropy)
	if err != nil {
		return nil, err
	}
	defer priv.Zero()

	pub := priv.PubKey()

	return &walletDomain.Wallet{
		WalletID:   walletID,
		Address:    walletDomain.AddressFromPublicKey(pub.SerializeUncompressed()),
		PublicKey:  pub.SerializeCompressed(),
		PrivateKey: priv.Serialize(),
	}, nil
}

// masterPrivateKey computes the BIP-32 master private key for seed.
func masterPrivateKey(seed []byte) (*secp256k1.PrivateKey, error) {
	mac := hmac.New(sha512.New, masterKeyHMACKey)
	mac.Write(seed)
	sum := mac.Sum(nil)
	defer cryptoDomain.Zero(sum)

	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetByteSlice(sum[:32]); overflow || scalar.IsZero() {
		return nil, errUnusableSeed
	}

	return secp256k1.NewPrivateKey(&scalar), nil
}
