package keyring

import (
	"fmt"

	"github.com/corsair-labs/bootynet-chain/pkg/crypto"
	"github.com/corsair-labs/bootynet-chain/pkg/types"
	"github.com/tyler-smith/go-bip32"
)

// Identities live at m/44'/5055'/index'. Every level is hardened:
// identities are signing keys, not payment addresses, so there is no
// public-derivation chain to preserve.
const (
	// PurposeBIP44 is the BIP-44 purpose field (hardened).
	PurposeBIP44 = bip32.FirstHardenedChild + 44

	// CoinTypeBootynet is our placeholder coin type (hardened).
	// TODO: Register an actual coin type number.
	CoinTypeBootynet = bip32.FirstHardenedChild + 5055
)

// HDKey represents a hierarchical deterministic key (BIP-32).
type HDKey struct {
	key *bip32.Key
}

// NewMasterKey creates a master HD key from a 64-byte seed.
func NewMasterKey(seed []byte) (*HDKey, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", SeedSize, len(seed))
	}
	master, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("create master key: %w", err)
	}
	return &HDKey{key: master}, nil
}

// DeriveChild derives a child key at the given index.
// For hardened derivation, add bip32.FirstHardenedChild to the index.
func (k *HDKey) DeriveChild(index uint32) (*HDKey, error) {
	child, err := k.key.NewChildKey(index)
	if err != nil {
		return nil, fmt.Errorf("derive child %d: %w", index, err)
	}
	return &HDKey{key: child}, nil
}

// DeriveIdentity derives the signing key at m/44'/5055'/index'.
func (k *HDKey) DeriveIdentity(index uint32) (*HDKey, error) {
	current := k
	for _, idx := range []uint32{
		PurposeBIP44,
		CoinTypeBootynet,
		bip32.FirstHardenedChild + index,
	} {
		child, err := current.DeriveChild(idx)
		if err != nil {
			return nil, err
		}
		current = child
	}
	return current, nil
}

// PrivateKeyBytes returns the raw 32-byte private key.
// Returns nil if this is a public-only key.
func (k *HDKey) PrivateKeyBytes() []byte {
	if !k.key.IsPrivate {
		return nil
	}
	// bip32 Key.Key is 33 bytes with a leading 0x00 for private keys.
	raw := k.key.Key
	if len(raw) == 33 && raw[0] == 0 {
		return raw[1:]
	}
	return raw
}

// Signer returns the schnorr signing key for this HD key.
// Returns an error if this is a public-only key.
func (k *HDKey) Signer() (*crypto.PrivateKey, error) {
	priv := k.PrivateKeyBytes()
	if priv == nil {
		return nil, fmt.Errorf("cannot create signer from public key")
	}
	return crypto.PrivateKeyFromBytes(priv)
}

// PublicKey returns the x-only public key callers are identified by.
func (k *HDKey) PublicKey() (types.PublicKey, error) {
	signer, err := k.Signer()
	if err != nil {
		return types.PublicKey{}, err
	}
	return signer.PublicKey(), nil
}
