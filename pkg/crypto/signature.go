package crypto

import (
	"fmt"

	"github.com/corsair-labs/bootynet-chain/pkg/types"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// SignatureSize is the length of a serialized Schnorr signature.
const SignatureSize = 64

// PrivateKey wraps a secp256k1 private key for Schnorr signing.
// Its 32-byte x-only public key is the holder's on-ledger identity.
type PrivateKey struct {
	key *secp256k1.PrivateKey
}

// GenerateKey creates a new random secp256k1 private key.
func GenerateKey() (*PrivateKey, error) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return &PrivateKey{key: key}, nil
}

// PrivateKeyFromBytes creates a PrivateKey from a 32-byte secret.
func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("private key must be 32 bytes, got %d", len(b))
	}
	key := secp256k1.PrivKeyFromBytes(b)
	return &PrivateKey{key: key}, nil
}

// Sign produces a Schnorr signature over a 32-byte digest.
func (pk *PrivateKey) Sign(digest types.Hash) ([]byte, error) {
	sig, err := schnorr.Sign(pk.key, digest[:])
	if err != nil {
		return nil, fmt.Errorf("schnorr sign: %w", err)
	}
	return sig.Serialize(), nil
}

// PublicKey returns the 32-byte x-only public key identity.
func (pk *PrivateKey) PublicKey() types.PublicKey {
	var p types.PublicKey
	copy(p[:], schnorr.SerializePubKey(pk.key.PubKey()))
	return p
}

// Serialize returns the 32-byte private key scalar.
func (pk *PrivateKey) Serialize() []byte {
	return pk.key.Serialize()
}

// Zero securely zeroes the private key memory.
func (pk *PrivateKey) Zero() {
	pk.key.Zero()
}

// VerifySignature checks a Schnorr signature against a 32-byte digest
// and an x-only public key. Returns false on any error.
func VerifySignature(digest types.Hash, signature []byte, signer types.PublicKey) bool {
	pubKey, err := schnorr.ParsePubKey(signer[:])
	if err != nil {
		return false
	}
	sig, err := schnorr.ParseSignature(signature)
	if err != nil {
		return false
	}
	return sig.Verify(digest[:], pubKey)
}

// IsOffCurve reports whether a 32-byte value is NOT a valid x-only
// secp256k1 public key. Derived program addresses must be off-curve so
// that no private key can ever sign for a record slot.
func IsOffCurve(b [32]byte) bool {
	_, err := schnorr.ParsePubKey(b[:])
	return err != nil
}
