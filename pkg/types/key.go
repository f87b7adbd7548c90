// Package types defines core primitive types for the Bootynet program.
package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// KeySize is the length of a public key (and every identity derived
// from one) in bytes.
const KeySize = 32

// PublicKey is a 32-byte x-only secp256k1 public key. It identifies
// every signer in the system: authorities, depositors, searchers and
// payers.
type PublicKey [KeySize]byte

// AssetID identifies a fungible or unique asset on the external ledger.
type AssetID PublicKey

// ProgramAddress is a derived record address. It names exactly one
// slot in the account store.
type ProgramAddress PublicKey

// IsZero returns true if the key is all zeros.
func (p PublicKey) IsZero() bool {
	return p == PublicKey{}
}

// String returns the hex-encoded key.
func (p PublicKey) String() string {
	return hex.EncodeToString(p[:])
}

// Short returns the first 8 hex characters, for log output.
func (p PublicKey) Short() string {
	return p.String()[:8]
}

// Bytes returns a copy of the key as a byte slice.
func (p PublicKey) Bytes() []byte {
	b := make([]byte, KeySize)
	copy(b, p[:])
	return b
}

// MarshalJSON encodes the key as a hex string.
func (p PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON decodes a hex string into a public key.
func (p *PublicKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*p = PublicKey{}
		return nil
	}
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("invalid key hex: %w", err)
	}
	if len(decoded) != KeySize {
		return fmt.Errorf("key must be %d bytes, got %d", KeySize, len(decoded))
	}
	copy(p[:], decoded)
	return nil
}

// HexToPublicKey converts a hex string to a PublicKey.
// Returns an error if the string is not exactly 64 hex characters.
func HexToPublicKey(s string) (PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return PublicKey{}, fmt.Errorf("invalid hex: %w", err)
	}
	if len(b) != KeySize {
		return PublicKey{}, fmt.Errorf("key must be %d bytes, got %d", KeySize, len(b))
	}
	var p PublicKey
	copy(p[:], b)
	return p, nil
}

// IsZero returns true if the asset ID is all zeros.
func (a AssetID) IsZero() bool {
	return PublicKey(a).IsZero()
}

// String returns the hex-encoded asset ID.
func (a AssetID) String() string {
	return PublicKey(a).String()
}

// Short returns the first 8 hex characters, for log output.
func (a AssetID) Short() string {
	return PublicKey(a).Short()
}

// MarshalJSON encodes the asset ID as a hex string.
func (a AssetID) MarshalJSON() ([]byte, error) {
	return PublicKey(a).MarshalJSON()
}

// UnmarshalJSON decodes a hex string into an asset ID.
func (a *AssetID) UnmarshalJSON(data []byte) error {
	return (*PublicKey)(a).UnmarshalJSON(data)
}

// HexToAssetID converts a hex string to an AssetID.
func HexToAssetID(s string) (AssetID, error) {
	p, err := HexToPublicKey(s)
	return AssetID(p), err
}

// IsZero returns true if the address is all zeros.
func (a ProgramAddress) IsZero() bool {
	return PublicKey(a).IsZero()
}

// String returns the hex-encoded address.
func (a ProgramAddress) String() string {
	return PublicKey(a).String()
}

// Short returns the first 8 hex characters, for log output.
func (a ProgramAddress) Short() string {
	return PublicKey(a).Short()
}

// Bytes returns a copy of the address as a byte slice.
func (a ProgramAddress) Bytes() []byte {
	return PublicKey(a).Bytes()
}

// MarshalJSON encodes the address as a hex string.
func (a ProgramAddress) MarshalJSON() ([]byte, error) {
	return PublicKey(a).MarshalJSON()
}

// UnmarshalJSON decodes a hex string into a program address.
func (a *ProgramAddress) UnmarshalJSON(data []byte) error {
	return (*PublicKey)(a).UnmarshalJSON(data)
}

// HexToProgramAddress converts a hex string to a ProgramAddress.
func HexToProgramAddress(s string) (ProgramAddress, error) {
	p, err := HexToPublicKey(s)
	return ProgramAddress(p), err
}
