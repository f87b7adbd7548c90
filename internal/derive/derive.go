// Package derive implements deterministic program-address derivation.
//
// Every record in the account store lives at an address computed from
// a namespace tag and a sequence of seed byte-strings, so "does X
// exist" reduces to "is the slot at Derive(...) occupied". Addresses
// are BLAKE3 hashes constrained to be off the secp256k1 curve: no
// private key can ever sign as a record slot. The bump byte is the
// search counter that found the first off-curve candidate, stored in
// the record so the address can be re-checked without the search.
package derive

import (
	"encoding/binary"
	"errors"

	"github.com/corsair-labs/bootynet-chain/pkg/crypto"
	"github.com/corsair-labs/bootynet-chain/pkg/types"
)

// ErrDerivationExhausted is returned when no off-curve address exists
// in the bump search space. Vanishingly unlikely (probability ~2^-256)
// but total functions report it rather than panic.
var ErrDerivationExhausted = errors.New("address derivation exhausted")

// MaxBump is the first bump value tried; the search walks down to 0.
const MaxBump = 255

// programTag domain-separates Bootynet addresses from any other BLAKE3
// use in the system.
var programTag = []byte("bootynet/address/v1")

// Derive computes the program address for (namespace, seeds). It
// returns the first off-curve candidate walking bump values downward
// from MaxBump, along with the bump that produced it.
func Derive(namespace []byte, seeds ...[]byte) (types.ProgramAddress, uint8, error) {
	for bump := MaxBump; bump >= 0; bump-- {
		addr := candidate(namespace, seeds, uint8(bump))
		if crypto.IsOffCurve(addr) {
			return types.ProgramAddress(addr), uint8(bump), nil
		}
	}
	return types.ProgramAddress{}, 0, ErrDerivationExhausted
}

// DeriveWithBump recomputes the address for a stored bump and verifies
// it is off-curve. Used when validating a record against the address
// it claims to live at.
func DeriveWithBump(namespace []byte, seeds [][]byte, bump uint8) (types.ProgramAddress, error) {
	addr := candidate(namespace, seeds, bump)
	if !crypto.IsOffCurve(addr) {
		return types.ProgramAddress{}, ErrDerivationExhausted
	}
	return types.ProgramAddress(addr), nil
}

// candidate hashes programTag || namespace || seeds || bump with every
// variable-length part length-prefixed, so distinct seed tuples can
// never collide by shifting bytes across a boundary.
func candidate(namespace []byte, seeds [][]byte, bump uint8) types.Hash {
	parts := make([][]byte, 0, 2+2*(1+len(seeds))+1)
	parts = append(parts, programTag)
	parts = append(parts, lenPrefix(namespace), namespace)
	for _, seed := range seeds {
		parts = append(parts, lenPrefix(seed), seed)
	}
	parts = append(parts, []byte{bump})
	return crypto.HashAll(parts...)
}

func lenPrefix(b []byte) []byte {
	var p [2]byte
	binary.LittleEndian.PutUint16(p[:], uint16(len(b)))
	return p[:]
}

// U64Seed encodes a uint64 as an 8-byte little-endian seed. Deposit
// and search nonces use this form.
func U64Seed(v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return b[:]
}
