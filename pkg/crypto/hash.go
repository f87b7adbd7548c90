// Package crypto provides cryptographic primitives for the Bootynet
// program: BLAKE3 hashing and Schnorr/secp256k1 signing.
package crypto

import (
	"github.com/corsair-labs/bootynet-chain/pkg/types"
	"github.com/zeebo/blake3"
)

// Hash computes a BLAKE3-256 hash of the input data.
func Hash(data []byte) types.Hash {
	return blake3.Sum256(data)
}

// HashAll hashes the concatenation of the given chunks in order.
// Callers that need boundary safety must length-prefix chunks
// themselves (the address deriver does).
func HashAll(chunks ...[]byte) types.Hash {
	h := blake3.New()
	for _, c := range chunks {
		_, _ = h.Write(c) // blake3 Write never fails
	}
	var out types.Hash
	copy(out[:], h.Sum(nil))
	return out
}
