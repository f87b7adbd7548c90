package engine

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/corsair-labs/bootynet-chain/pkg/crypto"
	"github.com/corsair-labs/bootynet-chain/pkg/types"
)

// Request envelope errors.
var (
	ErrUnknownOp    = errors.New("unknown operation")
	ErrBadSignature = errors.New("invalid request signature")
	ErrBadParams    = errors.New("invalid operation params")
)

// opTag domain-separates operation digests from every other signed
// payload on the network.
var opTag = []byte("bootynet/op/v1")

// Request is a caller-signed operation envelope. The signature covers
// the operation name and the exact param bytes, so a request cannot be
// replayed as a different operation or with altered params.
type Request struct {
	Op        string          `json:"op"`
	Params    json.RawMessage `json:"params"`
	Signer    types.PublicKey `json:"signer"`
	Signature string          `json:"signature"`
}

// Digest returns the signing digest for an (op, params) pair.
func Digest(op string, params []byte) types.Hash {
	return crypto.HashAll(opTag, []byte(op), params)
}

// Sign fills in the envelope's signature using the given key. The key
// must match the envelope's signer.
func (r *Request) Sign(key *crypto.PrivateKey) error {
	if key.PublicKey() != r.Signer {
		return fmt.Errorf("%w: key does not match signer", ErrBadSignature)
	}
	sig, err := key.Sign(Digest(r.Op, r.Params))
	if err != nil {
		return err
	}
	r.Signature = hex.EncodeToString(sig)
	return nil
}

// Verify checks the envelope signature against the signer key.
func (r *Request) Verify() error {
	if r.Signer.IsZero() {
		return fmt.Errorf("%w: missing signer", ErrBadSignature)
	}
	sig, err := hex.DecodeString(r.Signature)
	if err != nil || len(sig) != crypto.SignatureSize {
		return fmt.Errorf("%w: malformed signature", ErrBadSignature)
	}
	if !crypto.VerifySignature(Digest(r.Op, r.Params), sig, r.Signer) {
		return ErrBadSignature
	}
	return nil
}
