// Package record implements the account store: one fixed-schema
// binary record per derived program address.
//
// Every persisted record starts with an 8-byte type discriminator so a
// slot can never be decoded as the wrong record type. The store keys
// all records under a single prefix; listing by type filters on the
// discriminator.
package record

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/corsair-labs/bootynet-chain/internal/storage"
	"github.com/corsair-labs/bootynet-chain/pkg/crypto"
	"github.com/corsair-labs/bootynet-chain/pkg/types"
)

// Record errors.
var (
	ErrNotFound      = errors.New("record not found")
	ErrExists        = errors.New("record already exists")
	ErrInvalidRecord = errors.New("invalid record")
)

// DiscriminatorSize is the length of the type tag prefixing every record.
const DiscriminatorSize = 8

// prefixAccount is the keyspace for record slots: a/<address(32)>.
var prefixAccount = []byte("a/")

// Discriminator computes the 8-byte type tag for a record type name.
func Discriminator(name string) [DiscriminatorSize]byte {
	h := crypto.Hash([]byte("account:" + name))
	var d [DiscriminatorSize]byte
	copy(d[:], h[:DiscriminatorSize])
	return d
}

// Key builds the storage key for a program address.
func Key(addr types.ProgramAddress) []byte {
	key := make([]byte, len(prefixAccount)+types.KeySize)
	copy(key, prefixAccount)
	copy(key[len(prefixAccount):], addr[:])
	return key
}

// Get reads the raw record at addr within a transaction.
func Get(txn storage.Txn, addr types.ProgramAddress) ([]byte, error) {
	data, err := txn.Get(Key(addr))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, addr.Short())
	}
	return data, err
}

// Put writes the raw record at addr, creating or overwriting.
func Put(txn storage.Txn, addr types.ProgramAddress, data []byte) error {
	return txn.Put(Key(addr), data)
}

// Create writes the record only if the slot is empty. Returns
// ErrExists when the address is already occupied; this is the
// uniqueness guarantee behind nonce-addressed records.
func Create(txn storage.Txn, addr types.ProgramAddress, data []byte) error {
	err := txn.PutIfAbsent(Key(addr), data)
	if errors.Is(err, storage.ErrKeyExists) {
		return fmt.Errorf("%w: %s", ErrExists, addr.Short())
	}
	return err
}

// Exists reports whether the slot at addr is occupied.
func Exists(txn storage.Txn, addr types.ProgramAddress) (bool, error) {
	return txn.Has(Key(addr))
}

// CheckDiscriminator validates that data carries the expected type tag
// and at least the expected length. Returns the payload after the tag.
func CheckDiscriminator(data []byte, disc [DiscriminatorSize]byte, minLen int) ([]byte, error) {
	if len(data) < DiscriminatorSize {
		return nil, fmt.Errorf("%w: truncated (%d bytes)", ErrInvalidRecord, len(data))
	}
	if !bytes.Equal(data[:DiscriminatorSize], disc[:]) {
		return nil, fmt.Errorf("%w: discriminator mismatch", ErrInvalidRecord)
	}
	payload := data[DiscriminatorSize:]
	if len(payload) < minLen {
		return nil, fmt.Errorf("%w: payload %d bytes, want %d", ErrInvalidRecord, len(payload), minLen)
	}
	return payload, nil
}

// ForEach iterates over every record slot whose value starts with the
// given discriminator.
func ForEach(db storage.DB, disc [DiscriminatorSize]byte, fn func(addr types.ProgramAddress, data []byte) error) error {
	return db.ForEach(prefixAccount, func(key, value []byte) error {
		if len(key) < len(prefixAccount)+types.KeySize {
			return nil // Malformed key, skip.
		}
		if len(value) < DiscriminatorSize || !bytes.Equal(value[:DiscriminatorSize], disc[:]) {
			return nil
		}
		var addr types.ProgramAddress
		copy(addr[:], key[len(prefixAccount):])
		return fn(addr, value)
	})
}
