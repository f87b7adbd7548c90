// Package storage provides database abstractions.
//
// Every program operation runs inside a single Update transaction:
// all reads see a consistent snapshot, all writes commit together or
// not at all. PutIfAbsent is the create-if-absent primitive that
// enforces record uniqueness at a derived address.
package storage

import "errors"

// Storage errors.
var (
	ErrKeyNotFound = errors.New("key not found")
	ErrKeyExists   = errors.New("key already exists")
)

// Txn is a transactional view of the database. Writes are staged and
// become visible to subsequent reads within the same transaction; they
// are persisted only if the enclosing Update callback returns nil.
type Txn interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	Has(key []byte) (bool, error)
	// PutIfAbsent stores the pair only if the key is unoccupied.
	// Returns ErrKeyExists otherwise.
	PutIfAbsent(key, value []byte) error
}

// DB is the interface for transactional key-value storage.
type DB interface {
	// View runs fn in a read-only transaction.
	View(fn func(Txn) error) error
	// Update runs fn in a read-write transaction. If fn returns an
	// error, every staged write is discarded.
	Update(fn func(Txn) error) error
	// ForEach iterates over all keys with the given prefix.
	// The callback receives a copy of the key and value.
	// Return a non-nil error from fn to stop iteration early.
	ForEach(prefix []byte, fn func(key, value []byte) error) error
	Close() error
}
