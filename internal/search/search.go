// Package search records coordinate search attempts.
//
// A search publishes an auditable intent ("was treasure at (x, y)?")
// and nothing else; correlation happens off-node. The monitoring
// service reports outcomes back through Resolve, gated on the vault
// authority.
package search

import (
	"errors"
	"fmt"

	"github.com/corsair-labs/bootynet-chain/internal/derive"
	klog "github.com/corsair-labs/bootynet-chain/internal/log"
	"github.com/corsair-labs/bootynet-chain/internal/record"
	"github.com/corsair-labs/bootynet-chain/internal/storage"
	"github.com/corsair-labs/bootynet-chain/internal/vault"
	"github.com/corsair-labs/bootynet-chain/pkg/types"
	"github.com/rs/zerolog"
)

// Search ledger errors.
var (
	ErrDuplicateSearch = errors.New("duplicate search nonce")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrAlreadyResolved = errors.New("search already resolved")
)

// Namespace tags SearchRecord addresses: derive("search", searcher, nonce).
var Namespace = []byte("search")

// Ledger executes search submissions and resolutions.
type Ledger struct {
	db     storage.DB
	vault  *vault.Vault
	logger zerolog.Logger
}

// New creates a search ledger. The vault supplies the authority that
// may resolve records.
func New(db storage.DB, v *vault.Vault) *Ledger {
	return &Ledger{
		db:     db,
		vault:  v,
		logger: klog.Search,
	}
}

// Address derives the SearchRecord address for a (searcher, nonce) pair.
func Address(searcher types.PublicKey, nonce uint64) (types.ProgramAddress, uint8, error) {
	return derive.Derive(Namespace, searcher[:], derive.U64Seed(nonce))
}

// Submit records a search at (x, y). It has no precondition beyond a
// fresh nonce and makes no external calls.
func (l *Ledger) Submit(searcher types.PublicKey, x, y int32, nonce uint64) (*Record, types.ProgramAddress, error) {
	addr, bump, err := Address(searcher, nonce)
	if err != nil {
		return nil, types.ProgramAddress{}, err
	}

	rec := &Record{
		Searcher: searcher,
		X:        x,
		Y:        y,
		Nonce:    nonce,
		Bump:     bump,
	}
	err = l.db.Update(func(txn storage.Txn) error {
		if err := record.Create(txn, addr, rec.Encode()); err != nil {
			if errors.Is(err, record.ErrExists) {
				return fmt.Errorf("%w: searcher %s nonce %d", ErrDuplicateSearch, searcher.Short(), nonce)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, types.ProgramAddress{}, err
	}

	l.logger.Info().
		Str("searcher", searcher.Short()).
		Int32("x", x).
		Int32("y", y).
		Uint64("nonce", nonce).
		Msg("search recorded")

	return rec, addr, nil
}

// Resolve marks a search record as found. Only the vault authority may
// resolve, and a record resolves at most once.
func (l *Ledger) Resolve(caller types.PublicKey, recordAddr types.ProgramAddress) (*Record, error) {
	var rec *Record
	err := l.db.Update(func(txn storage.Txn) error {
		authority, err := l.vault.Authority(txn)
		if err != nil {
			return err
		}
		if caller != authority {
			return fmt.Errorf("%w: caller %s is not the vault authority", ErrUnauthorized, caller.Short())
		}

		data, err := record.Get(txn, recordAddr)
		if err != nil {
			return err
		}
		rec, err = DecodeRecord(data)
		if err != nil {
			return err
		}
		if rec.Found {
			return fmt.Errorf("%w: nonce %d", ErrAlreadyResolved, rec.Nonce)
		}

		rec.Found = true
		return record.Put(txn, recordAddr, rec.Encode())
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info().
		Str("searcher", rec.Searcher.Short()).
		Int32("x", rec.X).
		Int32("y", rec.Y).
		Uint64("nonce", rec.Nonce).
		Msg("search resolved")

	return rec, nil
}

// Get reads a SearchRecord by address.
func (l *Ledger) Get(addr types.ProgramAddress) (*Record, error) {
	var rec *Record
	err := l.db.View(func(txn storage.Txn) error {
		data, err := record.Get(txn, addr)
		if err != nil {
			return err
		}
		rec, err = DecodeRecord(data)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}
