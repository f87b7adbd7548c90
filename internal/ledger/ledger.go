// Package ledger implements the reward-token supply ledger.
//
// One SupplyState record per asset tracks cumulative minted and burned
// amounts under an optional, never-decreasing supply cap. The actual
// balance movements happen on the external token service; this package
// owns the accounting invariants layered on top.
package ledger

import (
	"errors"
	"fmt"
	"math"

	"github.com/corsair-labs/bootynet-chain/internal/assets"
	"github.com/corsair-labs/bootynet-chain/internal/derive"
	klog "github.com/corsair-labs/bootynet-chain/internal/log"
	"github.com/corsair-labs/bootynet-chain/internal/record"
	"github.com/corsair-labs/bootynet-chain/internal/storage"
	"github.com/corsair-labs/bootynet-chain/pkg/types"
	"github.com/rs/zerolog"
)

// Supply ledger errors.
var (
	ErrAlreadyInitialized      = errors.New("supply ledger already initialized")
	ErrUnauthorized            = errors.New("unauthorized")
	ErrArithmeticOverflow      = errors.New("arithmetic overflow")
	ErrMaxSupplyExceeded       = errors.New("maximum supply exceeded")
	ErrCannotDecreaseMaxSupply = errors.New("cannot decrease maximum supply")
	ErrInvalidMint             = errors.New("invalid mint")
	ErrInvalidAuthority        = errors.New("invalid authority")
)

// Namespace tags SupplyState addresses: derive("supply", asset).
var Namespace = []byte("supply")

// Ledger executes supply operations against the account store.
type Ledger struct {
	db     storage.DB
	tokens assets.TokenService
	logger zerolog.Logger
}

// New creates a supply ledger backed by the given store and external
// token service.
func New(db storage.DB, tokens assets.TokenService) *Ledger {
	return &Ledger{
		db:     db,
		tokens: tokens,
		logger: klog.Ledger,
	}
}

// Address derives the SupplyState address for an asset.
func Address(asset types.AssetID) (types.ProgramAddress, uint8, error) {
	return derive.Derive(Namespace, asset[:])
}

// mintAuthority is the identity the ledger uses when authorizing
// external mints: the state record's own derived address, so only this
// program can ever mint the asset.
func mintAuthority(addr types.ProgramAddress) types.PublicKey {
	return types.PublicKey(addr)
}

// InitSupply creates the SupplyState for an asset and registers the
// asset with the external token service, with the derived state
// address as its mint authority. Fails if the ledger already exists.
func (l *Ledger) InitSupply(authority types.PublicKey, asset types.AssetID, decimals uint8, maxSupply *uint64) (*SupplyState, error) {
	addr, bump, err := Address(asset)
	if err != nil {
		return nil, err
	}

	state := &SupplyState{
		Asset:     asset,
		Authority: authority,
		MaxSupply: maxSupply,
		Bump:      bump,
	}

	err = l.db.Update(func(txn storage.Txn) error {
		if err := record.Create(txn, addr, state.Encode()); err != nil {
			if errors.Is(err, record.ErrExists) {
				return fmt.Errorf("%w: asset %s", ErrAlreadyInitialized, asset.Short())
			}
			return err
		}
		return l.tokens.CreateAsset(asset, decimals, mintAuthority(addr))
	})
	if err != nil {
		return nil, err
	}

	evt := l.logger.Info().
		Str("asset", asset.Short()).
		Str("authority", authority.Short())
	if maxSupply != nil {
		evt = evt.Uint64("max_supply", *maxSupply)
	}
	evt.Msg("supply ledger initialized")

	return state, nil
}

// Mint credits amount to the recipient and records it against the cap.
// The external mint is authorized by the ledger itself, never by the
// requesting player.
func (l *Ledger) Mint(asset types.AssetID, recipient types.PublicKey, amount uint64) (*SupplyState, error) {
	addr, _, err := Address(asset)
	if err != nil {
		return nil, err
	}

	var state *SupplyState
	err = l.db.Update(func(txn storage.Txn) error {
		data, err := record.Get(txn, addr)
		if err != nil {
			return err
		}
		state, err = DecodeSupplyState(data)
		if err != nil {
			return err
		}
		if state.Asset != asset {
			return fmt.Errorf("%w: ledger tracks %s", ErrInvalidMint, state.Asset.Short())
		}

		if state.TotalMinted > math.MaxUint64-amount {
			return fmt.Errorf("%w: minted %d + %d", ErrArithmeticOverflow, state.TotalMinted, amount)
		}
		newTotal := state.TotalMinted + amount
		if state.MaxSupply != nil && newTotal > *state.MaxSupply {
			return fmt.Errorf("%w: %d would exceed cap %d", ErrMaxSupplyExceeded, newTotal, *state.MaxSupply)
		}

		if err := l.tokens.MintTo(asset, recipient, amount, mintAuthority(addr)); err != nil {
			return fmt.Errorf("external mint: %w", err)
		}

		state.TotalMinted = newTotal
		return record.Put(txn, addr, state.Encode())
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info().
		Str("asset", asset.Short()).
		Str("recipient", recipient.Short()).
		Uint64("amount", amount).
		Uint64("total_minted", state.TotalMinted).
		Uint64("net_supply", state.NetSupply()).
		Msg("minted")

	return state, nil
}

// Burn debits amount from the owner's holding account, authorized by
// the owner, and records it in the burned accumulator.
func (l *Ledger) Burn(asset types.AssetID, owner types.PublicKey, amount uint64) (*SupplyState, error) {
	addr, _, err := Address(asset)
	if err != nil {
		return nil, err
	}

	var state *SupplyState
	err = l.db.Update(func(txn storage.Txn) error {
		data, err := record.Get(txn, addr)
		if err != nil {
			return err
		}
		state, err = DecodeSupplyState(data)
		if err != nil {
			return err
		}

		if state.TotalBurned > math.MaxUint64-amount {
			return fmt.Errorf("%w: burned %d + %d", ErrArithmeticOverflow, state.TotalBurned, amount)
		}

		if err := l.tokens.Burn(asset, owner, amount, owner); err != nil {
			return fmt.Errorf("external burn: %w", err)
		}

		state.TotalBurned += amount
		return record.Put(txn, addr, state.Encode())
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info().
		Str("asset", asset.Short()).
		Str("owner", owner.Short()).
		Uint64("amount", amount).
		Uint64("total_burned", state.TotalBurned).
		Uint64("net_supply", state.NetSupply()).
		Msg("burned")

	return state, nil
}

// UpdateAuthority replaces the ledger authority. Only the current
// authority may do so.
func (l *Ledger) UpdateAuthority(asset types.AssetID, caller, newAuthority types.PublicKey) (*SupplyState, error) {
	// A zero key can never sign, so handing it authority would lock
	// out the admin surface for good.
	if newAuthority.IsZero() {
		return nil, fmt.Errorf("%w: new authority is the zero key", ErrInvalidAuthority)
	}

	addr, _, err := Address(asset)
	if err != nil {
		return nil, err
	}

	var state *SupplyState
	err = l.db.Update(func(txn storage.Txn) error {
		data, err := record.Get(txn, addr)
		if err != nil {
			return err
		}
		state, err = DecodeSupplyState(data)
		if err != nil {
			return err
		}
		if caller != state.Authority {
			return fmt.Errorf("%w: caller %s is not the ledger authority", ErrUnauthorized, caller.Short())
		}

		state.Authority = newAuthority
		return record.Put(txn, addr, state.Encode())
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info().
		Str("asset", asset.Short()).
		Str("new_authority", newAuthority.Short()).
		Msg("ledger authority updated")

	return state, nil
}

// UpdateMaxSupply raises or removes the supply cap. A set cap may only
// grow; unlimited (nil) is always an allowed target. A new cap below
// what has already been minted is rejected.
func (l *Ledger) UpdateMaxSupply(asset types.AssetID, caller types.PublicKey, newCap *uint64) (*SupplyState, error) {
	addr, _, err := Address(asset)
	if err != nil {
		return nil, err
	}

	var state *SupplyState
	err = l.db.Update(func(txn storage.Txn) error {
		data, err := record.Get(txn, addr)
		if err != nil {
			return err
		}
		state, err = DecodeSupplyState(data)
		if err != nil {
			return err
		}
		if caller != state.Authority {
			return fmt.Errorf("%w: caller %s is not the ledger authority", ErrUnauthorized, caller.Short())
		}

		if newCap != nil {
			if state.MaxSupply != nil && *newCap < *state.MaxSupply {
				return fmt.Errorf("%w: %d < %d", ErrCannotDecreaseMaxSupply, *newCap, *state.MaxSupply)
			}
			if *newCap < state.TotalMinted {
				return fmt.Errorf("%w: cap %d below minted %d", ErrMaxSupplyExceeded, *newCap, state.TotalMinted)
			}
		}

		state.MaxSupply = newCap
		return record.Put(txn, addr, state.Encode())
	})
	if err != nil {
		return nil, err
	}

	evt := l.logger.Info().Str("asset", asset.Short())
	if newCap != nil {
		evt = evt.Uint64("max_supply", *newCap)
	} else {
		evt = evt.Str("max_supply", "unlimited")
	}
	evt.Msg("max supply updated")

	return state, nil
}

// Get reads the SupplyState for an asset.
func (l *Ledger) Get(asset types.AssetID) (*SupplyState, error) {
	addr, _, err := Address(asset)
	if err != nil {
		return nil, err
	}

	var state *SupplyState
	err = l.db.View(func(txn storage.Txn) error {
		data, err := record.Get(txn, addr)
		if err != nil {
			return err
		}
		state, err = DecodeSupplyState(data)
		return err
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}
