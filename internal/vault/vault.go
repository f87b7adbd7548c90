// Package vault implements the deposit-and-claim vault and its asset
// whitelist.
//
// Players deposit the reward token into the vault's custody balance;
// each deposit produces one DepositRecord addressed by (depositor,
// nonce), classified into a tier, claimable exactly once. The
// whitelist gates which assets the vault accepts, and only the vault
// authority may edit it.
package vault

import (
	"errors"
	"fmt"
	"math"

	"github.com/corsair-labs/bootynet-chain/config"
	"github.com/corsair-labs/bootynet-chain/internal/assets"
	"github.com/corsair-labs/bootynet-chain/internal/derive"
	klog "github.com/corsair-labs/bootynet-chain/internal/log"
	"github.com/corsair-labs/bootynet-chain/internal/record"
	"github.com/corsair-labs/bootynet-chain/internal/storage"
	"github.com/corsair-labs/bootynet-chain/pkg/types"
	"github.com/rs/zerolog"
)

// Vault errors.
var (
	ErrAlreadyInitialized  = errors.New("vault already initialized")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInsufficientDeposit = errors.New("deposit below minimum")
	ErrDuplicateDeposit    = errors.New("duplicate deposit nonce")
	ErrAlreadyClaimed      = errors.New("deposit already claimed")
	ErrArithmeticOverflow  = errors.New("arithmetic overflow")
	ErrAssetNotWhitelisted = errors.New("asset not whitelisted")
	ErrInvalidAuthority    = errors.New("invalid authority")
)

// Derivation namespaces.
var (
	Namespace          = []byte("vault")
	DepositNamespace   = []byte("deposit")
	WhitelistNamespace = []byte("whitelist")
)

// Vault executes deposit, claim and whitelist operations for one
// accepted asset.
type Vault struct {
	db     storage.DB
	tokens assets.TokenService
	asset  types.AssetID
	params config.Params
	logger zerolog.Logger
}

// New creates a vault service custoding the given asset under the
// given protocol parameters.
func New(db storage.DB, tokens assets.TokenService, asset types.AssetID, params config.Params) *Vault {
	return &Vault{
		db:     db,
		tokens: tokens,
		asset:  asset,
		params: params,
		logger: klog.Vault,
	}
}

// Address derives the VaultState address for an asset.
func Address(asset types.AssetID) (types.ProgramAddress, uint8, error) {
	return derive.Derive(Namespace, asset[:])
}

// DepositAddress derives the DepositRecord address for a (depositor,
// nonce) pair.
func DepositAddress(depositor types.PublicKey, nonce uint64) (types.ProgramAddress, uint8, error) {
	return derive.Derive(DepositNamespace, depositor[:], derive.U64Seed(nonce))
}

// WhitelistAddress derives the WhitelistEntry address for an asset.
func WhitelistAddress(asset types.AssetID) (types.ProgramAddress, uint8, error) {
	return derive.Derive(WhitelistNamespace, asset[:])
}

// Asset returns the asset this vault custodies.
func (v *Vault) Asset() types.AssetID {
	return v.asset
}

// Custody returns the identity holding the vault's pooled balance: the
// vault record's own derived address.
func (v *Vault) Custody() (types.PublicKey, error) {
	addr, _, err := Address(v.asset)
	if err != nil {
		return types.PublicKey{}, err
	}
	return types.PublicKey(addr), nil
}

// InitVault creates the VaultState with zeroed counters. Fails if the
// vault already exists.
func (v *Vault) InitVault(authority types.PublicKey) (*VaultState, error) {
	addr, bump, err := Address(v.asset)
	if err != nil {
		return nil, err
	}

	state := &VaultState{Authority: authority, Bump: bump}
	err = v.db.Update(func(txn storage.Txn) error {
		if err := record.Create(txn, addr, state.Encode()); err != nil {
			if errors.Is(err, record.ErrExists) {
				return ErrAlreadyInitialized
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	v.logger.Info().
		Str("asset", v.asset.Short()).
		Str("authority", authority.Short()).
		Msg("vault initialized")

	return state, nil
}

// Deposit moves amount from the depositor's holding account into the
// vault custody balance and creates the deposit record. The holding
// account must belong to the depositor, the asset must be whitelisted,
// the amount must meet the deposit floor, and the (depositor, nonce)
// pair must be fresh.
func (v *Vault) Deposit(depositor, from types.PublicKey, amount, nonce uint64) (*DepositRecord, types.ProgramAddress, error) {
	vaultAddr, _, err := Address(v.asset)
	if err != nil {
		return nil, types.ProgramAddress{}, err
	}
	depAddr, depBump, err := DepositAddress(depositor, nonce)
	if err != nil {
		return nil, types.ProgramAddress{}, err
	}

	if amount < v.params.MinDepositAmount() {
		return nil, types.ProgramAddress{}, fmt.Errorf("%w: %d < %d base units",
			ErrInsufficientDeposit, amount, v.params.MinDepositAmount())
	}
	if from != depositor {
		return nil, types.ProgramAddress{}, fmt.Errorf("%w: holding account %s does not belong to %s",
			assets.ErrInvalidHoldingAccount, from.Short(), depositor.Short())
	}

	dep := &DepositRecord{
		Depositor: depositor,
		Amount:    amount,
		Nonce:     nonce,
		Tier:      TierOf(amount, v.params),
		Bump:      depBump,
	}

	err = v.db.Update(func(txn storage.Txn) error {
		data, err := record.Get(txn, vaultAddr)
		if err != nil {
			return err
		}
		state, err := DecodeVaultState(data)
		if err != nil {
			return err
		}

		if err := v.checkWhitelisted(txn); err != nil {
			return err
		}
		if state.TotalDeposited > math.MaxUint64-amount {
			return fmt.Errorf("%w: deposited %d + %d", ErrArithmeticOverflow, state.TotalDeposited, amount)
		}

		if err := record.Create(txn, depAddr, dep.Encode()); err != nil {
			if errors.Is(err, record.ErrExists) {
				return fmt.Errorf("%w: depositor %s nonce %d", ErrDuplicateDeposit, depositor.Short(), nonce)
			}
			return err
		}

		if err := v.tokens.Transfer(v.asset, depositor, types.PublicKey(vaultAddr), amount, depositor); err != nil {
			return fmt.Errorf("custody transfer: %w", err)
		}

		state.TotalDeposited += amount
		return record.Put(txn, vaultAddr, state.Encode())
	})
	if err != nil {
		return nil, types.ProgramAddress{}, err
	}

	v.logger.Info().
		Str("depositor", depositor.Short()).
		Uint64("amount", amount).
		Uint64("nonce", nonce).
		Uint8("tier", dep.Tier).
		Str("record", depAddr.Short()).
		Msg("deposit recorded")

	return dep, depAddr, nil
}

// Claim marks a deposit record as claimed. Only the record's depositor
// may claim, and only once.
func (v *Vault) Claim(depositor types.PublicKey, recordAddr types.ProgramAddress) (*DepositRecord, error) {
	vaultAddr, _, err := Address(v.asset)
	if err != nil {
		return nil, err
	}

	var dep *DepositRecord
	err = v.db.Update(func(txn storage.Txn) error {
		data, err := record.Get(txn, recordAddr)
		if err != nil {
			return err
		}
		dep, err = DecodeDepositRecord(data)
		if err != nil {
			return err
		}
		if dep.Depositor != depositor {
			return fmt.Errorf("%w: record belongs to %s", ErrUnauthorized, dep.Depositor.Short())
		}
		if dep.Claimed {
			return fmt.Errorf("%w: nonce %d", ErrAlreadyClaimed, dep.Nonce)
		}

		vdata, err := record.Get(txn, vaultAddr)
		if err != nil {
			return err
		}
		state, err := DecodeVaultState(vdata)
		if err != nil {
			return err
		}
		if state.TotalClaimedCount == math.MaxUint64 {
			return fmt.Errorf("%w: claimed count", ErrArithmeticOverflow)
		}

		dep.Claimed = true
		if err := record.Put(txn, recordAddr, dep.Encode()); err != nil {
			return err
		}
		state.TotalClaimedCount++
		return record.Put(txn, vaultAddr, state.Encode())
	})
	if err != nil {
		return nil, err
	}

	v.logger.Info().
		Str("depositor", depositor.Short()).
		Uint64("nonce", dep.Nonce).
		Uint8("tier", dep.Tier).
		Msg("deposit claimed")

	return dep, nil
}

// SetWhitelist creates or rewrites the whitelist entry for an asset.
// Only the vault authority may call it; repeating a setting is a
// no-op rewrite.
func (v *Vault) SetWhitelist(caller types.PublicKey, asset types.AssetID, enabled bool) (*WhitelistEntry, error) {
	vaultAddr, _, err := Address(v.asset)
	if err != nil {
		return nil, err
	}
	wlAddr, wlBump, err := WhitelistAddress(asset)
	if err != nil {
		return nil, err
	}

	entry := &WhitelistEntry{Asset: asset, Enabled: enabled, Bump: wlBump}
	err = v.db.Update(func(txn storage.Txn) error {
		data, err := record.Get(txn, vaultAddr)
		if err != nil {
			return err
		}
		state, err := DecodeVaultState(data)
		if err != nil {
			return err
		}
		if caller != state.Authority {
			return fmt.Errorf("%w: caller %s is not the vault authority", ErrUnauthorized, caller.Short())
		}
		return record.Put(txn, wlAddr, entry.Encode())
	})
	if err != nil {
		return nil, err
	}

	v.logger.Info().
		Str("asset", asset.Short()).
		Bool("enabled", enabled).
		Msg("whitelist updated")

	return entry, nil
}

// UpdateAuthority replaces the vault authority. Only the current
// authority may do so. A nil newAuthority keeps the current one; a
// zero key is rejected because nothing can ever sign for it.
func (v *Vault) UpdateAuthority(caller types.PublicKey, newAuthority *types.PublicKey) (*VaultState, error) {
	if newAuthority != nil && newAuthority.IsZero() {
		return nil, fmt.Errorf("%w: new authority is the zero key", ErrInvalidAuthority)
	}

	vaultAddr, _, err := Address(v.asset)
	if err != nil {
		return nil, err
	}

	var state *VaultState
	err = v.db.Update(func(txn storage.Txn) error {
		data, err := record.Get(txn, vaultAddr)
		if err != nil {
			return err
		}
		state, err = DecodeVaultState(data)
		if err != nil {
			return err
		}
		if caller != state.Authority {
			return fmt.Errorf("%w: caller %s is not the vault authority", ErrUnauthorized, caller.Short())
		}
		if newAuthority != nil {
			state.Authority = *newAuthority
		}
		return record.Put(txn, vaultAddr, state.Encode())
	})
	if err != nil {
		return nil, err
	}

	v.logger.Info().
		Str("authority", state.Authority.Short()).
		Msg("vault authority updated")

	return state, nil
}

// Get reads the VaultState.
func (v *Vault) Get() (*VaultState, error) {
	addr, _, err := Address(v.asset)
	if err != nil {
		return nil, err
	}

	var state *VaultState
	err = v.db.View(func(txn storage.Txn) error {
		data, err := record.Get(txn, addr)
		if err != nil {
			return err
		}
		state, err = DecodeVaultState(data)
		return err
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

// GetDeposit reads a DepositRecord by address.
func (v *Vault) GetDeposit(addr types.ProgramAddress) (*DepositRecord, error) {
	var dep *DepositRecord
	err := v.db.View(func(txn storage.Txn) error {
		data, err := record.Get(txn, addr)
		if err != nil {
			return err
		}
		dep, err = DecodeDepositRecord(data)
		return err
	})
	if err != nil {
		return nil, err
	}
	return dep, nil
}

// GetWhitelist reads the WhitelistEntry for an asset.
func (v *Vault) GetWhitelist(asset types.AssetID) (*WhitelistEntry, error) {
	addr, _, err := WhitelistAddress(asset)
	if err != nil {
		return nil, err
	}

	var entry *WhitelistEntry
	err = v.db.View(func(txn storage.Txn) error {
		data, err := record.Get(txn, addr)
		if err != nil {
			return err
		}
		entry, err = DecodeWhitelistEntry(data)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Authority reads the current vault authority. Used by services that
// gate their admin operations on the vault's authority.
func (v *Vault) Authority(txn storage.Txn) (types.PublicKey, error) {
	addr, _, err := Address(v.asset)
	if err != nil {
		return types.PublicKey{}, err
	}
	data, err := record.Get(txn, addr)
	if err != nil {
		return types.PublicKey{}, err
	}
	state, err := DecodeVaultState(data)
	if err != nil {
		return types.PublicKey{}, err
	}
	return state.Authority, nil
}

func (v *Vault) checkWhitelisted(txn storage.Txn) error {
	addr, _, err := WhitelistAddress(v.asset)
	if err != nil {
		return err
	}
	data, err := record.Get(txn, addr)
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrAssetNotWhitelisted, v.asset.Short())
		}
		return err
	}
	entry, err := DecodeWhitelistEntry(data)
	if err != nil {
		return err
	}
	if !entry.Enabled {
		return fmt.Errorf("%w: %s is disabled", ErrAssetNotWhitelisted, v.asset.Short())
	}
	return nil
}
