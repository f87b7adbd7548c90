// Package assets defines the external asset-service collaborators.
//
// The Bootynet core never moves balances itself: the fungible-token
// ledger and the collectible issuer are external services with
// all-or-nothing call semantics. A collaborator failure aborts the
// whole operation; the enclosing storage transaction rolls back and no
// compensating action is needed.
package assets

import (
	"errors"

	"github.com/corsair-labs/bootynet-chain/pkg/types"
)

// Asset service errors.
var (
	ErrUnknownAsset          = errors.New("unknown asset")
	ErrAssetExists           = errors.New("asset already exists")
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrInvalidHoldingAccount = errors.New("invalid holding account")
	ErrNotAssetAuthority     = errors.New("not the asset authority")
)

// TokenService is the external fungible-asset ledger. Holding accounts
// are identified by (asset, owner); every call either fully applies or
// fails with no effect.
type TokenService interface {
	// CreateAsset registers a new fungible asset with the given mint
	// authority. Fails if the asset already exists.
	CreateAsset(asset types.AssetID, decimals uint8, authority types.PublicKey) error
	// Transfer moves amount from one owner's holding account to
	// another's. authorizedBy must own the source account.
	Transfer(asset types.AssetID, from, to types.PublicKey, amount uint64, authorizedBy types.PublicKey) error
	// MintTo credits amount to the recipient's holding account.
	// authorizedBy must be the asset's mint authority.
	MintTo(asset types.AssetID, to types.PublicKey, amount uint64, authorizedBy types.PublicKey) error
	// Burn debits amount from the owner's holding account.
	// authorizedBy must own the account being debited.
	Burn(asset types.AssetID, from types.PublicKey, amount uint64, authorizedBy types.PublicKey) error
	// BalanceOf reports the holding-account balance for (asset, owner).
	BalanceOf(asset types.AssetID, owner types.PublicKey) (uint64, error)
}

// Metadata describes a collectible for the external metadata service.
type Metadata struct {
	Name            string
	Symbol          string
	URI             string
	RoyaltyBP       uint16
	Mutable         bool
	UpdateAuthority types.PublicKey
}

// CollectibleService is the external unique-asset issuer. Issue
// enforces mint-once: a given mint target can be issued exactly one
// unit, exactly once.
type CollectibleService interface {
	// Issue creates the unique asset at mint and transfers its single
	// unit to the recipient's holding account.
	Issue(mint types.AssetID, to types.PublicKey, authorizedBy types.PublicKey) error
	// CreateMetadata attaches metadata to an issued asset.
	CreateMetadata(mint types.AssetID, meta Metadata) error
}
