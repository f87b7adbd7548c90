// Package collectible issues premium collectibles through the
// external non-fungible asset service.
//
// Plain Mint is unguarded: the payer signs and gets a one-of-one asset
// with immutable metadata. IssueForDeposit additionally anchors the
// issuance to a claimed deposit record through a receipt, so one claim
// yields at most one collectible through that path.
package collectible

import (
	"errors"
	"fmt"

	"github.com/corsair-labs/bootynet-chain/internal/assets"
	"github.com/corsair-labs/bootynet-chain/internal/derive"
	klog "github.com/corsair-labs/bootynet-chain/internal/log"
	"github.com/corsair-labs/bootynet-chain/internal/record"
	"github.com/corsair-labs/bootynet-chain/internal/storage"
	"github.com/corsair-labs/bootynet-chain/internal/vault"
	"github.com/corsair-labs/bootynet-chain/pkg/types"
	"github.com/rs/zerolog"
)

// Issuer errors.
var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrDepositNotClaimed = errors.New("deposit not claimed")
	ErrAlreadyIssued     = errors.New("collectible already issued for deposit")
	ErrInvalidMetadata   = errors.New("invalid metadata")
)

// Metadata string limits, matching common collectible registries.
const (
	MaxTitleLen  = 32
	MaxSymbolLen = 10
	MaxURILen    = 200
)

// Namespace tags issuance receipts: derive("collectible", depositAddr).
var Namespace = []byte("collectible")

// Issuer drives collectible creation through the external service.
type Issuer struct {
	db           storage.DB
	collectibles assets.CollectibleService
	logger       zerolog.Logger
}

// New creates a collectible issuer.
func New(db storage.DB, collectibles assets.CollectibleService) *Issuer {
	return &Issuer{
		db:           db,
		collectibles: collectibles,
		logger:       klog.Collectible,
	}
}

// ReceiptAddress derives the issuance receipt address for a deposit
// record.
func ReceiptAddress(depositAddr types.ProgramAddress) (types.ProgramAddress, uint8, error) {
	return derive.Derive(Namespace, depositAddr[:])
}

// Mint issues a one-of-one collectible to the recipient and attaches
// immutable metadata with zero royalties, the payer as update
// authority. No local state is written.
func (i *Issuer) Mint(mint types.AssetID, recipient, payer types.PublicKey, title, symbol, uri string) error {
	if err := validateMetadata(title, symbol, uri); err != nil {
		return err
	}

	if err := i.collectibles.Issue(mint, recipient, payer); err != nil {
		return fmt.Errorf("issue: %w", err)
	}
	if err := i.collectibles.CreateMetadata(mint, assets.Metadata{
		Name:            title,
		Symbol:          symbol,
		URI:             uri,
		RoyaltyBP:       0,
		Mutable:         false,
		UpdateAuthority: payer,
	}); err != nil {
		return fmt.Errorf("create metadata: %w", err)
	}

	i.logger.Info().
		Str("mint", mint.Short()).
		Str("recipient", recipient.Short()).
		Str("title", title).
		Msg("collectible minted")

	return nil
}

// IssueForDeposit mints a collectible backed by a claimed deposit
// record. The recipient must be the record's depositor, and each
// deposit record backs at most one collectible: a receipt is created
// at an address derived from the record, atomically with the external
// calls.
func (i *Issuer) IssueForDeposit(mint types.AssetID, recipient, payer types.PublicKey, depositAddr types.ProgramAddress, title, symbol, uri string) (*Receipt, error) {
	if err := validateMetadata(title, symbol, uri); err != nil {
		return nil, err
	}
	receiptAddr, bump, err := ReceiptAddress(depositAddr)
	if err != nil {
		return nil, err
	}

	receipt := &Receipt{Deposit: depositAddr, Mint: mint, Bump: bump}
	err = i.db.Update(func(txn storage.Txn) error {
		data, err := record.Get(txn, depositAddr)
		if err != nil {
			return err
		}
		dep, err := vault.DecodeDepositRecord(data)
		if err != nil {
			return err
		}
		if dep.Depositor != recipient {
			return fmt.Errorf("%w: deposit belongs to %s", ErrUnauthorized, dep.Depositor.Short())
		}
		if !dep.Claimed {
			return fmt.Errorf("%w: nonce %d", ErrDepositNotClaimed, dep.Nonce)
		}

		if err := record.Create(txn, receiptAddr, receipt.Encode()); err != nil {
			if errors.Is(err, record.ErrExists) {
				return fmt.Errorf("%w: record %s", ErrAlreadyIssued, depositAddr.Short())
			}
			return err
		}

		if err := i.collectibles.Issue(mint, recipient, payer); err != nil {
			return fmt.Errorf("issue: %w", err)
		}
		if err := i.collectibles.CreateMetadata(mint, assets.Metadata{
			Name:            title,
			Symbol:          symbol,
			URI:             uri,
			RoyaltyBP:       0,
			Mutable:         false,
			UpdateAuthority: payer,
		}); err != nil {
			return fmt.Errorf("create metadata: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	i.logger.Info().
		Str("mint", mint.Short()).
		Str("recipient", recipient.Short()).
		Str("deposit", depositAddr.Short()).
		Msg("collectible issued for deposit")

	return receipt, nil
}

// GetReceipt reads the issuance receipt for a deposit record, if any.
func (i *Issuer) GetReceipt(depositAddr types.ProgramAddress) (*Receipt, error) {
	addr, _, err := ReceiptAddress(depositAddr)
	if err != nil {
		return nil, err
	}

	var receipt *Receipt
	err = i.db.View(func(txn storage.Txn) error {
		data, err := record.Get(txn, addr)
		if err != nil {
			return err
		}
		receipt, err = DecodeReceipt(data)
		return err
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

func validateMetadata(title, symbol, uri string) error {
	switch {
	case title == "" || len(title) > MaxTitleLen:
		return fmt.Errorf("%w: title length %d", ErrInvalidMetadata, len(title))
	case len(symbol) > MaxSymbolLen:
		return fmt.Errorf("%w: symbol length %d", ErrInvalidMetadata, len(symbol))
	case uri == "" || len(uri) > MaxURILen:
		return fmt.Errorf("%w: uri length %d", ErrInvalidMetadata, len(uri))
	}
	return nil
}
