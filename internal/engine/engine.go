// Package engine authenticates and dispatches signed operation
// requests to the domain services.
//
// The engine is the trust boundary: it verifies the envelope signature
// once, then hands the verified signer to the service layer, which
// treats it as the authenticated caller. Each operation runs as a
// single storage transaction inside its service; a failure leaves no
// trace.
package engine

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/corsair-labs/bootynet-chain/internal/collectible"
	"github.com/corsair-labs/bootynet-chain/internal/ledger"
	klog "github.com/corsair-labs/bootynet-chain/internal/log"
	"github.com/corsair-labs/bootynet-chain/internal/search"
	"github.com/corsair-labs/bootynet-chain/internal/vault"
	"github.com/corsair-labs/bootynet-chain/pkg/types"
	"github.com/rs/zerolog"
)

// Operation names. These are the write methods of the RPC surface.
const (
	OpInitSupply      = "ledger_initSupply"
	OpMint            = "ledger_mint"
	OpBurn            = "ledger_burn"
	OpUpdateAuthority = "ledger_updateAuthority"
	OpUpdateMaxSupply = "ledger_updateMaxSupply"
	OpInitVault       = "vault_init"
	OpDeposit         = "vault_deposit"
	OpClaim           = "vault_claim"
	OpWhitelist       = "vault_whitelist"
	OpUpdateVault     = "vault_update"
	OpSearch          = "search_submit"
	OpResolve         = "search_resolve"
	OpMintCollectible = "collectible_mint"
	OpIssueForDeposit = "collectible_issueForDeposit"
)

// Engine routes verified requests to the domain services.
//
// Writes are serialized: an operation couples an external asset-service
// call to its local commit, so two racing operations must never reach a
// state where one's storage commit fails after its external call
// already applied.
type Engine struct {
	asset       types.AssetID
	ledger      *ledger.Ledger
	vault       *vault.Vault
	search      *search.Ledger
	collectible *collectible.Issuer
	logger      zerolog.Logger

	mu sync.Mutex // serializes dispatch
}

// New creates an engine over the domain services for the node's
// configured reward asset.
func New(asset types.AssetID, l *ledger.Ledger, v *vault.Vault, s *search.Ledger, c *collectible.Issuer) *Engine {
	return &Engine{
		asset:       asset,
		ledger:      l,
		vault:       v,
		search:      s,
		collectible: c,
		logger:      klog.Engine,
	}
}

// Asset returns the reward asset the engine operates on.
func (e *Engine) Asset() types.AssetID {
	return e.asset
}

// Execute verifies the request signature and runs the operation,
// returning the operation's result value.
func (e *Engine) Execute(req *Request) (interface{}, error) {
	if err := req.Verify(); err != nil {
		e.logger.Warn().
			Str("op", req.Op).
			Str("signer", req.Signer.Short()).
			Err(err).
			Msg("rejected request")
		return nil, err
	}

	e.mu.Lock()
	result, err := e.dispatch(req)
	e.mu.Unlock()
	if err != nil {
		e.logger.Debug().
			Str("op", req.Op).
			Str("signer", req.Signer.Short()).
			Err(err).
			Msg("operation failed")
		return nil, err
	}
	return result, nil
}

func (e *Engine) dispatch(req *Request) (interface{}, error) {
	signer := req.Signer

	switch req.Op {
	case OpInitSupply:
		var p InitSupplyParams
		if err := decodeParams(req.Params, &p); err != nil {
			return nil, err
		}
		return e.ledger.InitSupply(signer, e.asset, p.Decimals, p.MaxSupply)

	case OpMint:
		var p MintParams
		if err := decodeParams(req.Params, &p); err != nil {
			return nil, err
		}
		recipient := p.Recipient
		if recipient.IsZero() {
			recipient = signer
		}
		return e.ledger.Mint(e.asset, recipient, p.Amount)

	case OpBurn:
		var p BurnParams
		if err := decodeParams(req.Params, &p); err != nil {
			return nil, err
		}
		return e.ledger.Burn(e.asset, signer, p.Amount)

	case OpUpdateAuthority:
		var p UpdateAuthorityParams
		if err := decodeParams(req.Params, &p); err != nil {
			return nil, err
		}
		if p.NewAuthority == nil {
			return nil, fmt.Errorf("%w: new_authority is required", ErrBadParams)
		}
		return e.ledger.UpdateAuthority(e.asset, signer, *p.NewAuthority)

	case OpUpdateMaxSupply:
		var p UpdateMaxSupplyParams
		if err := decodeParams(req.Params, &p); err != nil {
			return nil, err
		}
		return e.ledger.UpdateMaxSupply(e.asset, signer, p.MaxSupply)

	case OpInitVault:
		return e.vault.InitVault(signer)

	case OpDeposit:
		var p DepositParams
		if err := decodeParams(req.Params, &p); err != nil {
			return nil, err
		}
		from := p.From
		if from.IsZero() {
			from = signer
		}
		dep, addr, err := e.vault.Deposit(signer, from, p.Amount, p.Nonce)
		if err != nil {
			return nil, err
		}
		return &DepositResult{Record: dep, Address: addr}, nil

	case OpClaim:
		var p ClaimParams
		if err := decodeParams(req.Params, &p); err != nil {
			return nil, err
		}
		return e.vault.Claim(signer, p.Record)

	case OpWhitelist:
		var p WhitelistParams
		if err := decodeParams(req.Params, &p); err != nil {
			return nil, err
		}
		return e.vault.SetWhitelist(signer, p.Asset, p.Enabled)

	case OpUpdateVault:
		// A missing new_authority keeps the current one.
		var p UpdateAuthorityParams
		if err := decodeParams(req.Params, &p); err != nil {
			return nil, err
		}
		return e.vault.UpdateAuthority(signer, p.NewAuthority)

	case OpSearch:
		var p SearchParams
		if err := decodeParams(req.Params, &p); err != nil {
			return nil, err
		}
		rec, addr, err := e.search.Submit(signer, p.X, p.Y, p.Nonce)
		if err != nil {
			return nil, err
		}
		return &SearchResult{Record: rec, Address: addr}, nil

	case OpResolve:
		var p ResolveParams
		if err := decodeParams(req.Params, &p); err != nil {
			return nil, err
		}
		return e.search.Resolve(signer, p.Record)

	case OpMintCollectible:
		var p MintCollectibleParams
		if err := decodeParams(req.Params, &p); err != nil {
			return nil, err
		}
		recipient := p.Recipient
		if recipient.IsZero() {
			recipient = signer
		}
		if err := e.collectible.Mint(p.Mint, recipient, signer, p.Title, p.Symbol, p.URI); err != nil {
			return nil, err
		}
		return &MintCollectibleResult{Mint: p.Mint, Recipient: recipient}, nil

	case OpIssueForDeposit:
		var p IssueForDepositParams
		if err := decodeParams(req.Params, &p); err != nil {
			return nil, err
		}
		recipient := p.Recipient
		if recipient.IsZero() {
			recipient = signer
		}
		return e.collectible.IssueForDeposit(p.Mint, recipient, signer, p.Deposit, p.Title, p.Symbol, p.URI)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownOp, req.Op)
	}
}

// DepositResult pairs a deposit record with its derived address, which
// the depositor needs to claim later.
type DepositResult struct {
	Record  *vault.DepositRecord `json:"record"`
	Address types.ProgramAddress `json:"address"`
}

// SearchResult pairs a search record with its derived address.
type SearchResult struct {
	Record  *search.Record       `json:"record"`
	Address types.ProgramAddress `json:"address"`
}

// MintCollectibleResult reports an unanchored collectible mint.
type MintCollectibleResult struct {
	Mint      types.AssetID   `json:"mint"`
	Recipient types.PublicKey `json:"recipient"`
}

func decodeParams(raw json.RawMessage, dst interface{}) error {
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrBadParams, err)
	}
	return nil
}
