package engine

import "github.com/corsair-labs/bootynet-chain/pkg/types"

// Operation param payloads. Every field a caller signs over lives
// here; identities omitted from a payload default to the envelope
// signer.

type InitSupplyParams struct {
	Decimals  uint8   `json:"decimals"`
	MaxSupply *uint64 `json:"max_supply,omitempty"`
}

type MintParams struct {
	Recipient types.PublicKey `json:"recipient,omitempty"`
	Amount    uint64          `json:"amount"`
}

type BurnParams struct {
	Amount uint64 `json:"amount"`
}

// UpdateAuthorityParams carries an authority handover. The field is a
// pointer because vault_update treats a missing new_authority as
// keep-current; ledger_updateAuthority requires it.
type UpdateAuthorityParams struct {
	NewAuthority *types.PublicKey `json:"new_authority,omitempty"`
}

type UpdateMaxSupplyParams struct {
	MaxSupply *uint64 `json:"max_supply,omitempty"`
}

type DepositParams struct {
	From   types.PublicKey `json:"from,omitempty"`
	Amount uint64          `json:"amount"`
	Nonce  uint64          `json:"nonce"`
}

type ClaimParams struct {
	Record types.ProgramAddress `json:"record"`
}

type WhitelistParams struct {
	Asset   types.AssetID `json:"asset"`
	Enabled bool          `json:"enabled"`
}

type SearchParams struct {
	X     int32  `json:"x"`
	Y     int32  `json:"y"`
	Nonce uint64 `json:"nonce"`
}

type ResolveParams struct {
	Record types.ProgramAddress `json:"record"`
}

type MintCollectibleParams struct {
	Mint      types.AssetID   `json:"mint"`
	Recipient types.PublicKey `json:"recipient,omitempty"`
	Title     string          `json:"title"`
	Symbol    string          `json:"symbol"`
	URI       string          `json:"uri"`
}

type IssueForDepositParams struct {
	Mint      types.AssetID        `json:"mint"`
	Recipient types.PublicKey      `json:"recipient,omitempty"`
	Deposit   types.ProgramAddress `json:"deposit"`
	Title     string               `json:"title"`
	Symbol    string               `json:"symbol"`
	URI       string               `json:"uri"`
}
