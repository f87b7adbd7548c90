package rpc

import (
	"encoding/json"

	"github.com/corsair-labs/bootynet-chain/pkg/types"
)

// JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
	CodeNotFound       = -32000
	CodeUnauthorized   = -32001
	CodeConflict       = -32002
	CodeRejected       = -32003
)

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
	ID      interface{} `json:"id"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   *Error      `json:"error,omitempty"`
	ID      interface{} `json:"id"`
}

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ── Param types ─────────────────────────────────────────────────────────

// SignedParams is the envelope every write method carries: the signed
// operation payload plus the signer and signature. The operation name
// is the RPC method itself.
type SignedParams struct {
	Params    json.RawMessage `json:"params"`
	Signer    types.PublicKey `json:"signer"`
	Signature string          `json:"signature"`
}

// RecordParam is used by read methods that take a derived address.
type RecordParam struct {
	Record string `json:"record"`
}

// AssetParam is used by vault_getWhitelist.
type AssetParam struct {
	Asset string `json:"asset"`
}

// ── Result types ────────────────────────────────────────────────────────

// NodeInfoResult is returned by node_info.
type NodeInfoResult struct {
	Version          string `json:"version"`
	Asset            string `json:"asset"`
	Devnet           bool   `json:"devnet"`
	Decimals         uint8  `json:"decimals"`
	MinDepositTokens uint64 `json:"min_deposit_tokens"`
}

// AddressResult pairs a record with its derived address.
type AddressResult struct {
	Address string      `json:"address"`
	Record  interface{} `json:"record"`
}
