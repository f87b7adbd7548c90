package rpc

import (
	"errors"
	"fmt"

	"github.com/corsair-labs/bootynet-chain/config"
	"github.com/corsair-labs/bootynet-chain/internal/assets"
	"github.com/corsair-labs/bootynet-chain/internal/collectible"
	"github.com/corsair-labs/bootynet-chain/internal/derive"
	"github.com/corsair-labs/bootynet-chain/internal/engine"
	"github.com/corsair-labs/bootynet-chain/internal/ledger"
	"github.com/corsair-labs/bootynet-chain/internal/record"
	"github.com/corsair-labs/bootynet-chain/internal/search"
	"github.com/corsair-labs/bootynet-chain/internal/vault"
	"github.com/corsair-labs/bootynet-chain/pkg/types"
)

// ── Write methods ───────────────────────────────────────────────────────

// handleOperation forwards a signed envelope to the engine. The RPC
// method name doubles as the operation name, so the signature the
// caller produced over (method, params) is exactly what the engine
// verifies.
func (s *Server) handleOperation(req *Request) (interface{}, *Error) {
	var params SignedParams
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}

	result, err := s.engine.Execute(&engine.Request{
		Op:        req.Method,
		Params:    params.Params,
		Signer:    params.Signer,
		Signature: params.Signature,
	})
	if err != nil {
		return nil, errorFor(err)
	}
	return result, nil
}

// errorFor maps a domain error onto a JSON-RPC error code.
func errorFor(err error) *Error {
	code := CodeInternalError
	switch {
	case errors.Is(err, engine.ErrBadSignature):
		code = CodeInvalidRequest
	case errors.Is(err, engine.ErrUnknownOp):
		code = CodeMethodNotFound
	case errors.Is(err, engine.ErrBadParams),
		errors.Is(err, ledger.ErrInvalidAuthority),
		errors.Is(err, vault.ErrInvalidAuthority),
		errors.Is(err, collectible.ErrInvalidMetadata):
		code = CodeInvalidParams
	case errors.Is(err, record.ErrNotFound),
		errors.Is(err, assets.ErrUnknownAsset):
		code = CodeNotFound
	case errors.Is(err, ledger.ErrUnauthorized),
		errors.Is(err, vault.ErrUnauthorized),
		errors.Is(err, search.ErrUnauthorized),
		errors.Is(err, collectible.ErrUnauthorized):
		code = CodeUnauthorized
	case errors.Is(err, ledger.ErrAlreadyInitialized),
		errors.Is(err, vault.ErrAlreadyInitialized),
		errors.Is(err, vault.ErrDuplicateDeposit),
		errors.Is(err, vault.ErrAlreadyClaimed),
		errors.Is(err, search.ErrDuplicateSearch),
		errors.Is(err, search.ErrAlreadyResolved),
		errors.Is(err, collectible.ErrAlreadyIssued),
		errors.Is(err, assets.ErrAssetExists):
		code = CodeConflict
	case errors.Is(err, ledger.ErrMaxSupplyExceeded),
		errors.Is(err, ledger.ErrCannotDecreaseMaxSupply),
		errors.Is(err, ledger.ErrArithmeticOverflow),
		errors.Is(err, ledger.ErrInvalidMint),
		errors.Is(err, vault.ErrInsufficientDeposit),
		errors.Is(err, vault.ErrArithmeticOverflow),
		errors.Is(err, vault.ErrAssetNotWhitelisted),
		errors.Is(err, collectible.ErrDepositNotClaimed),
		errors.Is(err, assets.ErrInsufficientFunds),
		errors.Is(err, assets.ErrInvalidHoldingAccount),
		errors.Is(err, derive.ErrDerivationExhausted):
		code = CodeRejected
	}
	return &Error{Code: code, Message: err.Error()}
}

// ── Read methods ────────────────────────────────────────────────────────

func (s *Server) handleGetSupply(_ *Request) (interface{}, *Error) {
	state, err := s.ledger.Get(s.engine.Asset())
	if err != nil {
		return nil, errorFor(err)
	}
	return state, nil
}

func (s *Server) handleGetVault(_ *Request) (interface{}, *Error) {
	state, err := s.vault.Get()
	if err != nil {
		return nil, errorFor(err)
	}
	return state, nil
}

func (s *Server) handleGetDeposit(req *Request) (interface{}, *Error) {
	addr, rpcErr := recordAddress(req)
	if rpcErr != nil {
		return nil, rpcErr
	}
	dep, err := s.vault.GetDeposit(addr)
	if err != nil {
		return nil, errorFor(err)
	}
	return dep, nil
}

func (s *Server) handleGetWhitelist(req *Request) (interface{}, *Error) {
	var params AssetParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	asset, err := types.HexToAssetID(params.Asset)
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("invalid asset: %v", err)}
	}
	entry, err := s.vault.GetWhitelist(asset)
	if err != nil {
		return nil, errorFor(err)
	}
	return entry, nil
}

func (s *Server) handleGetSearch(req *Request) (interface{}, *Error) {
	addr, rpcErr := recordAddress(req)
	if rpcErr != nil {
		return nil, rpcErr
	}
	rec, err := s.searches.Get(addr)
	if err != nil {
		return nil, errorFor(err)
	}
	return rec, nil
}

func (s *Server) handleGetReceipt(req *Request) (interface{}, *Error) {
	addr, rpcErr := recordAddress(req)
	if rpcErr != nil {
		return nil, rpcErr
	}
	receipt, err := s.collectibles.GetReceipt(addr)
	if err != nil {
		return nil, errorFor(err)
	}
	return receipt, nil
}

func (s *Server) handleNodeInfo(_ *Request) (interface{}, *Error) {
	return &NodeInfoResult{
		Version:          config.Version,
		Asset:            s.engine.Asset().String(),
		Devnet:           s.devnet,
		Decimals:         s.params.Decimals,
		MinDepositTokens: s.params.MinDepositTokens,
	}, nil
}

// recordAddress parses the record address param shared by the
// record-reading methods.
func recordAddress(req *Request) (types.ProgramAddress, *Error) {
	var params RecordParam
	if err := parseParams(req, &params); err != nil {
		return types.ProgramAddress{}, err
	}
	addr, err := types.HexToProgramAddress(params.Record)
	if err != nil {
		return types.ProgramAddress{}, &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("invalid record address: %v", err)}
	}
	return addr, nil
}
