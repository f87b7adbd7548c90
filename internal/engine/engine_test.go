package engine

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/corsair-labs/bootynet-chain/config"
	"github.com/corsair-labs/bootynet-chain/internal/assets"
	"github.com/corsair-labs/bootynet-chain/internal/collectible"
	"github.com/corsair-labs/bootynet-chain/internal/ledger"
	"github.com/corsair-labs/bootynet-chain/internal/search"
	"github.com/corsair-labs/bootynet-chain/internal/storage"
	"github.com/corsair-labs/bootynet-chain/internal/vault"
	"github.com/corsair-labs/bootynet-chain/pkg/crypto"
	"github.com/corsair-labs/bootynet-chain/pkg/types"
)

func testAssetID() types.AssetID {
	var a types.AssetID
	for i := range a {
		a[i] = 0x42
	}
	return a
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	db := storage.NewMemory()
	svc := assets.NewMemoryService()
	asset := testAssetID()
	params := config.DefaultParams()

	l := ledger.New(db, svc)
	v := vault.New(db, svc, asset, params)
	s := search.New(db, v)
	c := collectible.New(db, svc)
	return New(asset, l, v, s, c)
}

func signedRequest(t *testing.T, key *crypto.PrivateKey, op string, params interface{}) *Request {
	t.Helper()

	raw, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	req := &Request{Op: op, Params: raw, Signer: key.PublicKey()}
	if err := req.Sign(key); err != nil {
		t.Fatalf("sign: %v", err)
	}
	return req
}

func mustExecute(t *testing.T, e *Engine, req *Request) interface{} {
	t.Helper()
	result, err := e.Execute(req)
	if err != nil {
		t.Fatalf("%s: %v", req.Op, err)
	}
	return result
}

// --- Envelope Tests ---

func TestRequestSignVerify(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	req := &Request{Op: OpSearch, Params: []byte(`{"x":1,"y":2,"nonce":1}`), Signer: key.PublicKey()}
	if err := req.Sign(key); err != nil {
		t.Fatalf("sign: %v", err)
	}
	if err := req.Verify(); err != nil {
		t.Fatalf("verify: %v", err)
	}

	// Any change to what the signature covers must invalidate it.
	tampered := *req
	tampered.Params = []byte(`{"x":1,"y":2,"nonce":2}`)
	if err := tampered.Verify(); !errors.Is(err, ErrBadSignature) {
		t.Errorf("tampered params: want ErrBadSignature, got %v", err)
	}
	tampered = *req
	tampered.Op = OpDeposit
	if err := tampered.Verify(); !errors.Is(err, ErrBadSignature) {
		t.Errorf("tampered op: want ErrBadSignature, got %v", err)
	}
}

func TestRequestSignWrongKey(t *testing.T) {
	key, _ := crypto.GenerateKey()
	other, _ := crypto.GenerateKey()

	req := &Request{Op: OpSearch, Params: []byte(`{}`), Signer: key.PublicKey()}
	if err := req.Sign(other); !errors.Is(err, ErrBadSignature) {
		t.Errorf("expected ErrBadSignature, got %v", err)
	}
}

func TestExecuteRejectsUnsigned(t *testing.T) {
	e := newTestEngine(t)
	key, _ := crypto.GenerateKey()

	req := &Request{Op: OpSearch, Params: []byte(`{"x":1,"y":2,"nonce":1}`), Signer: key.PublicKey()}
	if _, err := e.Execute(req); !errors.Is(err, ErrBadSignature) {
		t.Errorf("expected ErrBadSignature, got %v", err)
	}
}

func TestExecuteUnknownOp(t *testing.T) {
	e := newTestEngine(t)
	key, _ := crypto.GenerateKey()

	req := signedRequest(t, key, "ledger_conjure", map[string]int{"amount": 1})
	if _, err := e.Execute(req); !errors.Is(err, ErrUnknownOp) {
		t.Errorf("expected ErrUnknownOp, got %v", err)
	}
}

func TestExecuteBadParams(t *testing.T) {
	e := newTestEngine(t)
	key, _ := crypto.GenerateKey()

	req := &Request{Op: OpDeposit, Params: []byte(`{"amount":"lots"}`), Signer: key.PublicKey()}
	if err := req.Sign(key); err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := e.Execute(req); !errors.Is(err, ErrBadParams) {
		t.Errorf("expected ErrBadParams, got %v", err)
	}
}

// --- End-to-End Dispatch Tests ---

func TestFullDepositFlow(t *testing.T) {
	e := newTestEngine(t)
	authority, _ := crypto.GenerateKey()
	player, _ := crypto.GenerateKey()
	maxSupply := uint64(1_000_000_000_000)

	mustExecute(t, e, signedRequest(t, authority, OpInitSupply, InitSupplyParams{Decimals: 6, MaxSupply: &maxSupply}))
	mustExecute(t, e, signedRequest(t, authority, OpInitVault, struct{}{}))
	mustExecute(t, e, signedRequest(t, authority, OpWhitelist, WhitelistParams{Asset: e.Asset(), Enabled: true}))
	mustExecute(t, e, signedRequest(t, authority, OpMint, MintParams{Recipient: player.PublicKey(), Amount: 500_000_000}))

	result := mustExecute(t, e, signedRequest(t, player, OpDeposit, DepositParams{Amount: 100_000_000, Nonce: 1}))
	dep, ok := result.(*DepositResult)
	if !ok {
		t.Fatalf("deposit result type %T", result)
	}
	if dep.Record.Tier != vault.TierCommon || dep.Record.Depositor != player.PublicKey() {
		t.Errorf("deposit record = %+v", dep.Record)
	}

	result = mustExecute(t, e, signedRequest(t, player, OpClaim, ClaimParams{Record: dep.Address}))
	claimed, ok := result.(*vault.DepositRecord)
	if !ok || !claimed.Claimed {
		t.Errorf("claim result = %+v", result)
	}

	// A second claim fails inside the service, signature and all.
	if _, err := e.Execute(signedRequest(t, player, OpClaim, ClaimParams{Record: dep.Address})); !errors.Is(err, vault.ErrAlreadyClaimed) {
		t.Errorf("expected ErrAlreadyClaimed, got %v", err)
	}

	// The claimed record backs exactly one collectible.
	var mint types.AssetID
	mint[0] = 0x99
	result = mustExecute(t, e, signedRequest(t, player, OpIssueForDeposit, IssueForDepositParams{
		Mint:    mint,
		Deposit: dep.Address,
		Title:   "Booty Chest",
		Symbol:  "BOOTY",
		URI:     "ipfs://chest",
	}))
	if _, ok := result.(*collectible.Receipt); !ok {
		t.Fatalf("issue result type %T", result)
	}
	if _, err := e.Execute(signedRequest(t, player, OpIssueForDeposit, IssueForDepositParams{
		Mint:    mint,
		Deposit: dep.Address,
		Title:   "Booty Chest",
		Symbol:  "BOOTY",
		URI:     "ipfs://chest",
	})); !errors.Is(err, collectible.ErrAlreadyIssued) {
		t.Errorf("expected ErrAlreadyIssued, got %v", err)
	}
}

func TestSignerIsTheCaller(t *testing.T) {
	e := newTestEngine(t)
	authority, _ := crypto.GenerateKey()
	stranger, _ := crypto.GenerateKey()

	mustExecute(t, e, signedRequest(t, authority, OpInitVault, struct{}{}))

	// The stranger's signature is valid, but the verified signer is
	// what the authority check sees.
	req := signedRequest(t, stranger, OpWhitelist, WhitelistParams{Asset: e.Asset(), Enabled: true})
	if _, err := e.Execute(req); !errors.Is(err, vault.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestSearchFlow(t *testing.T) {
	e := newTestEngine(t)
	authority, _ := crypto.GenerateKey()
	player, _ := crypto.GenerateKey()

	mustExecute(t, e, signedRequest(t, authority, OpInitVault, struct{}{}))

	result := mustExecute(t, e, signedRequest(t, player, OpSearch, SearchParams{X: -3, Y: 14, Nonce: 1}))
	sr, ok := result.(*SearchResult)
	if !ok {
		t.Fatalf("search result type %T", result)
	}

	if _, err := e.Execute(signedRequest(t, player, OpResolve, ResolveParams{Record: sr.Address})); !errors.Is(err, search.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	result = mustExecute(t, e, signedRequest(t, authority, OpResolve, ResolveParams{Record: sr.Address}))
	if rec := result.(*search.Record); !rec.Found {
		t.Error("record not resolved")
	}
}

func TestVaultUpdateWithoutNewAuthority(t *testing.T) {
	e := newTestEngine(t)
	authority, _ := crypto.GenerateKey()

	mustExecute(t, e, signedRequest(t, authority, OpInitVault, struct{}{}))

	// A well-formed vault_update with no new_authority keeps the
	// current one; it must never install the zero key.
	result := mustExecute(t, e, signedRequest(t, authority, OpUpdateVault, struct{}{}))
	state, ok := result.(*vault.VaultState)
	if !ok {
		t.Fatalf("vault_update result type %T", result)
	}
	if state.Authority != authority.PublicKey() {
		t.Fatalf("authority = %s, want unchanged", state.Authority.Short())
	}

	// The admin surface still answers to the authority.
	mustExecute(t, e, signedRequest(t, authority, OpWhitelist, WhitelistParams{Asset: e.Asset(), Enabled: true}))
}

func TestVaultUpdateRejectsZeroAuthority(t *testing.T) {
	e := newTestEngine(t)
	authority, _ := crypto.GenerateKey()

	mustExecute(t, e, signedRequest(t, authority, OpInitVault, struct{}{}))

	var zero types.PublicKey
	req := signedRequest(t, authority, OpUpdateVault, UpdateAuthorityParams{NewAuthority: &zero})
	if _, err := e.Execute(req); !errors.Is(err, vault.ErrInvalidAuthority) {
		t.Fatalf("expected ErrInvalidAuthority, got %v", err)
	}
	mustExecute(t, e, signedRequest(t, authority, OpWhitelist, WhitelistParams{Asset: e.Asset(), Enabled: true}))
}

func TestLedgerUpdateAuthorityRequiresTarget(t *testing.T) {
	e := newTestEngine(t)
	authority, _ := crypto.GenerateKey()

	mustExecute(t, e, signedRequest(t, authority, OpInitSupply, InitSupplyParams{Decimals: 6}))

	req := signedRequest(t, authority, OpUpdateAuthority, struct{}{})
	if _, err := e.Execute(req); !errors.Is(err, ErrBadParams) {
		t.Fatalf("expected ErrBadParams, got %v", err)
	}
}

func TestConcurrentDepositsSerialize(t *testing.T) {
	db, err := storage.NewBadger(t.TempDir())
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	defer db.Close()

	svc := assets.NewMemoryService()
	asset := testAssetID()
	params := config.DefaultParams()

	l := ledger.New(db, svc)
	v := vault.New(db, svc, asset, params)
	s := search.New(db, v)
	c := collectible.New(db, svc)
	e := New(asset, l, v, s, c)

	authority, _ := crypto.GenerateKey()
	var minter types.PublicKey
	minter[0] = 0x77
	if err := svc.CreateAsset(asset, 6, minter); err != nil {
		t.Fatalf("create asset: %v", err)
	}
	mustExecute(t, e, signedRequest(t, authority, OpInitVault, struct{}{}))
	mustExecute(t, e, signedRequest(t, authority, OpWhitelist, WhitelistParams{Asset: asset, Enabled: true}))

	const players = 8
	amount := params.MinDepositAmount()

	keys := make([]*crypto.PrivateKey, players)
	reqs := make([]*Request, players)
	for i := range keys {
		key, err := crypto.GenerateKey()
		if err != nil {
			t.Fatalf("generate key: %v", err)
		}
		if err := svc.MintTo(asset, key.PublicKey(), amount, minter); err != nil {
			t.Fatalf("fund player %d: %v", i, err)
		}
		keys[i] = key
		reqs[i] = signedRequest(t, key, OpDeposit, DepositParams{Amount: amount, Nonce: uint64(i + 1)})
	}

	// All deposits race; every one must land exactly once, with its
	// record written and the transfer applied in the same operation.
	results := make([]*DepositResult, players)
	errs := make([]error, players)
	var wg sync.WaitGroup
	for i := range reqs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := e.Execute(reqs[i])
			if err != nil {
				errs[i] = err
				return
			}
			results[i] = res.(*DepositResult)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("deposit %d: %v", i, err)
		}
	}

	state, err := v.Get()
	if err != nil {
		t.Fatalf("vault get: %v", err)
	}
	if want := amount * players; state.TotalDeposited != want {
		t.Errorf("total_deposited = %d, want %d", state.TotalDeposited, want)
	}

	custody, err := v.Custody()
	if err != nil {
		t.Fatalf("custody: %v", err)
	}
	balance, err := svc.BalanceOf(asset, custody)
	if err != nil {
		t.Fatalf("custody balance: %v", err)
	}
	if want := amount * players; balance != want {
		t.Errorf("custody balance = %d, want %d", balance, want)
	}

	for i, res := range results {
		dep, err := v.GetDeposit(res.Address)
		if err != nil {
			t.Fatalf("deposit record %d: %v", i, err)
		}
		if dep.Depositor != keys[i].PublicKey() || dep.Amount != amount {
			t.Errorf("record %d mismatch", i)
		}
		playerBal, err := svc.BalanceOf(asset, keys[i].PublicKey())
		if err != nil {
			t.Fatalf("player balance %d: %v", i, err)
		}
		if playerBal != 0 {
			t.Errorf("player %d debited %d of %d", i, amount-playerBal, amount)
		}
	}
}
