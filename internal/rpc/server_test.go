package rpc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/corsair-labs/bootynet-chain/config"
	"github.com/corsair-labs/bootynet-chain/internal/assets"
	"github.com/corsair-labs/bootynet-chain/internal/collectible"
	"github.com/corsair-labs/bootynet-chain/internal/engine"
	"github.com/corsair-labs/bootynet-chain/internal/ledger"
	klog "github.com/corsair-labs/bootynet-chain/internal/log"
	"github.com/corsair-labs/bootynet-chain/internal/search"
	"github.com/corsair-labs/bootynet-chain/internal/storage"
	"github.com/corsair-labs/bootynet-chain/internal/vault"
	"github.com/corsair-labs/bootynet-chain/pkg/crypto"
	"github.com/corsair-labs/bootynet-chain/pkg/types"
)

// testEnv holds all components for an RPC test.
type testEnv struct {
	server    *Server
	svc       *assets.MemoryService
	asset     types.AssetID
	authority *crypto.PrivateKey
	player    *crypto.PrivateKey
	url       string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	klog.Init("error", false, "")

	authority, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	player, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	var asset types.AssetID
	for i := range asset {
		asset[i] = 0x42
	}

	db := storage.NewMemory()
	svc := assets.NewMemoryService()
	params := config.DefaultParams()

	l := ledger.New(db, svc)
	v := vault.New(db, svc, asset, params)
	s := search.New(db, v)
	c := collectible.New(db, svc)
	eng := engine.New(asset, l, v, s, c)

	srv := New("127.0.0.1:0", eng, l, v, s, c, params, true)
	if err := srv.Start(); err != nil {
		t.Fatalf("start rpc: %v", err)
	}
	t.Cleanup(func() { srv.Stop() })

	return &testEnv{
		server:    srv,
		svc:       svc,
		asset:     asset,
		authority: authority,
		player:    player,
		url:       fmt.Sprintf("http://%s/", srv.Addr()),
	}
}

func rpcCall(t *testing.T, url, method string, params interface{}) Response {
	t.Helper()
	req := Request{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      1,
	}
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post %s: %v", method, err)
	}
	defer resp.Body.Close()

	var rpcResp Response
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return rpcResp
}

// signedCall signs an operation payload and submits it as the write
// method of the same name.
func signedCall(t *testing.T, env *testEnv, key *crypto.PrivateKey, op string, opParams interface{}) Response {
	t.Helper()

	raw, err := json.Marshal(opParams)
	if err != nil {
		t.Fatalf("marshal op params: %v", err)
	}
	req := &engine.Request{Op: op, Params: raw, Signer: key.PublicKey()}
	if err := req.Sign(key); err != nil {
		t.Fatalf("sign: %v", err)
	}
	return rpcCall(t, env.url, op, SignedParams{
		Params:    req.Params,
		Signer:    req.Signer,
		Signature: req.Signature,
	})
}

func mustResult(t *testing.T, resp Response, target interface{}) {
	t.Helper()
	if resp.Error != nil {
		t.Fatalf("unexpected error %d: %s", resp.Error.Code, resp.Error.Message)
	}
	data, _ := json.Marshal(resp.Result)
	if err := json.Unmarshal(data, target); err != nil {
		t.Fatalf("decode result: %v", err)
	}
}

// ── Tests ───────────────────────────────────────────────────────────────

func TestRPC_NodeInfo(t *testing.T) {
	env := setupTestEnv(t)

	resp := rpcCall(t, env.url, "node_info", nil)
	var result NodeInfoResult
	mustResult(t, resp, &result)

	if result.Version != config.Version {
		t.Errorf("version = %q", result.Version)
	}
	if result.Asset != env.asset.String() {
		t.Errorf("asset = %q", result.Asset)
	}
	if !result.Devnet {
		t.Error("devnet flag not set")
	}
	if result.Decimals != 6 || result.MinDepositTokens != 100 {
		t.Errorf("params = %+v", result)
	}
}

func TestRPC_SupplyLifecycle(t *testing.T) {
	env := setupTestEnv(t)

	maxSupply := uint64(1_000_000_000_000)
	resp := signedCall(t, env, env.authority, engine.OpInitSupply, engine.InitSupplyParams{Decimals: 6, MaxSupply: &maxSupply})
	var state ledger.SupplyState
	mustResult(t, resp, &state)
	if state.Authority != env.authority.PublicKey() {
		t.Error("authority not set")
	}

	resp = signedCall(t, env, env.authority, engine.OpMint, engine.MintParams{
		Recipient: env.player.PublicKey(),
		Amount:    500_000_000,
	})
	mustResult(t, resp, &state)
	if state.TotalMinted != 500_000_000 {
		t.Errorf("minted = %d", state.TotalMinted)
	}

	resp = rpcCall(t, env.url, "ledger_getSupply", nil)
	mustResult(t, resp, &state)
	if state.TotalMinted != 500_000_000 || state.MaxSupply == nil {
		t.Errorf("supply = %+v", state)
	}
}

func TestRPC_DepositAndClaim(t *testing.T) {
	env := setupTestEnv(t)

	signedCall(t, env, env.authority, engine.OpInitSupply, engine.InitSupplyParams{Decimals: 6})
	signedCall(t, env, env.authority, engine.OpInitVault, struct{}{})
	signedCall(t, env, env.authority, engine.OpWhitelist, engine.WhitelistParams{Asset: env.asset, Enabled: true})
	signedCall(t, env, env.authority, engine.OpMint, engine.MintParams{
		Recipient: env.player.PublicKey(),
		Amount:    500_000_000,
	})

	resp := signedCall(t, env, env.player, engine.OpDeposit, engine.DepositParams{Amount: 100_000_000, Nonce: 1})
	var dep engine.DepositResult
	mustResult(t, resp, &dep)
	if dep.Record.Tier != vault.TierCommon {
		t.Errorf("tier = %d", dep.Record.Tier)
	}

	// Read it back through the record endpoint.
	resp = rpcCall(t, env.url, "vault_getDeposit", RecordParam{Record: dep.Address.String()})
	var rec vault.DepositRecord
	mustResult(t, resp, &rec)
	if rec.Depositor != env.player.PublicKey() || rec.Claimed {
		t.Errorf("deposit record = %+v", rec)
	}

	resp = signedCall(t, env, env.player, engine.OpClaim, engine.ClaimParams{Record: dep.Address})
	mustResult(t, resp, &rec)
	if !rec.Claimed {
		t.Error("record not claimed")
	}

	resp = signedCall(t, env, env.player, engine.OpClaim, engine.ClaimParams{Record: dep.Address})
	if resp.Error == nil || resp.Error.Code != CodeConflict {
		t.Errorf("re-claim error = %+v", resp.Error)
	}

	resp = rpcCall(t, env.url, "vault_get", nil)
	var vs vault.VaultState
	mustResult(t, resp, &vs)
	if vs.TotalDeposited != 100_000_000 || vs.TotalClaimedCount != 1 {
		t.Errorf("vault = %+v", vs)
	}
}

func TestRPC_RejectsBadSignature(t *testing.T) {
	env := setupTestEnv(t)

	resp := rpcCall(t, env.url, engine.OpInitVault, SignedParams{
		Params:    []byte(`{}`),
		Signer:    env.authority.PublicKey(),
		Signature: "00",
	})
	if resp.Error == nil || resp.Error.Code != CodeInvalidRequest {
		t.Errorf("error = %+v", resp.Error)
	}
}

func TestRPC_UnauthorizedWhitelist(t *testing.T) {
	env := setupTestEnv(t)

	signedCall(t, env, env.authority, engine.OpInitVault, struct{}{})
	resp := signedCall(t, env, env.player, engine.OpWhitelist, engine.WhitelistParams{Asset: env.asset, Enabled: true})
	if resp.Error == nil || resp.Error.Code != CodeUnauthorized {
		t.Errorf("error = %+v", resp.Error)
	}
}

func TestRPC_SearchFlow(t *testing.T) {
	env := setupTestEnv(t)

	signedCall(t, env, env.authority, engine.OpInitVault, struct{}{})
	resp := signedCall(t, env, env.player, engine.OpSearch, engine.SearchParams{X: 7, Y: -9, Nonce: 1})
	var sr engine.SearchResult
	mustResult(t, resp, &sr)

	resp = rpcCall(t, env.url, "search_get", RecordParam{Record: sr.Address.String()})
	var rec search.Record
	mustResult(t, resp, &rec)
	if rec.X != 7 || rec.Y != -9 || rec.Found {
		t.Errorf("search record = %+v", rec)
	}

	resp = signedCall(t, env, env.authority, engine.OpResolve, engine.ResolveParams{Record: sr.Address})
	mustResult(t, resp, &rec)
	if !rec.Found {
		t.Error("record not resolved")
	}
}

func TestRPC_GetSupplyBeforeInit(t *testing.T) {
	env := setupTestEnv(t)

	resp := rpcCall(t, env.url, "ledger_getSupply", nil)
	if resp.Error == nil || resp.Error.Code != CodeNotFound {
		t.Errorf("error = %+v", resp.Error)
	}
}

func TestRPC_MethodNotFound(t *testing.T) {
	env := setupTestEnv(t)

	resp := rpcCall(t, env.url, "vault_plunder", nil)
	if resp.Error == nil || resp.Error.Code != CodeMethodNotFound {
		t.Errorf("error = %+v", resp.Error)
	}
}

func TestRPC_InvalidJSON(t *testing.T) {
	env := setupTestEnv(t)

	resp, err := http.Post(env.url, "application/json", bytes.NewReader([]byte("{not json")))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	var rpcResp Response
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rpcResp.Error == nil || rpcResp.Error.Code != CodeParseError {
		t.Errorf("error = %+v", rpcResp.Error)
	}
}

func TestRPC_GetMethodNotAllowed(t *testing.T) {
	env := setupTestEnv(t)

	resp, err := http.Get(env.url)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var rpcResp Response
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rpcResp.Error == nil || rpcResp.Error.Code != CodeInvalidRequest {
		t.Errorf("error = %+v", rpcResp.Error)
	}
}

func TestRPC_IPFilter_Blocked(t *testing.T) {
	klog.Init("error", false, "")

	blocked := New("127.0.0.1:0", nil, nil, nil, nil, nil, config.DefaultParams(), true,
		config.RPCConfig{AllowedIPs: []string{"10.0.0.1"}})
	if err := blocked.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(func() { blocked.Stop() })

	resp, err := http.Post(fmt.Sprintf("http://%s/", blocked.Addr()), "application/json", bytes.NewReader([]byte("{}")))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
}

func TestRPC_CORS_WildcardOrigin(t *testing.T) {
	srv := New("127.0.0.1:0", nil, nil, nil, nil, nil, config.DefaultParams(), true,
		config.RPCConfig{CORSOrigins: []string{"*"}})
	if err := srv.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(func() { srv.Stop() })

	req, _ := http.NewRequest(http.MethodOptions, fmt.Sprintf("http://%s/", srv.Addr()), nil)
	req.Header.Set("Origin", "http://example.com")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want 204", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow-origin = %q, want *", got)
	}
}
