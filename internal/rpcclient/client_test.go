package rpcclient

import (
	"errors"
	"fmt"
	"testing"

	"github.com/corsair-labs/bootynet-chain/config"
	"github.com/corsair-labs/bootynet-chain/internal/assets"
	"github.com/corsair-labs/bootynet-chain/internal/collectible"
	"github.com/corsair-labs/bootynet-chain/internal/engine"
	"github.com/corsair-labs/bootynet-chain/internal/ledger"
	klog "github.com/corsair-labs/bootynet-chain/internal/log"
	"github.com/corsair-labs/bootynet-chain/internal/rpc"
	"github.com/corsair-labs/bootynet-chain/internal/search"
	"github.com/corsair-labs/bootynet-chain/internal/storage"
	"github.com/corsair-labs/bootynet-chain/internal/vault"
	"github.com/corsair-labs/bootynet-chain/pkg/crypto"
	"github.com/corsair-labs/bootynet-chain/pkg/types"
)

type testEnv struct {
	client    *Client
	authority *crypto.PrivateKey
	player    *crypto.PrivateKey
	asset     types.AssetID
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

	srv := rpc.New("127.0.0.1:0", eng, l, v, s, c, params, true)
	if err := srv.Start(); err != nil {
		t.Fatalf("start rpc: %v", err)
	}
	t.Cleanup(func() { srv.Stop() })

	return &testEnv{
		client:    New(fmt.Sprintf("http://%s/", srv.Addr())),
		authority: authority,
		player:    player,
		asset:     asset,
	}
}

func TestClientNodeInfo(t *testing.T) {
	env := setupTestEnv(t)

	var info rpc.NodeInfoResult
	if err := env.client.Call("node_info", nil, &info); err != nil {
		t.Fatalf("node_info: %v", err)
	}
	if info.Asset != env.asset.String() {
		t.Errorf("asset = %q", info.Asset)
	}
}

func TestClientSubmitOp(t *testing.T) {
	env := setupTestEnv(t)

	var state ledger.SupplyState
	if err := env.client.SubmitOp(engine.OpInitSupply, engine.InitSupplyParams{Decimals: 6}, env.authority, &state); err != nil {
		t.Fatalf("init supply: %v", err)
	}
	if state.Authority != env.authority.PublicKey() {
		t.Error("authority not set")
	}

	if err := env.client.SubmitOp(engine.OpMint, engine.MintParams{
		Recipient: env.player.PublicKey(),
		Amount:    250_000_000,
	}, env.authority, &state); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if state.TotalMinted != 250_000_000 {
		t.Errorf("minted = %d", state.TotalMinted)
	}
}

func TestClientServerError(t *testing.T) {
	env := setupTestEnv(t)

	// Supply not initialized yet, so the read must fail with the
	// server's not-found code.
	err := env.client.Call("ledger_getSupply", nil, nil)
	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("expected RPCError, got %v", err)
	}
	if rpcErr.Code != rpc.CodeNotFound {
		t.Errorf("code = %d, want %d", rpcErr.Code, rpc.CodeNotFound)
	}
}

func TestClientUnreachable(t *testing.T) {
	c := New("http://127.0.0.1:1/")
	if err := c.Call("node_info", nil, nil); err == nil {
		t.Fatal("expected connection error")
	}
}
