// Package node provides a reusable account-state node that can be
// embedded in any binary (daemon, tests, tooling).
package node

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

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
	"github.com/rs/zerolog"
)

// ErrLiveModeUnavailable is returned when the node is started outside
// devnet mode. Only the in-memory devnet asset services exist today; a
// live external asset ledger integration would slot in here.
var ErrLiveModeUnavailable = errors.New("node: live asset services not available, run with devnet enabled")

// assetTag seeds the devnet $BOOTY asset identifier so every devnet
// node agrees on the same AssetID without any exchange of state.
const assetTag = "bootynet/asset/booty/v1"

// Node is a fully-initialized account-state node.
type Node struct {
	cfg    *config.Config
	logger zerolog.Logger

	// Core
	db    storage.DB
	svc   *assets.MemoryService
	asset types.AssetID

	// Services
	ledger       *ledger.Ledger
	vault        *vault.Vault
	searches     *search.Ledger
	collectibles *collectible.Issuer
	engine       *engine.Engine

	// RPC
	rpcServer *rpc.Server
}

// DevnetAsset returns the deterministic devnet $BOOTY asset identifier.
func DevnetAsset() types.AssetID {
	return types.AssetID(crypto.Hash([]byte(assetTag)))
}

// New creates and initializes a new Node. It performs all setup steps
// (logger, storage, services, engine) but does NOT start the RPC
// listener. Call Start() for that.
func New(cfg *config.Config) (*Node, error) {
	// ── 1. Init logger ──────────────────────────────────────────────
	logFile := cfg.Log.File
	if logFile == "" {
		logsDir := cfg.LogsDir()
		if err := os.MkdirAll(logsDir, 0755); err != nil {
			return nil, fmt.Errorf("creating logs dir: %w", err)
		}
		logFile = filepath.Join(logsDir, "bootynet.log")
	}
	if err := klog.Init(cfg.Log.Level, cfg.Log.JSON, logFile); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	logger := klog.WithComponent("node")

	// ── 2. Asset services ───────────────────────────────────────────
	if !cfg.Devnet {
		return nil, ErrLiveModeUnavailable
	}
	svc := assets.NewMemoryService()
	asset := DevnetAsset()

	logger.Info().
		Str("asset", asset.String()).
		Str("version", config.Version).
		Msg("Starting Bootynet Node")

	// ── 3. Open storage ─────────────────────────────────────────────
	db, err := storage.NewBadger(cfg.DBDir())
	if err != nil {
		return nil, fmt.Errorf("open database at %s: %w", cfg.DBDir(), err)
	}
	logger.Info().Str("path", cfg.DBDir()).Msg("Database opened")

	// ── 4. Account services ─────────────────────────────────────────
	params := config.DefaultParams()
	supply := ledger.New(db, svc)
	vlt := vault.New(db, svc, asset, params)
	searches := search.New(db, vlt)
	collectibles := collectible.New(db, svc)
	eng := engine.New(asset, supply, vlt, searches, collectibles)

	n := &Node{
		cfg:          cfg,
		logger:       logger,
		db:           db,
		svc:          svc,
		asset:        asset,
		ledger:       supply,
		vault:        vlt,
		searches:     searches,
		collectibles: collectibles,
		engine:       eng,
	}

	// ── 5. RPC server ───────────────────────────────────────────────
	if cfg.RPC.Enabled {
		rpcAddr := fmt.Sprintf("%s:%d", cfg.RPC.Addr, cfg.RPC.Port)
		n.rpcServer = rpc.New(rpcAddr, eng, supply, vlt, searches,
			collectibles, params, cfg.Devnet, cfg.RPC)
	}

	return n, nil
}

// Start starts the RPC listener (when enabled).
func (n *Node) Start() error {
	if n.rpcServer != nil {
		if err := n.rpcServer.Start(); err != nil {
			return fmt.Errorf("start RPC server: %w", err)
		}
		n.logger.Info().Str("addr", n.rpcServer.Addr()).Msg("RPC server started")
	}

	n.logger.Info().
		Bool("rpc", n.rpcServer != nil).
		Msg("Node started successfully")
	return nil
}

// Stop shuts the node down in reverse initialization order.
func (n *Node) Stop() {
	if n.rpcServer != nil {
		n.rpcServer.Stop()
	}
	if n.db != nil {
		n.db.Close()
	}

	n.logger.Info().Msg("Goodbye!")
}

// RPCAddr returns the actual RPC listen address, or "" when RPC is
// disabled.
func (n *Node) RPCAddr() string {
	if n.rpcServer == nil {
		return ""
	}
	return n.rpcServer.Addr()
}

// Engine exposes the operation engine for embedded callers.
func (n *Node) Engine() *engine.Engine {
	return n.engine
}

// Asset returns the asset identifier this node accounts for.
func (n *Node) Asset() types.AssetID {
	return n.asset
}
