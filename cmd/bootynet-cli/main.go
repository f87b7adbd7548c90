// bootynet-cli is a command-line client for interacting with a bootynetd node.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/corsair-labs/bootynet-chain/config"
	"github.com/corsair-labs/bootynet-chain/internal/engine"
	"github.com/corsair-labs/bootynet-chain/internal/keyring"
	"github.com/corsair-labs/bootynet-chain/internal/rpc"
	"github.com/corsair-labs/bootynet-chain/internal/rpcclient"
	"github.com/corsair-labs/bootynet-chain/internal/vault"
	"github.com/corsair-labs/bootynet-chain/pkg/crypto"
	"github.com/corsair-labs/bootynet-chain/pkg/types"
	"golang.org/x/term"
)

var params = config.DefaultParams()

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	// Parse global flags that appear before the subcommand.
	rpcURL := "http://127.0.0.1:8645"
	dataDir := config.DefaultDataDir()
	krDir := ""

	args := os.Args[1:]
	for len(args) > 0 {
		switch {
		case args[0] == "--rpc" && len(args) > 1:
			rpcURL = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--rpc="):
			rpcURL = args[0][len("--rpc="):]
			args = args[1:]
		case args[0] == "--datadir" && len(args) > 1:
			dataDir = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--datadir="):
			dataDir = args[0][len("--datadir="):]
			args = args[1:]
		case args[0] == "--keyring-dir" && len(args) > 1:
			krDir = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--keyring-dir="):
			krDir = args[0][len("--keyring-dir="):]
			args = args[1:]
		default:
			goto dispatch
		}
	}

dispatch:
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	if krDir == "" {
		krDir = filepath.Join(dataDir, "keyring")
	}
	client := rpcclient.New(rpcURL)
	cmd := args[0]
	cmdArgs := args[1:]

	switch cmd {
	case "status":
		cmdStatus(client)
	case "supply":
		cmdSupply(client, cmdArgs, krDir)
	case "vault":
		cmdVault(client, cmdArgs, krDir)
	case "search":
		cmdSearch(client, cmdArgs, krDir)
	case "collectible":
		cmdCollectible(client, cmdArgs, krDir)
	case "keys":
		cmdKeys(cmdArgs, krDir)
	case "help", "--help", "-h":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: bootynet-cli [global flags] <command> [flags]

Global flags:
  --rpc <url>           RPC endpoint (default: http://127.0.0.1:8645)
  --datadir <path>      Data directory (default: platform-specific)
  --keyring-dir <path>  Keyring directory (default: <datadir>/keyring)

Commands:
  status                          Show node status

  supply show                     Show supply ledger state
  supply init --keyring <k> --decimals <n> [--max-supply <amt>]
                                  Initialize the supply ledger
  supply mint --keyring <k> --to <pubkey> --amount <amt>
                                  Mint tokens to a holder
  supply burn --keyring <k> --amount <amt>
                                  Burn tokens from the signer
  supply set-authority --keyring <k> --new <pubkey>
                                  Hand over mint authority
  supply set-cap --keyring <k> [--max-supply <amt> | --unlimited]
                                  Raise or remove the supply cap

  vault show                      Show vault state
  vault init --keyring <k>        Initialize the deposit vault
  vault deposit --keyring <k> --amount <amt> --nonce <n>
                                  Deposit tokens into the vault
  vault claim --keyring <k> --record <addr>
                                  Claim a deposit
  vault whitelist --keyring <k> --asset <id> [--enabled=false]
                                  Whitelist (or disable) an asset
  vault set-authority --keyring <k> --new <pubkey>
                                  Hand over vault authority
  vault record <addr>             Show a deposit record
  vault whitelist-show <asset>    Show a whitelist entry

  search submit --keyring <k> --x <n> --y <n> --nonce <n>
                                  Record a coordinate search
  search resolve --keyring <k> --record <addr>
                                  Mark a search found (vault authority only)
  search show <addr>              Show a search record

  collectible mint --keyring <k> --mint <id> --title <t> --symbol <s> --uri <u> [--to <pubkey>]
                                  Mint a standalone collectible
  collectible issue --keyring <k> --mint <id> --deposit <addr> --title <t> --symbol <s> --uri <u>
                                  Issue a collectible for a claimed deposit
  collectible receipt <addr>      Show an issuance receipt

  keys create --name <n>          Create a new keyring
  keys import --name <n> --mnemonic "..."
                                  Import a keyring from a mnemonic
  keys list                       List keyrings
  keys identities --name <n>      List signing identities
  keys new-identity --name <n> [--label <l>]
                                  Derive a new signing identity
`)
}

// ── status ──────────────────────────────────────────────────────────────

func cmdStatus(client *rpcclient.Client) {
	var info rpc.NodeInfoResult
	if err := client.Call("node_info", nil, &info); err != nil {
		fatal("node_info: %v", err)
	}

	fmt.Printf("Version:      %s\n", info.Version)
	fmt.Printf("Asset:        %s\n", info.Asset)
	fmt.Printf("Devnet:       %t\n", info.Devnet)
	fmt.Printf("Decimals:     %d\n", info.Decimals)
	fmt.Printf("Min deposit:  %d tokens\n", info.MinDepositTokens)
}

// ── supply ──────────────────────────────────────────────────────────────

func cmdSupply(client *rpcclient.Client, args []string, krDir string) {
	if len(args) < 1 {
		fatal("Usage: bootynet-cli supply <show|init|mint|burn|set-authority|set-cap> [flags]")
	}

	switch args[0] {
	case "show":
		cmdSupplyShow(client)
	case "init":
		cmdSupplyInit(client, args[1:], krDir)
	case "mint":
		cmdSupplyMint(client, args[1:], krDir)
	case "burn":
		cmdSupplyBurn(client, args[1:], krDir)
	case "set-authority":
		cmdSupplySetAuthority(client, args[1:], krDir)
	case "set-cap":
		cmdSupplySetCap(client, args[1:], krDir)
	default:
		fatal("Unknown supply command: %s", args[0])
	}
}

func cmdSupplyShow(client *rpcclient.Client) {
	var state struct {
		Asset       string  `json:"asset"`
		Authority   string  `json:"authority"`
		TotalMinted uint64  `json:"total_minted"`
		TotalBurned uint64  `json:"total_burned"`
		MaxSupply   *uint64 `json:"max_supply"`
	}
	if err := client.Call("ledger_getSupply", nil, &state); err != nil {
		fatal("ledger_getSupply: %v", err)
	}

	fmt.Printf("Asset:      %s\n", state.Asset)
	fmt.Printf("Authority:  %s\n", state.Authority)
	fmt.Printf("Minted:     %s\n", formatAmount(state.TotalMinted))
	fmt.Printf("Burned:     %s\n", formatAmount(state.TotalBurned))
	fmt.Printf("Net:        %s\n", formatAmount(state.TotalMinted-state.TotalBurned))
	if state.MaxSupply != nil {
		fmt.Printf("Cap:        %s\n", formatAmount(*state.MaxSupply))
	} else {
		fmt.Printf("Cap:        unlimited\n")
	}
}

func cmdSupplyInit(client *rpcclient.Client, args []string, krDir string) {
	fs := flag.NewFlagSet("supply init", flag.ExitOnError)
	kr := fs.String("keyring", "", "Keyring name")
	identity := fs.String("identity", "", "Signing identity (default: first)")
	decimals := fs.Uint("decimals", uint(params.Decimals), "Token decimals")
	capStr := fs.String("max-supply", "", "Supply cap (tokens; empty = unlimited)")
	fs.Parse(args)

	key := unlockSigner(krDir, *kr, *identity)
	defer key.Zero()

	p := engine.InitSupplyParams{Decimals: uint8(*decimals)}
	if *capStr != "" {
		amount, err := parseAmount(*capStr)
		if err != nil {
			fatal("invalid max-supply: %v", err)
		}
		p.MaxSupply = &amount
	}

	var state struct {
		Asset string `json:"asset"`
	}
	if err := client.SubmitOp(engine.OpInitSupply, p, key, &state); err != nil {
		fatal("%s: %v", engine.OpInitSupply, err)
	}
	fmt.Printf("Supply ledger initialized for asset %s\n", state.Asset)
}

func cmdSupplyMint(client *rpcclient.Client, args []string, krDir string) {
	fs := flag.NewFlagSet("supply mint", flag.ExitOnError)
	kr := fs.String("keyring", "", "Keyring name")
	identity := fs.String("identity", "", "Signing identity (default: first)")
	to := fs.String("to", "", "Recipient public key (hex; default: signer)")
	amountStr := fs.String("amount", "", "Amount in tokens")
	fs.Parse(args)

	amount, err := parseAmount(*amountStr)
	if err != nil {
		fatal("invalid amount: %v", err)
	}

	key := unlockSigner(krDir, *kr, *identity)
	defer key.Zero()

	p := engine.MintParams{Amount: amount}
	if *to != "" {
		recipient, err := types.HexToPublicKey(*to)
		if err != nil {
			fatal("invalid recipient: %v", err)
		}
		p.Recipient = recipient
	}

	var state struct {
		TotalMinted uint64 `json:"total_minted"`
	}
	if err := client.SubmitOp(engine.OpMint, p, key, &state); err != nil {
		fatal("%s: %v", engine.OpMint, err)
	}
	fmt.Printf("Minted %s (total minted: %s)\n", formatAmount(amount), formatAmount(state.TotalMinted))
}

func cmdSupplyBurn(client *rpcclient.Client, args []string, krDir string) {
	fs := flag.NewFlagSet("supply burn", flag.ExitOnError)
	kr := fs.String("keyring", "", "Keyring name")
	identity := fs.String("identity", "", "Signing identity (default: first)")
	amountStr := fs.String("amount", "", "Amount in tokens")
	fs.Parse(args)

	amount, err := parseAmount(*amountStr)
	if err != nil {
		fatal("invalid amount: %v", err)
	}

	key := unlockSigner(krDir, *kr, *identity)
	defer key.Zero()

	var state struct {
		TotalBurned uint64 `json:"total_burned"`
	}
	if err := client.SubmitOp(engine.OpBurn, engine.BurnParams{Amount: amount}, key, &state); err != nil {
		fatal("%s: %v", engine.OpBurn, err)
	}
	fmt.Printf("Burned %s (total burned: %s)\n", formatAmount(amount), formatAmount(state.TotalBurned))
}

func cmdSupplySetAuthority(client *rpcclient.Client, args []string, krDir string) {
	fs := flag.NewFlagSet("supply set-authority", flag.ExitOnError)
	kr := fs.String("keyring", "", "Keyring name")
	identity := fs.String("identity", "", "Signing identity (default: first)")
	newAuth := fs.String("new", "", "New authority public key (hex)")
	fs.Parse(args)

	authority, err := types.HexToPublicKey(*newAuth)
	if err != nil {
		fatal("invalid new authority: %v", err)
	}

	key := unlockSigner(krDir, *kr, *identity)
	defer key.Zero()

	p := engine.UpdateAuthorityParams{NewAuthority: &authority}
	var state struct {
		Authority string `json:"authority"`
	}
	if err := client.SubmitOp(engine.OpUpdateAuthority, p, key, &state); err != nil {
		fatal("%s: %v", engine.OpUpdateAuthority, err)
	}
	fmt.Printf("Supply authority is now %s\n", state.Authority)
}

func cmdSupplySetCap(client *rpcclient.Client, args []string, krDir string) {
	fs := flag.NewFlagSet("supply set-cap", flag.ExitOnError)
	kr := fs.String("keyring", "", "Keyring name")
	identity := fs.String("identity", "", "Signing identity (default: first)")
	capStr := fs.String("max-supply", "", "New supply cap in tokens")
	unlimited := fs.Bool("unlimited", false, "Remove the supply cap")
	fs.Parse(args)

	if (*capStr == "") != *unlimited {
		fatal("exactly one of --max-supply and --unlimited is required")
	}

	key := unlockSigner(krDir, *kr, *identity)
	defer key.Zero()

	var p engine.UpdateMaxSupplyParams
	if !*unlimited {
		amount, err := parseAmount(*capStr)
		if err != nil {
			fatal("invalid max-supply: %v", err)
		}
		p.MaxSupply = &amount
	}

	var state struct {
		MaxSupply *uint64 `json:"max_supply"`
	}
	if err := client.SubmitOp(engine.OpUpdateMaxSupply, p, key, &state); err != nil {
		fatal("%s: %v", engine.OpUpdateMaxSupply, err)
	}
	if state.MaxSupply != nil {
		fmt.Printf("Supply cap is now %s\n", formatAmount(*state.MaxSupply))
	} else {
		fmt.Println("Supply cap removed")
	}
}

// ── vault ───────────────────────────────────────────────────────────────

func cmdVault(client *rpcclient.Client, args []string, krDir string) {
	if len(args) < 1 {
		fatal("Usage: bootynet-cli vault <show|init|deposit|claim|whitelist|set-authority|record|whitelist-show> [flags]")
	}

	switch args[0] {
	case "show":
		cmdVaultShow(client)
	case "init":
		cmdVaultInit(client, args[1:], krDir)
	case "deposit":
		cmdVaultDeposit(client, args[1:], krDir)
	case "claim":
		cmdVaultClaim(client, args[1:], krDir)
	case "whitelist":
		cmdVaultWhitelist(client, args[1:], krDir)
	case "set-authority":
		cmdVaultSetAuthority(client, args[1:], krDir)
	case "record":
		cmdVaultRecord(client, args[1:])
	case "whitelist-show":
		cmdVaultWhitelistShow(client, args[1:])
	default:
		fatal("Unknown vault command: %s", args[0])
	}
}

func cmdVaultShow(client *rpcclient.Client) {
	var state struct {
		Authority         string `json:"authority"`
		TotalDeposited    uint64 `json:"total_deposited"`
		TotalClaimedCount uint64 `json:"total_claimed_count"`
	}
	if err := client.Call("vault_get", nil, &state); err != nil {
		fatal("vault_get: %v", err)
	}

	fmt.Printf("Authority:  %s\n", state.Authority)
	fmt.Printf("Deposited:  %s\n", formatAmount(state.TotalDeposited))
	fmt.Printf("Claims:     %d\n", state.TotalClaimedCount)
}

func cmdVaultInit(client *rpcclient.Client, args []string, krDir string) {
	fs := flag.NewFlagSet("vault init", flag.ExitOnError)
	kr := fs.String("keyring", "", "Keyring name")
	identity := fs.String("identity", "", "Signing identity (default: first)")
	fs.Parse(args)

	key := unlockSigner(krDir, *kr, *identity)
	defer key.Zero()

	var state struct {
		Authority string `json:"authority"`
	}
	if err := client.SubmitOp(engine.OpInitVault, nil, key, &state); err != nil {
		fatal("%s: %v", engine.OpInitVault, err)
	}
	fmt.Printf("Vault initialized, authority %s\n", state.Authority)
}

func cmdVaultDeposit(client *rpcclient.Client, args []string, krDir string) {
	fs := flag.NewFlagSet("vault deposit", flag.ExitOnError)
	kr := fs.String("keyring", "", "Keyring name")
	identity := fs.String("identity", "", "Signing identity (default: first)")
	amountStr := fs.String("amount", "", "Amount in tokens")
	nonce := fs.Uint64("nonce", uint64(time.Now().Unix()), "Deposit nonce (unique per depositor; defaults to Unix time)")
	fs.Parse(args)

	amount, err := parseAmount(*amountStr)
	if err != nil {
		fatal("invalid amount: %v", err)
	}

	key := unlockSigner(krDir, *kr, *identity)
	defer key.Zero()

	p := engine.DepositParams{Amount: amount, Nonce: *nonce}
	var result struct {
		Record struct {
			Tier uint8 `json:"tier"`
		} `json:"record"`
		Address string `json:"address"`
	}
	if err := client.SubmitOp(engine.OpDeposit, p, key, &result); err != nil {
		fatal("%s: %v", engine.OpDeposit, err)
	}
	fmt.Printf("Deposited %s (tier: %s)\n", formatAmount(amount), tierName(result.Record.Tier))
	fmt.Printf("Record: %s\n", result.Address)
}

func cmdVaultClaim(client *rpcclient.Client, args []string, krDir string) {
	fs := flag.NewFlagSet("vault claim", flag.ExitOnError)
	kr := fs.String("keyring", "", "Keyring name")
	identity := fs.String("identity", "", "Signing identity (default: first)")
	recordStr := fs.String("record", "", "Deposit record address (hex)")
	fs.Parse(args)

	recordAddr, err := types.HexToProgramAddress(*recordStr)
	if err != nil {
		fatal("invalid record address: %v", err)
	}

	key := unlockSigner(krDir, *kr, *identity)
	defer key.Zero()

	p := engine.ClaimParams{Record: recordAddr}
	var rec struct {
		Amount uint64 `json:"amount"`
		Tier   uint8  `json:"tier"`
	}
	if err := client.SubmitOp(engine.OpClaim, p, key, &rec); err != nil {
		fatal("%s: %v", engine.OpClaim, err)
	}
	fmt.Printf("Claimed %s (tier: %s)\n", formatAmount(rec.Amount), tierName(rec.Tier))
}

func cmdVaultWhitelist(client *rpcclient.Client, args []string, krDir string) {
	fs := flag.NewFlagSet("vault whitelist", flag.ExitOnError)
	kr := fs.String("keyring", "", "Keyring name")
	identity := fs.String("identity", "", "Signing identity (default: first)")
	assetStr := fs.String("asset", "", "Asset identifier (hex)")
	enabled := fs.Bool("enabled", true, "Whitelist state")
	fs.Parse(args)

	asset, err := types.HexToAssetID(*assetStr)
	if err != nil {
		fatal("invalid asset: %v", err)
	}

	key := unlockSigner(krDir, *kr, *identity)
	defer key.Zero()

	p := engine.WhitelistParams{Asset: asset, Enabled: *enabled}
	var entry struct {
		Enabled bool `json:"enabled"`
	}
	if err := client.SubmitOp(engine.OpWhitelist, p, key, &entry); err != nil {
		fatal("%s: %v", engine.OpWhitelist, err)
	}
	fmt.Printf("Asset %s whitelist enabled=%t\n", asset.Short(), entry.Enabled)
}

func cmdVaultSetAuthority(client *rpcclient.Client, args []string, krDir string) {
	fs := flag.NewFlagSet("vault set-authority", flag.ExitOnError)
	kr := fs.String("keyring", "", "Keyring name")
	identity := fs.String("identity", "", "Signing identity (default: first)")
	newAuth := fs.String("new", "", "New authority public key (hex)")
	fs.Parse(args)

	authority, err := types.HexToPublicKey(*newAuth)
	if err != nil {
		fatal("invalid new authority: %v", err)
	}

	key := unlockSigner(krDir, *kr, *identity)
	defer key.Zero()

	p := engine.UpdateAuthorityParams{NewAuthority: &authority}
	var state struct {
		Authority string `json:"authority"`
	}
	if err := client.SubmitOp(engine.OpUpdateVault, p, key, &state); err != nil {
		fatal("%s: %v", engine.OpUpdateVault, err)
	}
	fmt.Printf("Vault authority is now %s\n", state.Authority)
}

func cmdVaultRecord(client *rpcclient.Client, args []string) {
	if len(args) < 1 {
		fatal("Usage: bootynet-cli vault record <addr>")
	}

	var rec struct {
		Depositor string `json:"depositor"`
		Amount    uint64 `json:"amount"`
		Nonce     uint64 `json:"nonce"`
		Claimed   bool   `json:"claimed"`
		Tier      uint8  `json:"tier"`
	}
	if err := client.Call("vault_getDeposit", rpc.RecordParam{Record: args[0]}, &rec); err != nil {
		fatal("vault_getDeposit: %v", err)
	}

	fmt.Printf("Depositor:  %s\n", rec.Depositor)
	fmt.Printf("Amount:     %s\n", formatAmount(rec.Amount))
	fmt.Printf("Nonce:      %d\n", rec.Nonce)
	fmt.Printf("Claimed:    %t\n", rec.Claimed)
	fmt.Printf("Tier:       %s\n", tierName(rec.Tier))
}

func cmdVaultWhitelistShow(client *rpcclient.Client, args []string) {
	if len(args) < 1 {
		fatal("Usage: bootynet-cli vault whitelist-show <asset>")
	}

	var entry struct {
		Asset   string `json:"asset"`
		Enabled bool   `json:"enabled"`
	}
	if err := client.Call("vault_getWhitelist", rpc.AssetParam{Asset: args[0]}, &entry); err != nil {
		fatal("vault_getWhitelist: %v", err)
	}

	fmt.Printf("Asset:    %s\n", entry.Asset)
	fmt.Printf("Enabled:  %t\n", entry.Enabled)
}

// ── search ──────────────────────────────────────────────────────────────

func cmdSearch(client *rpcclient.Client, args []string, krDir string) {
	if len(args) < 1 {
		fatal("Usage: bootynet-cli search <submit|resolve|show> [flags]")
	}

	switch args[0] {
	case "submit":
		cmdSearchSubmit(client, args[1:], krDir)
	case "resolve":
		cmdSearchResolve(client, args[1:], krDir)
	case "show":
		cmdSearchShow(client, args[1:])
	default:
		fatal("Unknown search command: %s", args[0])
	}
}

func cmdSearchSubmit(client *rpcclient.Client, args []string, krDir string) {
	fs := flag.NewFlagSet("search submit", flag.ExitOnError)
	kr := fs.String("keyring", "", "Keyring name")
	identity := fs.String("identity", "", "Signing identity (default: first)")
	x := fs.Int("x", 0, "X coordinate")
	y := fs.Int("y", 0, "Y coordinate")
	nonce := fs.Uint64("nonce", uint64(time.Now().Unix()), "Search nonce (unique per searcher; defaults to Unix time)")
	fs.Parse(args)

	if *x < math.MinInt32 || *x > math.MaxInt32 || *y < math.MinInt32 || *y > math.MaxInt32 {
		fatal("coordinates must fit in 32 bits")
	}

	key := unlockSigner(krDir, *kr, *identity)
	defer key.Zero()

	p := engine.SearchParams{X: int32(*x), Y: int32(*y), Nonce: *nonce}
	var result struct {
		Address string `json:"address"`
	}
	if err := client.SubmitOp(engine.OpSearch, p, key, &result); err != nil {
		fatal("%s: %v", engine.OpSearch, err)
	}
	fmt.Printf("Search recorded at (%d, %d)\n", *x, *y)
	fmt.Printf("Record: %s\n", result.Address)
}

func cmdSearchResolve(client *rpcclient.Client, args []string, krDir string) {
	fs := flag.NewFlagSet("search resolve", flag.ExitOnError)
	kr := fs.String("keyring", "", "Keyring name")
	identity := fs.String("identity", "", "Signing identity (default: first)")
	recordStr := fs.String("record", "", "Search record address (hex)")
	fs.Parse(args)

	recordAddr, err := types.HexToProgramAddress(*recordStr)
	if err != nil {
		fatal("invalid record address: %v", err)
	}

	key := unlockSigner(krDir, *kr, *identity)
	defer key.Zero()

	p := engine.ResolveParams{Record: recordAddr}
	var rec struct {
		Found bool `json:"found"`
	}
	if err := client.SubmitOp(engine.OpResolve, p, key, &rec); err != nil {
		fatal("%s: %v", engine.OpResolve, err)
	}
	fmt.Printf("Search resolved (found=%t)\n", rec.Found)
}

func cmdSearchShow(client *rpcclient.Client, args []string) {
	if len(args) < 1 {
		fatal("Usage: bootynet-cli search show <addr>")
	}

	var rec struct {
		Searcher string `json:"searcher"`
		X        int32  `json:"x"`
		Y        int32  `json:"y"`
		Nonce    uint64 `json:"nonce"`
		Found    bool   `json:"found"`
	}
	if err := client.Call("search_get", rpc.RecordParam{Record: args[0]}, &rec); err != nil {
		fatal("search_get: %v", err)
	}

	fmt.Printf("Searcher:  %s\n", rec.Searcher)
	fmt.Printf("Location:  (%d, %d)\n", rec.X, rec.Y)
	fmt.Printf("Nonce:     %d\n", rec.Nonce)
	fmt.Printf("Found:     %t\n", rec.Found)
}

// ── collectible ─────────────────────────────────────────────────────────

func cmdCollectible(client *rpcclient.Client, args []string, krDir string) {
	if len(args) < 1 {
		fatal("Usage: bootynet-cli collectible <mint|issue|receipt> [flags]")
	}

	switch args[0] {
	case "mint":
		cmdCollectibleMint(client, args[1:], krDir)
	case "issue":
		cmdCollectibleIssue(client, args[1:], krDir)
	case "receipt":
		cmdCollectibleReceipt(client, args[1:])
	default:
		fatal("Unknown collectible command: %s", args[0])
	}
}

func cmdCollectibleMint(client *rpcclient.Client, args []string, krDir string) {
	fs := flag.NewFlagSet("collectible mint", flag.ExitOnError)
	kr := fs.String("keyring", "", "Keyring name")
	identity := fs.String("identity", "", "Signing identity (default: first)")
	mintStr := fs.String("mint", "", "Collectible mint identifier (hex)")
	to := fs.String("to", "", "Recipient public key (hex; default: signer)")
	title := fs.String("title", "", "Collectible title")
	symbol := fs.String("symbol", "", "Collectible symbol")
	uri := fs.String("uri", "", "Metadata URI")
	fs.Parse(args)

	mint, err := types.HexToAssetID(*mintStr)
	if err != nil {
		fatal("invalid mint: %v", err)
	}

	key := unlockSigner(krDir, *kr, *identity)
	defer key.Zero()

	p := engine.MintCollectibleParams{
		Mint:   mint,
		Title:  *title,
		Symbol: *symbol,
		URI:    *uri,
	}
	if *to != "" {
		recipient, err := types.HexToPublicKey(*to)
		if err != nil {
			fatal("invalid recipient: %v", err)
		}
		p.Recipient = recipient
	}

	var result struct {
		Mint      string `json:"mint"`
		Recipient string `json:"recipient"`
	}
	if err := client.SubmitOp(engine.OpMintCollectible, p, key, &result); err != nil {
		fatal("%s: %v", engine.OpMintCollectible, err)
	}
	fmt.Printf("Collectible %s minted to %s\n", result.Mint, result.Recipient)
}

func cmdCollectibleIssue(client *rpcclient.Client, args []string, krDir string) {
	fs := flag.NewFlagSet("collectible issue", flag.ExitOnError)
	kr := fs.String("keyring", "", "Keyring name")
	identity := fs.String("identity", "", "Signing identity (default: first)")
	mintStr := fs.String("mint", "", "Collectible mint identifier (hex)")
	depositStr := fs.String("deposit", "", "Claimed deposit record address (hex)")
	title := fs.String("title", "", "Collectible title")
	symbol := fs.String("symbol", "", "Collectible symbol")
	uri := fs.String("uri", "", "Metadata URI")
	fs.Parse(args)

	mint, err := types.HexToAssetID(*mintStr)
	if err != nil {
		fatal("invalid mint: %v", err)
	}
	deposit, err := types.HexToProgramAddress(*depositStr)
	if err != nil {
		fatal("invalid deposit address: %v", err)
	}

	key := unlockSigner(krDir, *kr, *identity)
	defer key.Zero()

	p := engine.IssueForDepositParams{
		Mint:    mint,
		Deposit: deposit,
		Title:   *title,
		Symbol:  *symbol,
		URI:     *uri,
	}
	var receipt struct {
		Mint string `json:"mint"`
	}
	if err := client.SubmitOp(engine.OpIssueForDeposit, p, key, &receipt); err != nil {
		fatal("%s: %v", engine.OpIssueForDeposit, err)
	}
	fmt.Printf("Collectible %s issued for deposit %s\n", receipt.Mint, deposit.Short())
}

func cmdCollectibleReceipt(client *rpcclient.Client, args []string) {
	if len(args) < 1 {
		fatal("Usage: bootynet-cli collectible receipt <addr>")
	}

	var receipt struct {
		Deposit string `json:"deposit"`
		Mint    string `json:"mint"`
	}
	if err := client.Call("collectible_getReceipt", rpc.RecordParam{Record: args[0]}, &receipt); err != nil {
		fatal("collectible_getReceipt: %v", err)
	}

	fmt.Printf("Deposit:  %s\n", receipt.Deposit)
	fmt.Printf("Mint:     %s\n", receipt.Mint)
}

// ── keys ────────────────────────────────────────────────────────────────

func cmdKeys(args []string, krDir string) {
	if len(args) < 1 {
		fatal("Usage: bootynet-cli keys <create|import|list|identities|new-identity> [flags]")
	}

	switch args[0] {
	case "create":
		cmdKeysCreate(args[1:], krDir)
	case "import":
		cmdKeysImport(args[1:], krDir)
	case "list":
		cmdKeysList(krDir)
	case "identities":
		cmdKeysIdentities(args[1:], krDir)
	case "new-identity":
		cmdKeysNewIdentity(args[1:], krDir)
	default:
		fatal("Unknown keys command: %s", args[0])
	}
}

func cmdKeysCreate(args []string, krDir string) {
	fs := flag.NewFlagSet("keys create", flag.ExitOnError)
	name := fs.String("name", "", "Keyring name")
	fs.Parse(args)

	if *name == "" {
		fatal("Usage: bootynet-cli keys create --name <name>")
	}

	mnemonic, err := keyring.GenerateMnemonic()
	if err != nil {
		fatal("generate mnemonic: %v", err)
	}

	fmt.Println("Mnemonic (write this down!):")
	fmt.Printf("  %s\n\n", mnemonic)

	createKeyring(krDir, *name, mnemonic)
}

func cmdKeysImport(args []string, krDir string) {
	fs := flag.NewFlagSet("keys import", flag.ExitOnError)
	name := fs.String("name", "", "Keyring name")
	mnemonic := fs.String("mnemonic", "", "BIP-39 mnemonic (24 words)")
	fs.Parse(args)

	if *name == "" || *mnemonic == "" {
		fatal("Usage: bootynet-cli keys import --name <name> --mnemonic \"...\"")
	}
	if !keyring.ValidateMnemonic(*mnemonic) {
		fatal("invalid mnemonic")
	}

	createKeyring(krDir, *name, *mnemonic)
}

// createKeyring prompts for a password, seals the seed and stores the
// first derived identity.
func createKeyring(krDir, name, mnemonic string) {
	password, err := readPassword("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	if string(password) != string(confirm) {
		fatal("passwords do not match")
	}

	seed, err := keyring.SeedFromMnemonic(mnemonic, "")
	if err != nil {
		fatal("derive seed: %v", err)
	}

	// Derive identity 0 before sealing.
	master, err := keyring.NewMasterKey(seed)
	if err != nil {
		fatal("derive master key: %v", err)
	}
	hdKey, err := master.DeriveIdentity(0)
	if err != nil {
		fatal("derive identity: %v", err)
	}
	pub, err := hdKey.PublicKey()
	if err != nil {
		fatal("derive public key: %v", err)
	}

	kr, err := keyring.NewKeyring(krDir)
	if err != nil {
		fatal("open keyring dir: %v", err)
	}
	if err := kr.Create(name, seed, password, keyring.DefaultKDFParams()); err != nil {
		fatal("create keyring: %v", err)
	}

	for i := range seed {
		seed[i] = 0
	}

	if _, err := kr.AllocateIndex(name); err != nil {
		fatal("allocate index: %v", err)
	}
	if err := kr.AddIdentity(name, keyring.IdentityEntry{
		Index:     0,
		Name:      "default",
		PublicKey: pub.String(),
	}); err != nil {
		fatal("add identity: %v", err)
	}

	fmt.Printf("\nKeyring created: %s\n", name)
	fmt.Printf("Identity: %s\n", pub.String())
}

func cmdKeysList(krDir string) {
	kr, err := keyring.NewKeyring(krDir)
	if err != nil {
		fatal("open keyring dir: %v", err)
	}
	names, err := kr.List()
	if err != nil {
		fatal("list keyrings: %v", err)
	}
	if len(names) == 0 {
		fmt.Println("No keyrings.")
		return
	}
	for _, name := range names {
		fmt.Println(name)
	}
}

func cmdKeysIdentities(args []string, krDir string) {
	fs := flag.NewFlagSet("keys identities", flag.ExitOnError)
	name := fs.String("name", "", "Keyring name")
	fs.Parse(args)

	if *name == "" {
		fatal("Usage: bootynet-cli keys identities --name <name>")
	}

	kr, err := keyring.NewKeyring(krDir)
	if err != nil {
		fatal("open keyring dir: %v", err)
	}
	entries, err := kr.ListIdentities(*name)
	if err != nil {
		fatal("list identities: %v", err)
	}
	for _, e := range entries {
		fmt.Printf("[%d] %-12s %s\n", e.Index, e.Name, e.PublicKey)
	}
}

func cmdKeysNewIdentity(args []string, krDir string) {
	fs := flag.NewFlagSet("keys new-identity", flag.ExitOnError)
	name := fs.String("name", "", "Keyring name")
	label := fs.String("label", "", "Identity label")
	fs.Parse(args)

	if *name == "" {
		fatal("Usage: bootynet-cli keys new-identity --name <name> [--label <l>]")
	}

	kr, err := keyring.NewKeyring(krDir)
	if err != nil {
		fatal("open keyring dir: %v", err)
	}

	password, err := readPassword("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	seed, err := kr.Unlock(*name, password)
	if err != nil {
		fatal("unlock keyring: %v", err)
	}
	defer func() {
		for i := range seed {
			seed[i] = 0
		}
	}()

	index, err := kr.AllocateIndex(*name)
	if err != nil {
		fatal("allocate index: %v", err)
	}

	master, err := keyring.NewMasterKey(seed)
	if err != nil {
		fatal("derive master key: %v", err)
	}
	hdKey, err := master.DeriveIdentity(index)
	if err != nil {
		fatal("derive identity: %v", err)
	}
	pub, err := hdKey.PublicKey()
	if err != nil {
		fatal("derive public key: %v", err)
	}

	entryName := *label
	if entryName == "" {
		entryName = fmt.Sprintf("identity-%d", index)
	}
	if err := kr.AddIdentity(*name, keyring.IdentityEntry{
		Index:     index,
		Name:      entryName,
		PublicKey: pub.String(),
	}); err != nil {
		fatal("add identity: %v", err)
	}

	fmt.Printf("[%d] %s %s\n", index, entryName, pub.String())
}

// ── helpers ─────────────────────────────────────────────────────────────

// unlockSigner prompts for the keyring password and derives the
// requested signing identity (the first one when identity is empty).
func unlockSigner(krDir, name, identity string) *crypto.PrivateKey {
	if name == "" {
		fatal("--keyring is required")
	}

	kr, err := keyring.NewKeyring(krDir)
	if err != nil {
		fatal("open keyring dir: %v", err)
	}

	index := uint32(0)
	if identity != "" {
		entry, err := kr.FindIdentity(name, identity)
		if err != nil {
			fatal("find identity: %v", err)
		}
		index = entry.Index
	}

	password, err := readPassword("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	seed, err := kr.Unlock(name, password)
	if err != nil {
		fatal("unlock keyring: %v", err)
	}
	defer func() {
		for i := range seed {
			seed[i] = 0
		}
	}()

	master, err := keyring.NewMasterKey(seed)
	if err != nil {
		fatal("derive master key: %v", err)
	}
	hdKey, err := master.DeriveIdentity(index)
	if err != nil {
		fatal("derive identity: %v", err)
	}
	key, err := hdKey.Signer()
	if err != nil {
		fatal("derive signer: %v", err)
	}
	return key
}

func tierName(tier uint8) string {
	switch tier {
	case vault.TierCommon:
		return "common"
	case vault.TierRare:
		return "rare"
	case vault.TierEpic:
		return "epic"
	case vault.TierLegendary:
		return "legendary"
	default:
		return fmt.Sprintf("unknown(%d)", tier)
	}
}

// formatAmount renders base units as whole tokens.
func formatAmount(units uint64) string {
	scale := params.UnitScale()
	whole := units / scale
	frac := units % scale
	return fmt.Sprintf("%d.%0*d", whole, int(params.Decimals), frac)
}

// parseAmount converts a decimal token string into base units.
func parseAmount(s string) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	if strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("negative amount")
	}

	parts := strings.SplitN(s, ".", 2)

	whole, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid whole part: %w", err)
	}

	decimals := int(params.Decimals)
	var frac uint64
	if len(parts) == 2 {
		fracStr := parts[1]
		if len(fracStr) > decimals {
			return 0, fmt.Errorf("too many decimal places (max %d)", decimals)
		}
		fracStr = fracStr + strings.Repeat("0", decimals-len(fracStr))
		frac, err = strconv.ParseUint(fracStr, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid fractional part: %w", err)
		}
	}

	scale := params.UnitScale()
	if whole > math.MaxUint64/scale {
		return 0, fmt.Errorf("amount too large")
	}
	result := whole * scale
	if result > math.MaxUint64-frac {
		return 0, fmt.Errorf("amount too large")
	}

	return result + frac, nil
}

func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		return nil, err
	}
	return password, nil
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
