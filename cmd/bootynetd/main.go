// Bootynet account-state daemon.
//
// Usage:
//
//	bootynetd --devnet          Run a devnet node
//	bootynetd --help            Show help
//	bootynetd --version         Show version
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/corsair-labs/bootynet-chain/config"
	"github.com/corsair-labs/bootynet-chain/internal/node"
)

func main() {
	cfg, flags, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if flags.Version {
		fmt.Printf("bootynetd version %s\n", config.Version)
		return
	}
	if flags.Help {
		usage()
		return
	}

	n, err := node.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := n.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		n.Stop()
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	n.Stop()
}

func usage() {
	fmt.Print(`bootynetd - Bootynet account-state daemon

Usage:
  bootynetd [flags]

Flags:
  --datadir <path>        Data directory (default platform-specific)
  --config <path>         Config file (default <datadir>/bootynet.conf)
  --devnet                Run the in-memory devnet asset services
  --rpc / --rpc=false     Enable or disable the RPC server
  --rpc-addr <ip>         RPC listen address
  --rpc-port <port>       RPC listen port
  --rpc-allowed <list>    Comma-separated allowed client IPs/CIDRs
  --rpc-cors <list>       Comma-separated CORS origins
  --log-level <level>     debug, info, warn or error
  --log-file <path>       Log file path (JSON sink)
  --log-json              Log JSON to stdout
  --version               Show version
  --help                  Show this help
`)
}
