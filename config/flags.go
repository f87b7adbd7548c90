package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
)

// Flags holds parsed command-line flags.
type Flags struct {
	// Commands
	Help    bool
	Version bool

	// Core
	DataDir string
	Config  string
	Devnet  bool

	// RPC
	RPC        bool
	RPCAddr    string
	RPCPort    int
	RPCAllowed string
	RPCCORS    string

	// Keyring
	KeyringDir string

	// Logging
	LogLevel string
	LogFile  string
	LogJSON  bool

	// Remaining args
	Args []string

	// Explicitly-set bool flags (for true/false overrides).
	SetRPC     bool
	SetDevnet  bool
	SetLogJSON bool
}

// ParseFlags parses command-line flags.
func ParseFlags() (*Flags, error) {
	f := &Flags{}
	fs := flag.NewFlagSet("bootynetd", flag.ContinueOnError)

	// Commands
	fs.BoolVar(&f.Help, "help", false, "Show help message")
	fs.BoolVar(&f.Help, "h", false, "Show help message (shorthand)")
	fs.BoolVar(&f.Version, "version", false, "Show version information")

	// Core
	fs.StringVar(&f.DataDir, "datadir", "", "Data directory path")
	fs.StringVar(&f.Config, "config", "", "Config file path")
	fs.BoolVar(&f.Devnet, "devnet", false, "Run in-memory devnet asset services")

	// RPC
	fs.BoolVar(&f.RPC, "rpc", true, "Enable the RPC server")
	fs.StringVar(&f.RPCAddr, "rpc-addr", "", "RPC listen address")
	fs.IntVar(&f.RPCPort, "rpc-port", 0, "RPC listen port")
	fs.StringVar(&f.RPCAllowed, "rpc-allowed", "", "Comma-separated allowed client IPs/CIDRs")
	fs.StringVar(&f.RPCCORS, "rpc-cors", "", "Comma-separated CORS origins")

	// Keyring
	fs.StringVar(&f.KeyringDir, "keyring-dir", "", "Keyring directory path")

	// Logging
	fs.StringVar(&f.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.LogFile, "log-file", "", "Log file path (JSON sink)")
	fs.BoolVar(&f.LogJSON, "log-json", false, "Log JSON to stdout")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, err
	}
	f.Args = fs.Args()

	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "rpc":
			f.SetRPC = true
		case "devnet":
			f.SetDevnet = true
		case "log-json":
			f.SetLogJSON = true
		}
	})

	return f, nil
}

// ApplyFlags overlays explicitly-set flags onto a Config.
func ApplyFlags(cfg *Config, f *Flags) {
	if f.DataDir != "" {
		cfg.DataDir = f.DataDir
	}
	if f.SetDevnet {
		cfg.Devnet = f.Devnet
	}
	if f.SetRPC {
		cfg.RPC.Enabled = f.RPC
	}
	if f.RPCAddr != "" {
		cfg.RPC.Addr = f.RPCAddr
	}
	if f.RPCPort != 0 {
		cfg.RPC.Port = f.RPCPort
	}
	if f.RPCAllowed != "" {
		cfg.RPC.AllowedIPs = parseStringList(f.RPCAllowed)
	}
	if f.RPCCORS != "" {
		cfg.RPC.CORSOrigins = parseStringList(f.RPCCORS)
	}
	if f.KeyringDir != "" {
		cfg.Keyring.Dir = f.KeyringDir
	}
	if f.LogLevel != "" {
		cfg.Log.Level = f.LogLevel
	}
	if f.LogFile != "" {
		cfg.Log.File = f.LogFile
	}
	if f.SetLogJSON {
		cfg.Log.JSON = f.LogJSON
	}
}

// Load builds the effective Config: defaults, then config file, then
// explicitly-set flags.
func Load() (*Config, *Flags, error) {
	f, err := ParseFlags()
	if err != nil {
		return nil, nil, err
	}

	cfg := Default()

	// Flags may point at a non-default datadir holding the config file.
	if f.DataDir != "" {
		cfg.DataDir = f.DataDir
	}

	path := f.Config
	if path == "" {
		path = filepath.Join(cfg.DataDir, "bootynet.conf")
	}
	values, err := LoadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load config file: %w", err)
	}
	if err := ApplyFileConfig(cfg, values); err != nil {
		return nil, nil, err
	}

	ApplyFlags(cfg, f)

	if err := Validate(cfg); err != nil {
		return nil, nil, err
	}
	return cfg, f, nil
}
