// Package config handles application configuration.
//
// Configuration is split into two categories:
//   - Protocol params: tier bands, minimum deposit, token decimals —
//     shared constants that every node must agree on
//   - Node settings: runtime configuration, can vary per node
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Version is the node software version.
const Version = "0.1.0"

// Config holds node-specific runtime configuration.
type Config struct {
	// Core
	DataDir string `conf:"datadir"`

	// RPC server
	RPC RPCConfig

	// Keyring (CLI signing identities)
	Keyring KeyringConfig

	// Devnet runs the in-memory asset services instead of a live
	// external ledger.
	Devnet bool `conf:"devnet"`

	// Logging
	Log LogConfig
}

// RPCConfig holds RPC server settings.
type RPCConfig struct {
	Enabled     bool     `conf:"rpc.enabled"`
	Addr        string   `conf:"rpc.addr"`
	Port        int      `conf:"rpc.port"`
	AllowedIPs  []string `conf:"rpc.allowed"`
	CORSOrigins []string `conf:"rpc.cors"` // Allowed CORS origins ("*" = all).
}

// KeyringConfig holds keyring settings.
type KeyringConfig struct {
	Dir string `conf:"keyring.dir"` // Defaults to <datadir>/keyring.
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// KeyringDir returns the effective keyring directory.
func (c *Config) KeyringDir() string {
	if c.Keyring.Dir != "" {
		return c.Keyring.Dir
	}
	return filepath.Join(c.DataDir, "keyring")
}

// DBDir returns the account-store database directory.
func (c *Config) DBDir() string {
	return filepath.Join(c.DataDir, "db")
}

// LogsDir returns the default log directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.bootynet
//	macOS:   ~/Library/Application Support/Bootynet
//	Windows: %APPDATA%\Bootynet
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bootynet"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Bootynet")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "Bootynet")
		}
		return filepath.Join(home, "Bootynet")
	default:
		return filepath.Join(home, ".bootynet")
	}
}
