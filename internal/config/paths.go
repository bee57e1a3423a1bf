package config

import (
	"os"
	"path/filepath"
)

// defaultVaultDir returns the default location for the encrypted vault,
// under the user's home directory.
func defaultVaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pocketvault"
	}
	return filepath.Join(home, ".pocketvault")
}

// RPCURLFor maps a chain identifier to its configured RPC endpoint. Returns
// an empty string for unknown chains; callers treat that as a config error.
func (c Config) RPCURLFor(chainID string) string {
	switch chainID {
	case "solana:101":
		return c.SolanaRPCURL
	case "eip155:1":
		return c.EthereumRPCURL
	case "eip155:137":
		return c.PolygonRPCURL
	case "eip155:8453":
		return c.BaseRPCURL
	case "eip155:42161":
		return c.ArbitrumRPCURL
	}
	return ""
}
