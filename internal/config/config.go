package config

import (
	"github.com/spf13/viper"
)

// ModuleName is used for CLI help and version output.
const ModuleName = "wallet-core"

// Config holds the full service configuration, read from ENV once at startup
// and injected into every component. No ambient globals.
type Config struct {
	// VaultDir is the directory holding the encrypted account vault files.
	VaultDir string
	// VaultPassphrase encrypts the vault entries at rest. On mobile this
	// comes from the platform keystore; the CLI reads it from ENV.
	VaultPassphrase string
	// AccountsKey and CurrentKey are the fixed, non-secret but obfuscated
	// names of the two persisted vault entries.
	AccountsKey string
	CurrentKey  string

	// Per-chain RPC endpoints.
	SolanaRPCURL   string
	EthereumRPCURL string
	PolygonRPCURL  string
	BaseRPCURL     string
	ArbitrumRPCURL string

	// AggregatorURL is the base URL of the bridge/swap aggregator API.
	AggregatorURL string
	// BridgeFeePercent is the flat display-fee percentage applied to bridge
	// quotes (the aggregator's own fee figure is not trusted for display).
	BridgeFeePercent float64

	LogLevel  string
	LogPretty bool
}

// FromEnv builds the Config from environment variables prefixed with WALLET_.
func FromEnv() Config {
	v := viper.New()
	v.SetEnvPrefix("WALLET")
	v.AutomaticEnv()

	v.SetDefault("VAULT_DIR", defaultVaultDir())
	v.SetDefault("VAULT_PASSPHRASE", "")
	v.SetDefault("ACCOUNTS_KEY", "pv.accounts.v1")
	v.SetDefault("CURRENT_KEY", "pv.current.v1")
	v.SetDefault("SOLANA_RPC_URL", "https://api.mainnet-beta.solana.com")
	v.SetDefault("ETHEREUM_RPC_URL", "https://eth.llamarpc.com")
	v.SetDefault("POLYGON_RPC_URL", "https://polygon-rpc.com")
	v.SetDefault("BASE_RPC_URL", "https://mainnet.base.org")
	v.SetDefault("ARBITRUM_RPC_URL", "https://arb1.arbitrum.io/rpc")
	v.SetDefault("AGGREGATOR_URL", "https://api.bridge.example.com")
	v.SetDefault("BRIDGE_FEE_PERCENT", 0.3)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)

	return Config{
		VaultDir:         v.GetString("VAULT_DIR"),
		VaultPassphrase:  v.GetString("VAULT_PASSPHRASE"),
		AccountsKey:      v.GetString("ACCOUNTS_KEY"),
		CurrentKey:       v.GetString("CURRENT_KEY"),
		SolanaRPCURL:     v.GetString("SOLANA_RPC_URL"),
		EthereumRPCURL:   v.GetString("ETHEREUM_RPC_URL"),
		PolygonRPCURL:    v.GetString("POLYGON_RPC_URL"),
		BaseRPCURL:       v.GetString("BASE_RPC_URL"),
		ArbitrumRPCURL:   v.GetString("ARBITRUM_RPC_URL"),
		AggregatorURL:    v.GetString("AGGREGATOR_URL"),
		BridgeFeePercent: v.GetFloat64("BRIDGE_FEE_PERCENT"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		LogPretty:        v.GetBool("LOG_PRETTY"),
	}
}
