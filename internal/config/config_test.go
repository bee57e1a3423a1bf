package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pocketvault/wallet-core/internal/config"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := config.FromEnv()

	assert.NotEmpty(t, cfg.VaultDir)
	assert.Equal(t, "pv.accounts.v1", cfg.AccountsKey)
	assert.Equal(t, "pv.current.v1", cfg.CurrentKey)
	assert.Equal(t, 0.3, cfg.BridgeFeePercent)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestFromEnvOverride(t *testing.T) {
	t.Setenv("WALLET_SOLANA_RPC_URL", "http://localhost:8899")
	t.Setenv("WALLET_VAULT_PASSPHRASE", "hunter2")

	cfg := config.FromEnv()
	assert.Equal(t, "http://localhost:8899", cfg.SolanaRPCURL)
	assert.Equal(t, "hunter2", cfg.VaultPassphrase)
}

func TestRPCURLFor(t *testing.T) {
	cfg := config.FromEnv()
	assert.Equal(t, cfg.PolygonRPCURL, cfg.RPCURLFor("eip155:137"))
	assert.Equal(t, cfg.SolanaRPCURL, cfg.RPCURLFor("solana:101"))
	assert.Empty(t, cfg.RPCURLFor("eip155:56"))
}
