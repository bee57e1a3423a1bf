// Package app wires the configured components into one container the CLI
// commands share: vault, account store, per-chain RPC clients, and the swap
// orchestrator.
package app

import (
	"github.com/ethereum/go-ethereum/ethclient"
	solrpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/pocketvault/wallet-core/internal/account"
	"github.com/pocketvault/wallet-core/internal/authgate"
	"github.com/pocketvault/wallet-core/internal/bridge"
	"github.com/pocketvault/wallet-core/internal/chain"
	"github.com/pocketvault/wallet-core/internal/config"
	txevm "github.com/pocketvault/wallet-core/internal/tx/evm"
	txsolana "github.com/pocketvault/wallet-core/internal/tx/solana"
	"github.com/pocketvault/wallet-core/internal/vault"
)

type App struct {
	Config   config.Config
	Vault    *vault.Vault
	Accounts *account.Store
	Gate     authgate.Gate

	Solana txsolana.Client
	EVM    map[chain.ID]txevm.Client

	Aggregator *bridge.Client
	Bridge     *bridge.Orchestrator
}

// New builds the full component graph from configuration. RPC clients are
// created eagerly but do not touch the network until first use.
func New(cfg config.Config) (*App, error) {
	if cfg.VaultPassphrase == "" {
		return nil, errors.New("vault passphrase is not configured")
	}

	backend, err := vault.NewFileBackend(cfg.VaultDir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open vault directory")
	}
	v := vault.New(backend, []byte(cfg.VaultPassphrase), vault.DefaultScryptParams())
	accounts := account.NewStore(v, cfg.AccountsKey, cfg.CurrentKey)

	solClient := solrpc.New(cfg.SolanaRPCURL)

	evmClients := make(map[chain.ID]txevm.Client)
	for _, id := range chain.Supported() {
		if !id.IsEVM() {
			continue
		}
		url := cfg.RPCURLFor(string(id))
		if url == "" {
			return nil, errors.Errorf("no RPC endpoint configured for %s", id)
		}
		client, err := ethclient.Dial(url)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to dial %s", id)
		}
		evmClients[id] = client
	}

	aggregator, err := bridge.NewClient(cfg.AggregatorURL, bridge.WithLogger(log.Logger))
	if err != nil {
		return nil, err
	}

	gate := authgate.Passthrough{}
	orchestrator := bridge.NewOrchestrator(
		aggregator,
		accounts,
		gate,
		decimal.NewFromFloat(cfg.BridgeFeePercent),
		solClient,
		evmClients,
	)

	return &App{
		Config:     cfg,
		Vault:      v,
		Accounts:   accounts,
		Gate:       gate,
		Solana:     solClient,
		EVM:        evmClients,
		Aggregator: aggregator,
		Bridge:     orchestrator,
	}, nil
}
