package cmd

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pocketvault/wallet-core/cmd/accounts"
	"github.com/pocketvault/wallet-core/cmd/connect"
	"github.com/pocketvault/wallet-core/cmd/create"
	"github.com/pocketvault/wallet-core/cmd/probe"
	"github.com/pocketvault/wallet-core/cmd/send"
	"github.com/pocketvault/wallet-core/cmd/swap"
	"github.com/pocketvault/wallet-core/internal/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pocketvault",
	Short: config.ModuleName,
	Long: `pocketvault

A cross-chain (Solana + EVM) wallet core.
Requires configuration through ENV (WALLET_ prefix).`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.AddCommand(
		accounts.New(),
		connect.New(),
		create.New(),
		probe.New(),
		send.New(),
		swap.New(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Failed to execute root command")
		os.Exit(1)
	}
}
