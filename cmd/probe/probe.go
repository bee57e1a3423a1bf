// Package probe implements reachability checks for the configured
// endpoints and the local vault.
package probe

import (
	"context"
	"fmt"
	"time"

	solrpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/pocketvault/wallet-core/internal/app"
	"github.com/pocketvault/wallet-core/internal/chain"
	"github.com/pocketvault/wallet-core/internal/config"
	"github.com/pocketvault/wallet-core/internal/util/command"
)

const probeTimeout = 10 * time.Second

func New() *cobra.Command {
	return command.NewSubcommandGroup("probe",
		newRPC(),
		newVault(),
	)
}

func newRPC() *cobra.Command {
	return &cobra.Command{
		Use:   "rpc",
		Short: "Check all configured RPC endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			return command.WithApp(cmd.Context(), config.FromEnv(), func(ctx context.Context, a *app.App) error {
				ctx, cancel := context.WithTimeout(ctx, probeTimeout)
				defer cancel()

				failures := 0
				if _, err := a.Solana.GetBlockHeight(ctx, solrpc.CommitmentConfirmed); err != nil {
					fmt.Printf("%-16s unreachable: %v\n", chain.SolanaMainnet, err)
					failures++
				} else {
					fmt.Printf("%-16s ok\n", chain.SolanaMainnet)
				}

				for id, client := range a.EVM {
					if _, err := client.SuggestGasPrice(ctx); err != nil {
						fmt.Printf("%-16s unreachable: %v\n", id, err)
						failures++
						continue
					}
					fmt.Printf("%-16s ok\n", id)
				}

				if failures > 0 {
					return errors.Errorf("%d endpoint(s) unreachable", failures)
				}
				return nil
			})
		},
	}
}

func newVault() *cobra.Command {
	return &cobra.Command{
		Use:   "vault",
		Short: "Check the vault opens and stored accounts verify",
		RunE: func(cmd *cobra.Command, args []string) error {
			return command.WithApp(cmd.Context(), config.FromEnv(), func(ctx context.Context, a *app.App) error {
				if err := a.Accounts.Verify(ctx); err != nil {
					return errors.Wrap(err, "vault verification failed")
				}
				fmt.Println("vault ok")
				return nil
			})
		},
	}
}
