// Package connect implements importing existing keys into the store, from a
// seed phrase or a raw private key.
package connect

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pocketvault/wallet-core/internal/account"
	"github.com/pocketvault/wallet-core/internal/app"
	"github.com/pocketvault/wallet-core/internal/config"
	"github.com/pocketvault/wallet-core/internal/util/command"
)

func New() *cobra.Command {
	return command.NewSubcommandGroup("connect",
		newSeed(),
		newKey(),
	)
}

func newSeed() *cobra.Command {
	var id, name, chainKind string
	cmd := &cobra.Command{
		Use:   "seed <mnemonic>",
		Short: "Connect an account from a seed phrase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return command.WithApp(cmd.Context(), config.FromEnv(), func(ctx context.Context, a *app.App) error {
				acc, err := connectSeed(ctx, a, chainKind, id, name, args[0])
				if err != nil {
					return err
				}
				printConnected(acc)
				return nil
			})
		},
	}
	addFlags(cmd, &id, &name, &chainKind)
	return cmd
}

func newKey() *cobra.Command {
	var id, name, chainKind string
	cmd := &cobra.Command{
		Use:   "key <private-key>",
		Short: "Connect an account from a raw private key (base58 for svm, hex for evm)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return command.WithApp(cmd.Context(), config.FromEnv(), func(ctx context.Context, a *app.App) error {
				var acc *account.Account
				var err error
				switch chainKind {
				case "svm":
					acc, err = a.Accounts.ConnectSVMAccountWithPrivateKey(ctx, id, name, args[0])
				case "evm":
					acc, err = a.Accounts.ConnectEVMAccountWithPrivateKey(ctx, id, name, args[0])
				default:
					// a raw key belongs to exactly one account model
					return fmt.Errorf("chain must be svm or evm for raw keys, got %q", chainKind)
				}
				if err != nil {
					return err
				}
				printConnected(acc)
				return nil
			})
		},
	}
	addFlags(cmd, &id, &name, &chainKind)
	return cmd
}

func connectSeed(ctx context.Context, a *app.App, chainKind, id, name, mnemonic string) (*account.Account, error) {
	switch chainKind {
	case "svm":
		return a.Accounts.ConnectSVMAccountWithSeedPhrase(ctx, id, name, mnemonic)
	case "evm":
		return a.Accounts.ConnectEVMAccountWithSeedPhrase(ctx, id, name, mnemonic)
	case "both":
		if _, err := a.Accounts.ConnectSVMAccountWithSeedPhrase(ctx, id, name, mnemonic); err != nil {
			return nil, err
		}
		return a.Accounts.ConnectEVMAccountWithSeedPhrase(ctx, id, name, mnemonic)
	}
	return nil, fmt.Errorf("unknown chain %q, want svm, evm or both", chainKind)
}

func printConnected(acc *account.Account) {
	fmt.Printf("connected account %s (%s)\n", acc.UserAccountID, acc.UserAccountName)
	if acc.SVM != nil {
		fmt.Printf("  svm %s\n", acc.SVM.PublicKey)
	}
	if acc.EVM != nil {
		fmt.Printf("  evm %s\n", acc.EVM.PublicKey)
	}
}

func addFlags(cmd *cobra.Command, id, name, chainKind *string) {
	cmd.Flags().StringVar(id, "id", "", "account id (required)")
	cmd.Flags().StringVar(name, "name", "Account", "display name")
	cmd.Flags().StringVar(chainKind, "chain", "both", "chain to connect (svm|evm|both)")
	_ = cmd.MarkFlagRequired("id")
}
