// Package accounts implements the account management subcommands.
package accounts

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
	return command.NewSubcommandGroup("accounts",
		newList(),
		newSwitch(),
		newDisconnect(),
		newVerify(),
	)
}

func newList() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored accounts and mark the current one",
		RunE: func(cmd *cobra.Command, args []string) error {
			return command.WithApp(cmd.Context(), config.FromEnv(), func(ctx context.Context, a *app.App) error {
				accs, err := a.Accounts.GetAllAccounts(ctx)
				if err != nil {
					return err
				}
				currentID, err := a.Accounts.GetCurrentAccountID(ctx)
				if err != nil {
					return err
				}
				for _, acc := range accs {
					printAccount(acc, acc.UserAccountID == currentID)
				}
				if len(accs) == 0 {
					fmt.Println("no accounts stored")
				}
				return nil
			})
		},
	}
}

func printAccount(acc *account.Account, current bool) {
	marker := " "
	if current {
		marker = "*"
	}
	fmt.Printf("%s %s (%s)\n", marker, acc.UserAccountID, acc.UserAccountName)
	if acc.SVM != nil {
		fmt.Printf("    svm  %s\n", acc.SVM.PublicKey)
	}
	if acc.EVM != nil {
		fmt.Printf("    evm  %s\n", acc.EVM.PublicKey)
	}
}

func newSwitch() *cobra.Command {
	return &cobra.Command{
		Use:   "switch <account-id>",
		Short: "Make an account the current one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return command.WithApp(cmd.Context(), config.FromEnv(), func(ctx context.Context, a *app.App) error {
				if err := a.Accounts.SwitchAccount(ctx, args[0]); err != nil {
					return err
				}
				fmt.Printf("current account: %s\n", args[0])
				return nil
			})
		},
	}
}

func newDisconnect() *cobra.Command {
	var all bool
	var chainOnly string
	cmd := &cobra.Command{
		Use:   "disconnect [account-id]",
		Short: "Remove an account (or one chain of it, or all accounts)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return command.WithApp(cmd.Context(), config.FromEnv(), func(ctx context.Context, a *app.App) error {
				if all {
					return a.Accounts.DisconnectAllAccounts(ctx)
				}
				if len(args) != 1 {
					return fmt.Errorf("account id is required unless --all is set")
				}
				id := args[0]
				switch chainOnly {
				case "":
					return a.Accounts.DisconnectAccount(ctx, id)
				case "svm":
					return a.Accounts.DisconnectSVMAccount(ctx, id)
				case "evm":
					return a.Accounts.DisconnectEVMAccount(ctx, id)
				default:
					return fmt.Errorf("unknown chain %q, want svm or evm", chainOnly)
				}
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "disconnect every stored account")
	cmd.Flags().StringVar(&chainOnly, "chain", "", "disconnect only one chain (svm|evm)")
	return cmd
}

func newVerify() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Re-derive stored accounts from their seed phrases and check addresses",
		RunE: func(cmd *cobra.Command, args []string) error {
			return command.WithApp(cmd.Context(), config.FromEnv(), func(ctx context.Context, a *app.App) error {
				if err := a.Accounts.Verify(ctx); err != nil {
					return err
				}
				fmt.Println("all stored accounts verified")
				return nil
			})
		},
	}
}
