// Package create implements onboarding: generate a mnemonic and connect
// both chain accounts from it.
package create

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pocketvault/wallet-core/internal/app"
	"github.com/pocketvault/wallet-core/internal/config"
	"github.com/pocketvault/wallet-core/internal/keys"
	"github.com/pocketvault/wallet-core/internal/util/command"
)

func New() *cobra.Command {
	var words int
	var name string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Generate a new seed phrase and connect SVM + EVM accounts from it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return command.WithApp(cmd.Context(), config.FromEnv(), func(ctx context.Context, a *app.App) error {
				mnemonic, err := keys.GenerateMnemonic(words)
				if err != nil {
					return err
				}

				id := uuid.New().String()
				if _, err := a.Accounts.ConnectSVMAccountWithSeedPhrase(ctx, id, name, mnemonic); err != nil {
					return err
				}
				acc, err := a.Accounts.ConnectEVMAccountWithSeedPhrase(ctx, id, name, mnemonic)
				if err != nil {
					return err
				}

				fmt.Printf("account id: %s\n", id)
				fmt.Printf("svm address: %s\n", acc.SVM.PublicKey)
				fmt.Printf("evm address: %s\n", acc.EVM.PublicKey)
				fmt.Printf("\nseed phrase (write it down, it is shown only once):\n%s\n", mnemonic)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&words, "words", 12, "mnemonic length, 12 or 24 words")
	cmd.Flags().StringVar(&name, "name", "Account", "display name for the new account")
	return cmd
}
