// Package send implements the transfer flow: estimate, build, authorize,
// execute, all against the current account.
package send

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	solanago "github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/pocketvault/wallet-core/internal/app"
	"github.com/pocketvault/wallet-core/internal/authgate"
	"github.com/pocketvault/wallet-core/internal/chain"
	"github.com/pocketvault/wallet-core/internal/config"
	"github.com/pocketvault/wallet-core/internal/tx"
	txevm "github.com/pocketvault/wallet-core/internal/tx/evm"
	txsolana "github.com/pocketvault/wallet-core/internal/tx/solana"
	"github.com/pocketvault/wallet-core/internal/util/command"
)

func New() *cobra.Command {
	var chainID, token, to, amount string
	var estimateOnly bool
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send native or token funds from the current account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return command.WithApp(cmd.Context(), config.FromEnv(), func(ctx context.Context, a *app.App) error {
				amt, err := decimal.NewFromString(amount)
				if err != nil {
					return errors.Wrap(tx.ErrInvalidAmount, amount)
				}
				req := tx.TransferRequest{
					Chain:  chain.ID(chainID),
					Token:  token,
					To:     to,
					Amount: amt,
				}
				if !chain.IsSupported(req.Chain) {
					return errors.Wrapf(chain.ErrUnsupportedChain, "%q", chainID)
				}
				if req.Chain.IsSolana() {
					return runSolana(ctx, a, req, estimateOnly)
				}
				return runEVM(ctx, a, req, estimateOnly)
			})
		},
	}
	cmd.Flags().StringVar(&chainID, "chain", string(chain.SolanaMainnet), "destination chain id (e.g. solana:101, eip155:1)")
	cmd.Flags().StringVar(&token, "token", tx.NativeToken, "token mint/contract address, or \"native\"")
	cmd.Flags().StringVar(&to, "to", "", "recipient address (required)")
	cmd.Flags().StringVar(&amount, "amount", "", "amount in human units (required)")
	cmd.Flags().BoolVar(&estimateOnly, "estimate", false, "only print the fee estimate")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func authorize(ctx context.Context, gate authgate.Gate) error {
	res, err := gate.Authorize(ctx, "Confirm transfer")
	if err != nil {
		return errors.Wrap(err, "authentication failed")
	}
	switch res {
	case authgate.Success:
		return nil
	case authgate.Canceled:
		return errors.New("transfer canceled")
	default:
		return errors.New("authentication failed")
	}
}

func runSolana(ctx context.Context, a *app.App, req tx.TransferRequest, estimateOnly bool) error {
	acc, err := a.Accounts.GetCurrentAccount(ctx)
	if err != nil {
		return err
	}
	if acc == nil || acc.SVM == nil {
		return errors.New("current account has no Solana keypair")
	}
	from := solanago.MustPublicKeyFromBase58(acc.SVM.PublicKey)

	fee, err := txsolana.NewEstimator(a.Solana).Estimate(ctx, from, req)
	if err != nil {
		return err
	}
	fmt.Printf("fee: %d lamports (compute units %d, balance %d, sufficient %v)\n",
		fee.EstimatedFee, fee.ComputeUnits, fee.Balance, fee.Sufficient)
	if estimateOnly {
		return nil
	}

	unsigned, err := txsolana.NewBuilder(a.Solana).Build(ctx, from, req)
	if err != nil {
		return err
	}
	if err := authorize(ctx, a.Gate); err != nil {
		return err
	}
	result, err := txsolana.NewExecutor(a.Solana, a.Accounts).Execute(ctx, unsigned)
	if err != nil {
		return err
	}
	printResult(req.Chain, result)
	return nil
}

func runEVM(ctx context.Context, a *app.App, req tx.TransferRequest, estimateOnly bool) error {
	client, ok := a.EVM[req.Chain]
	if !ok {
		return errors.Wrapf(chain.ErrUnsupportedChain, "no RPC client for %q", req.Chain)
	}
	acc, err := a.Accounts.GetCurrentAccount(ctx)
	if err != nil {
		return err
	}
	if acc == nil || acc.EVM == nil {
		return errors.New("current account has no EVM keypair")
	}
	from := common.HexToAddress(acc.EVM.PublicKey)

	fee, err := txevm.NewEstimator(client).Estimate(ctx, from, req)
	if err != nil {
		return err
	}
	fmt.Printf("fee: %s (gas %d @ %s wei, balance %s wei, sufficient %v)\n",
		fee.EstimatedFee, fee.GasLimit, fee.GasPrice, fee.Balance, fee.Sufficient)
	if estimateOnly {
		return nil
	}

	unsigned, err := txevm.NewBuilder(client).Build(ctx, from, req)
	if err != nil {
		return err
	}
	if err := authorize(ctx, a.Gate); err != nil {
		return err
	}
	result, err := txevm.NewExecutor(client, a.Accounts).Execute(ctx, unsigned)
	if err != nil {
		return err
	}
	printResult(req.Chain, result)
	return nil
}

func printResult(id chain.ID, result *tx.Result) {
	if result.Status {
		fmt.Printf("confirmed in block %d\n", result.BlockNumber)
	} else {
		fmt.Printf("failed: %s\n", result.Err)
	}
	if result.Hash != "" {
		if url := chain.ExplorerTxURL(id, result.Hash); url != "" {
			fmt.Println(url)
		}
	}
}
