// Package swap implements the cross-chain swap flow against the aggregator.
package swap

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/pocketvault/wallet-core/internal/app"
	"github.com/pocketvault/wallet-core/internal/bridge"
	"github.com/pocketvault/wallet-core/internal/chain"
	"github.com/pocketvault/wallet-core/internal/config"
	"github.com/pocketvault/wallet-core/internal/tx"
	"github.com/pocketvault/wallet-core/internal/util/command"
)

func New() *cobra.Command {
	var srcChain, srcToken, dstChain, dstToken, amount, destination string
	var quoteOnly bool
	cmd := &cobra.Command{
		Use:   "swap",
		Short: "Quote and execute a cross-chain swap from the current account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return command.WithApp(cmd.Context(), config.FromEnv(), func(ctx context.Context, a *app.App) error {
				amt, err := decimal.NewFromString(amount)
				if err != nil {
					return errors.Wrap(tx.ErrInvalidAmount, amount)
				}
				req := bridge.QuoteRequest{
					SrcChain:    chain.ID(srcChain),
					SrcToken:    srcToken,
					DstChain:    chain.ID(dstChain),
					DstToken:    dstToken,
					Amount:      amt,
					Destination: destination,
				}

				quote, err := a.Bridge.Quote(ctx, req)
				if err != nil {
					var aggErr *bridge.Error
					if errors.As(err, &aggErr) {
						if min, ok := aggErr.MinAmount(); ok {
							return errors.Errorf("amount too small, minimum is %s", min)
						}
					}
					return err
				}

				fmt.Printf("route %s: min out %s, local fee %s\n",
					quote.Route.ID, quote.MinAmountOut, quote.LocalFee)
				if quoteOnly {
					return nil
				}

				result, err := a.Bridge.Execute(ctx, quote)
				if err != nil {
					if errors.Is(err, bridge.ErrCanceled) {
						return nil
					}
					return err
				}
				if result.Status {
					fmt.Printf("swap submitted: %s\n", result.Hash)
				} else {
					fmt.Printf("swap failed: %s\n", result.Err)
				}
				if url := chain.ExplorerTxURL(req.SrcChain, result.Hash); url != "" {
					fmt.Println(url)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&srcChain, "from-chain", "", "source chain id (required)")
	cmd.Flags().StringVar(&srcToken, "from-token", tx.NativeToken, "source token, or \"native\"")
	cmd.Flags().StringVar(&dstChain, "to-chain", "", "destination chain id (required)")
	cmd.Flags().StringVar(&dstToken, "to-token", tx.NativeToken, "destination token, or \"native\"")
	cmd.Flags().StringVar(&amount, "amount", "", "input amount in human units (required)")
	cmd.Flags().StringVar(&destination, "destination", "", "recipient address on the destination chain (required)")
	cmd.Flags().BoolVar(&quoteOnly, "quote", false, "only fetch and display the quote")
	_ = cmd.MarkFlagRequired("from-chain")
	_ = cmd.MarkFlagRequired("to-chain")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("destination")
	return cmd
}
