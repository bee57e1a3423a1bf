package bridge

import (
	"context"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"

	"github.com/pocketvault/wallet-core/internal/tx"
	txsolana "github.com/pocketvault/wallet-core/internal/tx/solana"
	"github.com/pocketvault/wallet-core/internal/util"
)

// executeSolana signs the aggregator's prebuilt transaction with the current
// account's key and sends it. Local confirmation is bounded by a freshly
// fetched blockhash window; if it does not come through, the aggregator's
// explorer status is authoritative — bridge transactions can land later than
// a single RPC node observes.
func (o *Orchestrator) executeSolana(ctx context.Context, quote *Quote) (*tx.Result, error) {
	route := quote.Route
	if route.Solana == nil {
		return nil, errors.New("route carries no Solana transaction")
	}

	fresh, err := o.solClient.GetLatestBlockhash(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get latest blockhash")
	}

	unsigned := &txsolana.UnsignedTx{
		Encoded:              route.Solana.Transaction,
		LastValidBlockHeight: fresh.Value.LastValidBlockHeight,
	}
	result, err := txsolana.NewExecutor(o.solClient, o.accounts).Execute(ctx, unsigned)
	if err != nil {
		return nil, err
	}
	if result.Status || result.Hash == "" {
		return result, nil
	}

	status, serr := o.client.Status(ctx, route.ID, result.Hash)
	if serr != nil {
		util.LogFromContext(ctx).Warn().Err(serr).Msg("Aggregator status lookup failed")
		return result, nil
	}
	if status.Landed() {
		return &tx.Result{Hash: result.Hash, Status: true}, nil
	}
	return result, nil
}
