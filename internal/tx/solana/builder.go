package solana

import (
	"context"
	"encoding/base64"

	"github.com/gagliardetto/solana-go"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"

	"github.com/pocketvault/wallet-core/internal/tx"
)

// UnsignedTx is a fully assembled, unsigned transaction. Encoded holds the
// base64 wire form with zeroed placeholder signatures; the executor replaces
// them when signing. LastValidBlockHeight bounds how long the transaction
// stays landable.
type UnsignedTx struct {
	Encoded              string
	LastValidBlockHeight uint64
	Fee                  *tx.SolanaFee
}

// Builder assembles unsigned transfer transactions. Estimation is re-run at
// build time so the sufficiency decision reflects current balances; a stale
// quote from an earlier Estimate call is never trusted.
type Builder struct {
	client    Client
	estimator *Estimator
}

func NewBuilder(client Client) *Builder {
	return &Builder{client: client, estimator: NewEstimator(client)}
}

// Build estimates the transfer, rejects it if the sender cannot cover fee
// plus amount, and serializes the compute-budgeted transaction against a
// fresh blockhash.
func (b *Builder) Build(ctx context.Context, from solana.PublicKey, req tx.TransferRequest) (*UnsignedTx, error) {
	fee, err := b.estimator.Estimate(ctx, from, req)
	if err != nil {
		return nil, err
	}
	if !fee.Sufficient {
		return nil, errors.Wrapf(tx.ErrInsufficientBalance,
			"balance %d lamports, fee %d lamports", fee.Balance, fee.EstimatedFee)
	}

	instrs, err := buildTransferInstructions(ctx, b.client, from, req)
	if err != nil {
		return nil, err
	}

	blockhash, err := b.client.GetLatestBlockhash(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get latest blockhash")
	}

	all := append([]solana.Instruction{
		computebudget.NewSetComputeUnitLimitInstruction(fee.ComputeUnits).Build(),
	}, instrs...)
	built, err := solana.NewTransaction(all, blockhash.Value.Blockhash, solana.TransactionPayer(from))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build transaction")
	}
	placeholderSign(built)

	data, err := built.MarshalBinary()
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize transaction")
	}
	return &UnsignedTx{
		Encoded:              base64.StdEncoding.EncodeToString(data),
		LastValidBlockHeight: blockhash.Value.LastValidBlockHeight,
		Fee:                  fee,
	}, nil
}

// placeholderSign pads the signature list to the count the message header
// requires so the transaction serializes before it is signed.
func placeholderSign(t *solana.Transaction) {
	t.Signatures = make([]solana.Signature, t.Message.Header.NumRequiredSignatures)
}
