// Package solana implements fee estimation, transaction building and
// execution for the Solana chain.
package solana

import (
	"context"
	"encoding/base64"

	"github.com/gagliardetto/solana-go"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"

	"github.com/pocketvault/wallet-core/internal/tx"
	"github.com/pocketvault/wallet-core/internal/util"
)

const (
	// maxComputeUnits is the per-transaction compute ceiling, used as the
	// placeholder limit for the sizing simulation.
	maxComputeUnits = 1_400_000

	// fallbackFeeLamports is the flat base fee assumed when simulation or
	// fee lookup fails. One signature at the default lamports-per-signature
	// rate.
	fallbackFeeLamports = 5000

	fallbackComputeUnits = 200_000

	// computeUnitMargin is the headroom multiplier applied to the simulated
	// compute consumption, in percent.
	computeUnitMargin = 110
)

// Estimator computes the fee and balance sufficiency of a prospective
// transfer by simulating it. RPC failures past request validation degrade to
// a flat fallback fee instead of failing the estimate; only invalid requests
// and balance lookups error out.
type Estimator struct {
	client Client
}

func NewEstimator(client Client) *Estimator {
	return &Estimator{client: client}
}

// Estimate validates the request, fetches the sender's lamport balance,
// simulates the transfer to size its compute budget, and prices the final
// message. Native sufficiency accounts for the transferred lamports on top
// of the fee; token sufficiency only needs the fee covered.
func (e *Estimator) Estimate(ctx context.Context, from solana.PublicKey, req tx.TransferRequest) (*tx.SolanaFee, error) {
	if !req.Amount.IsPositive() {
		return nil, tx.ErrInvalidAmount
	}
	if _, err := solana.PublicKeyFromBase58(req.To); err != nil {
		return nil, errors.Wrap(tx.ErrInvalidAddress, err.Error())
	}

	balanceRes, err := e.client.GetBalance(ctx, from, rpc.CommitmentConfirmed)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}
	balance := balanceRes.Value

	// Estimation never hard-fails on RPC trouble: anything past request
	// validation degrades to the flat fallback fee.
	fee, units := uint64(fallbackFeeLamports), uint32(fallbackComputeUnits)
	instrs, err := buildTransferInstructions(ctx, e.client, from, req)
	if err != nil {
		if errors.Is(err, tx.ErrInvalidAmount) || errors.Is(err, tx.ErrInvalidAddress) {
			return nil, err
		}
		util.LogFromContext(ctx).Warn().Err(err).
			Msg("Instruction assembly failed, falling back to flat base fee")
	} else if priced, consumed, perr := e.priceInstructions(ctx, from, instrs); perr != nil {
		util.LogFromContext(ctx).Warn().Err(perr).
			Msg("Fee simulation failed, falling back to flat base fee")
	} else {
		fee, units = priced, consumed
	}

	required := fee
	if req.IsNative() {
		required += req.Amount.Shift(lamportDecimals).BigInt().Uint64()
	}

	return &tx.SolanaFee{
		EstimatedFee: fee,
		ComputeUnits: units,
		Balance:      balance,
		Sufficient:   balance >= required,
	}, nil
}

// priceInstructions simulates the instruction list under the maximum compute
// limit, then re-prices the message with the consumed units plus margin.
func (e *Estimator) priceInstructions(ctx context.Context, from solana.PublicKey, instrs []solana.Instruction) (uint64, uint32, error) {
	probeTx, err := e.assemble(ctx, from, maxComputeUnits, instrs)
	if err != nil {
		return 0, 0, err
	}

	sim, err := e.client.SimulateTransactionWithOpts(ctx, probeTx, &rpc.SimulateTransactionOpts{
		SigVerify:              false,
		ReplaceRecentBlockhash: true,
		Commitment:             rpc.CommitmentConfirmed,
	})
	if err != nil {
		return 0, 0, errors.Wrap(err, "failed to simulate transaction")
	}
	if sim.Value == nil || sim.Value.UnitsConsumed == nil {
		return 0, 0, errors.New("simulation returned no compute consumption")
	}

	units := uint32(*sim.Value.UnitsConsumed * computeUnitMargin / 100)
	if units == 0 {
		units = fallbackComputeUnits
	}

	pricedTx, err := e.assemble(ctx, from, units, instrs)
	if err != nil {
		return 0, 0, err
	}
	msg, err := pricedTx.Message.MarshalBinary()
	if err != nil {
		return 0, 0, errors.Wrap(err, "failed to serialize message")
	}
	feeRes, err := e.client.GetFeeForMessage(ctx, base64.StdEncoding.EncodeToString(msg), rpc.CommitmentConfirmed)
	if err != nil {
		return 0, 0, errors.Wrap(err, "failed to get fee for message")
	}
	if feeRes.Value == nil {
		return 0, 0, errors.New("fee lookup returned no value")
	}
	return *feeRes.Value, units, nil
}

// assemble builds an unsigned transaction with a compute budget limit
// prepended, paid by from, against a fresh blockhash.
func (e *Estimator) assemble(ctx context.Context, from solana.PublicKey, computeUnits uint32, instrs []solana.Instruction) (*solana.Transaction, error) {
	blockhash, err := e.client.GetLatestBlockhash(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get latest blockhash")
	}
	all := append([]solana.Instruction{
		computebudget.NewSetComputeUnitLimitInstruction(computeUnits).Build(),
	}, instrs...)
	built, err := solana.NewTransaction(all, blockhash.Value.Blockhash, solana.TransactionPayer(from))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build transaction")
	}
	placeholderSign(built)
	return built, nil
}
