package solana

import (
	"context"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"

	"github.com/pocketvault/wallet-core/internal/tx"
)

const lamportDecimals = 9

// buildTransferInstructions assembles the instruction list for a native or
// SPL token transfer. For SPL transfers it resolves both associated token
// accounts and prepends a create instruction when the recipient's does not
// exist yet.
func buildTransferInstructions(ctx context.Context, client Client, from solana.PublicKey, req tx.TransferRequest) ([]solana.Instruction, error) {
	if !req.Amount.IsPositive() {
		return nil, tx.ErrInvalidAmount
	}
	to, err := solana.PublicKeyFromBase58(req.To)
	if err != nil {
		return nil, errors.Wrap(tx.ErrInvalidAddress, err.Error())
	}

	if req.IsNative() {
		lamports := req.Amount.Shift(lamportDecimals)
		if !lamports.IsInteger() {
			return nil, errors.Wrap(tx.ErrInvalidAmount, "amount has sub-lamport precision")
		}
		instr := system.NewTransferInstruction(lamports.BigInt().Uint64(), from, to).Build()
		return []solana.Instruction{instr}, nil
	}

	mint, err := solana.PublicKeyFromBase58(req.Token)
	if err != nil {
		return nil, errors.Wrap(tx.ErrInvalidAddress, "invalid token mint")
	}
	sourceATA, _, err := solana.FindAssociatedTokenAddress(from, mint)
	if err != nil {
		return nil, errors.Wrap(err, "derive source token account")
	}
	destATA, _, err := solana.FindAssociatedTokenAddress(to, mint)
	if err != nil {
		return nil, errors.Wrap(err, "derive destination token account")
	}

	balance, err := client.GetTokenAccountBalance(ctx, sourceATA, rpc.CommitmentConfirmed)
	if err != nil {
		return nil, errors.Wrap(err, "get token balance")
	}
	decimals := balance.Value.Decimals

	units := req.Amount.Shift(int32(decimals))
	if !units.IsInteger() {
		return nil, errors.Wrapf(tx.ErrInvalidAmount, "amount exceeds token precision of %d decimals", decimals)
	}

	var instrs []solana.Instruction
	if _, err := client.GetAccountInfo(ctx, destATA); err != nil {
		if !isAccountNotFoundError(err) {
			return nil, errors.Wrap(err, "check destination token account")
		}
		instrs = append(instrs, associatedtokenaccount.NewCreateInstruction(from, to, mint).Build())
	}
	instrs = append(instrs, token.NewTransferCheckedInstruction(
		units.BigInt().Uint64(), decimals, sourceATA, mint, destATA, from, nil,
	).Build())
	return instrs, nil
}
