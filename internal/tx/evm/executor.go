package evm

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/pocketvault/wallet-core/internal/account"
	"github.com/pocketvault/wallet-core/internal/tx"
	"github.com/pocketvault/wallet-core/internal/util"
)

const (
	receiptPollInterval = 2 * time.Second
	// confirmTimeout bounds the receipt wait so a dropped transaction cannot
	// hang the flow forever.
	confirmTimeout = 3 * time.Minute
)

// Executor signs an unsigned transaction with the current account's key,
// broadcasts it once, and waits for the receipt. A failed broadcast is never
// retried here.
type Executor struct {
	client   Client
	accounts *account.Store
}

func NewExecutor(client Client, accounts *account.Store) *Executor {
	return &Executor{client: client, accounts: accounts}
}

// Execute resolves the current account's private key from the store (never
// cached across calls), signs once, sends, and polls for the receipt.
func (x *Executor) Execute(ctx context.Context, unsigned *UnsignedTx) (*tx.Result, error) {
	log := util.LogFromContext(ctx)

	acc, err := x.accounts.GetCurrentAccount(ctx)
	if err != nil {
		return nil, err
	}
	if acc == nil || acc.EVM == nil {
		return nil, errors.New("current account has no EVM keypair")
	}

	priv, err := crypto.ToECDSA(acc.EVM.SecretKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load private key")
	}

	sender := crypto.PubkeyToAddress(priv.PublicKey)
	if sender != unsigned.From {
		return nil, errors.New("current account does not match transaction sender")
	}

	signer := types.LatestSignerForChainID(unsigned.ChainID)
	signed, err := types.SignTx(unsigned.Tx, signer, priv)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign transaction")
	}

	if err := x.client.SendTransaction(ctx, signed); err != nil {
		return &tx.Result{Hash: signed.Hash().Hex(), Status: false, Err: err.Error()}, nil
	}

	log.Info().Str("hash", signed.Hash().Hex()).Msg("Transaction broadcast")

	receipt, err := x.waitReceipt(ctx, signed)
	if err != nil {
		return &tx.Result{Hash: signed.Hash().Hex(), Status: false, Err: err.Error()}, nil
	}

	result := &tx.Result{
		Hash:        signed.Hash().Hex(),
		BlockNumber: receipt.BlockNumber.Uint64(),
		Status:      receipt.Status == types.ReceiptStatusSuccessful,
	}
	if !result.Status {
		result.Err = "transaction reverted"
	}
	return result, nil
}

func (x *Executor) waitReceipt(ctx context.Context, signed *types.Transaction) (*types.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, confirmTimeout)
	defer cancel()

	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()

	for {
		receipt, err := x.client.TransactionReceipt(ctx, signed.Hash())
		if err == nil && receipt != nil {
			return receipt, nil
		}

		select {
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), "timed out waiting for receipt")
		case <-ticker.C:
		}
	}
}
