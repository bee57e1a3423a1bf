// Package evm implements fee estimation, transaction building and execution
// for EVM chains (Ethereum, Polygon, Base, Arbitrum).
package evm

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/pocketvault/wallet-core/internal/tx"
)

const (
	// nativeTransferGas is the fixed intrinsic gas of a plain value transfer.
	nativeTransferGas = 21000

	nativeDecimals = 18
)

// Estimator computes the fee and balance sufficiency of a prospective
// transfer. RPC errors propagate to the caller; unlike the Solana estimator
// there is no fallback fee here.
type Estimator struct {
	client Client
}

func NewEstimator(client Client) *Estimator {
	return &Estimator{client: client}
}

// Estimate validates the request, fetches the sender's native balance and
// gas price, and sizes the gas limit: fixed 21000 for native transfers, a
// simulated ERC-20 transfer otherwise.
func (e *Estimator) Estimate(ctx context.Context, from common.Address, req tx.TransferRequest) (*tx.EVMFee, error) {
	if req.Amount.Sign() <= 0 {
		return nil, tx.ErrInvalidAmount
	}
	if !common.IsHexAddress(req.To) {
		return nil, tx.ErrInvalidAddress
	}

	balance, err := e.client.BalanceAt(ctx, from, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}

	gasPrice, err := e.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get gas price")
	}

	gasLimit := uint64(nativeTransferGas)
	if !req.IsNative() {
		gasLimit, err = e.estimateTokenTransferGas(ctx, from, req)
		if err != nil {
			return nil, err
		}
	}

	fee := new(big.Int).Mul(gasPrice, new(big.Int).SetUint64(gasLimit))
	return &tx.EVMFee{
		EstimatedFee: decimal.NewFromBigInt(fee, -nativeDecimals),
		GasLimit:     gasLimit,
		GasPrice:     gasPrice,
		Balance:      balance,
		Sufficient:   balance.Cmp(fee) >= 0,
	}, nil
}

func (e *Estimator) estimateTokenTransferGas(ctx context.Context, from common.Address, req tx.TransferRequest) (uint64, error) {
	if !common.IsHexAddress(req.Token) {
		return 0, errors.Wrapf(tx.ErrInvalidAddress, "token %q", req.Token)
	}
	token := common.HexToAddress(req.Token)

	decimals, err := tokenDecimals(ctx, e.client, token)
	if err != nil {
		return 0, err
	}

	data, err := packTransfer(common.HexToAddress(req.To), toUnits(req.Amount, decimals))
	if err != nil {
		return 0, err
	}

	gas, err := e.client.EstimateGas(ctx, ethereum.CallMsg{
		From: from,
		To:   &token,
		Data: data,
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to estimate gas")
	}
	return gas, nil
}
