package evm

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"

	"github.com/pocketvault/wallet-core/internal/tx"
)

// UnsignedTx is a fully-populated but unsigned transaction. Signing happens
// exactly once, at execution time.
type UnsignedTx struct {
	Tx      *types.Transaction
	ChainID *big.Int
	From    common.Address
	Fee     *tx.EVMFee
}

// EncodeHex returns the RLP serialization as 0x-prefixed hex.
func (u *UnsignedTx) EncodeHex() (string, error) {
	raw, err := u.Tx.MarshalBinary()
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal transaction")
	}
	return hexutil.Encode(raw), nil
}

// Builder constructs unsigned transfer transactions. It re-runs fee
// estimation internally; the build-time sufficiency check is authoritative
// even when the caller already estimated once.
type Builder struct {
	client    Client
	estimator *Estimator
}

func NewBuilder(client Client) *Builder {
	return &Builder{
		client:    client,
		estimator: NewEstimator(client),
	}
}

// Build produces an unsigned native or ERC-20 transfer with nonce, chain id,
// gas limit and gas price populated. Rejects with ErrInsufficientBalance
// when the estimator reports the fee cannot be covered.
func (b *Builder) Build(ctx context.Context, from common.Address, req tx.TransferRequest) (*UnsignedTx, error) {
	chainID, err := req.Chain.EVMChainID()
	if err != nil {
		return nil, err
	}

	fee, err := b.estimator.Estimate(ctx, from, req)
	if err != nil {
		return nil, err
	}
	if !fee.Sufficient {
		return nil, errors.Wrapf(tx.ErrInsufficientBalance,
			"balance %s wei cannot cover fee %s", fee.Balance, fee.EstimatedFee)
	}

	nonce, err := b.client.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get nonce")
	}

	to := common.HexToAddress(req.To)
	var inner *types.LegacyTx
	if req.IsNative() {
		inner = &types.LegacyTx{
			Nonce:    nonce,
			GasPrice: fee.GasPrice,
			Gas:      fee.GasLimit,
			To:       &to,
			Value:    toUnits(req.Amount, nativeDecimals),
		}
	} else {
		token := common.HexToAddress(req.Token)
		decimals, err := tokenDecimals(ctx, b.client, token)
		if err != nil {
			return nil, err
		}
		data, err := packTransfer(to, toUnits(req.Amount, decimals))
		if err != nil {
			return nil, err
		}
		inner = &types.LegacyTx{
			Nonce:    nonce,
			GasPrice: fee.GasPrice,
			Gas:      fee.GasLimit,
			To:       &token,
			Value:    big.NewInt(0),
			Data:     data,
		}
	}

	return &UnsignedTx{
		Tx:      types.NewTx(inner),
		ChainID: chainID,
		From:    from,
		Fee:     fee,
	}, nil
}
