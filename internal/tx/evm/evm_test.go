package evm_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketvault/wallet-core/internal/account"
	"github.com/pocketvault/wallet-core/internal/chain"
	"github.com/pocketvault/wallet-core/internal/tx"
	"github.com/pocketvault/wallet-core/internal/tx/evm"
	"github.com/pocketvault/wallet-core/internal/vault"
)

type fakeClient struct {
	balance  *big.Int
	gasPrice *big.Int
	gasEst   uint64
	nonce    uint64

	sendErr    error
	sent       []*types.Transaction
	receipts   map[common.Hash]*types.Receipt
	receiptAll *types.Receipt
	callReply  []byte
}

func (f *fakeClient) BalanceAt(_ context.Context, _ common.Address, _ *big.Int) (*big.Int, error) {
	return f.balance, nil
}

func (f *fakeClient) SuggestGasPrice(_ context.Context) (*big.Int, error) {
	return f.gasPrice, nil
}

func (f *fakeClient) EstimateGas(_ context.Context, _ ethereum.CallMsg) (uint64, error) {
	return f.gasEst, nil
}

func (f *fakeClient) CallContract(_ context.Context, _ ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	return f.callReply, nil
}

func (f *fakeClient) PendingNonceAt(_ context.Context, _ common.Address) (uint64, error) {
	return f.nonce, nil
}

func (f *fakeClient) SendTransaction(_ context.Context, t *types.Transaction) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, t)
	return nil
}

func (f *fakeClient) TransactionReceipt(_ context.Context, h common.Hash) (*types.Receipt, error) {
	if f.receiptAll != nil {
		return f.receiptAll, nil
	}
	r, ok := f.receipts[h]
	if !ok {
		return nil, errors.New("not found")
	}
	return r, nil
}

var (
	sender    = common.HexToAddress("0x9858EfFD232B4033E47d90003D41EC34EcaEda94")
	recipient = "0x690B9A9E9aa1C9dB991C7721a92d351Db4FaC990"
)

func nativeRequest(amount string) tx.TransferRequest {
	return tx.TransferRequest{
		Chain:  chain.Ethereum,
		Token:  tx.NativeToken,
		To:     recipient,
		Amount: decimal.RequireFromString(amount),
	}
}

func TestEstimateNativeTransfer(t *testing.T) {
	// fee = 21000 gas * 2 gwei
	gasPrice := big.NewInt(2_000_000_000)
	fee := new(big.Int).Mul(gasPrice, big.NewInt(21000))

	client := &fakeClient{balance: fee, gasPrice: gasPrice}
	fi, err := evm.NewEstimator(client).Estimate(context.Background(), sender, nativeRequest("0.5"))
	require.NoError(t, err)

	assert.Equal(t, uint64(21000), fi.GasLimit)
	assert.Equal(t, gasPrice, fi.GasPrice)
	assert.True(t, fi.Sufficient, "balance == fee exactly must be sufficient")
	assert.Equal(t, "0.000042", fi.EstimatedFee.String())

	// One wei short of the fee.
	client.balance = new(big.Int).Sub(fee, big.NewInt(1))
	fi, err = evm.NewEstimator(client).Estimate(context.Background(), sender, nativeRequest("0.5"))
	require.NoError(t, err)
	assert.False(t, fi.Sufficient)
}

func TestEstimateValidationBeforeNetwork(t *testing.T) {
	est := evm.NewEstimator(&fakeClient{})

	_, err := est.Estimate(context.Background(), sender, nativeRequest("0"))
	assert.ErrorIs(t, err, tx.ErrInvalidAmount)

	req := nativeRequest("1")
	req.To = "not-an-address"
	_, err = est.Estimate(context.Background(), sender, req)
	assert.ErrorIs(t, err, tx.ErrInvalidAddress)
}

func TestBuildRejectsInsufficientBalance(t *testing.T) {
	gasPrice := big.NewInt(2_000_000_000)
	fee := new(big.Int).Mul(gasPrice, big.NewInt(21000))

	// Balance dropped below the fee between the caller's estimate and build.
	client := &fakeClient{balance: new(big.Int).Sub(fee, big.NewInt(1)), gasPrice: gasPrice}
	_, err := evm.NewBuilder(client).Build(context.Background(), sender, nativeRequest("0.1"))
	assert.ErrorIs(t, err, tx.ErrInsufficientBalance)
}

func TestBuildNativeTransfer(t *testing.T) {
	gasPrice := big.NewInt(1_000_000_000)
	client := &fakeClient{
		balance:  big.NewInt(1_000_000_000_000_000_000), // 1 ETH
		gasPrice: gasPrice,
		nonce:    7,
	}

	unsigned, err := evm.NewBuilder(client).Build(context.Background(), sender, nativeRequest("0.25"))
	require.NoError(t, err)

	assert.Equal(t, uint64(7), unsigned.Tx.Nonce())
	assert.Equal(t, uint64(21000), unsigned.Tx.Gas())
	assert.Equal(t, gasPrice, unsigned.Tx.GasPrice())
	assert.Equal(t, "250000000000000000", unsigned.Tx.Value().String())
	assert.Equal(t, big.NewInt(1), unsigned.ChainID)

	encoded, err := unsigned.EncodeHex()
	require.NoError(t, err)
	assert.Contains(t, encoded, "0x")
}

func TestBuildRejectsNonEVMChain(t *testing.T) {
	client := &fakeClient{balance: big.NewInt(1), gasPrice: big.NewInt(1)}
	req := nativeRequest("0.1")
	req.Chain = chain.SolanaMainnet
	_, err := evm.NewBuilder(client).Build(context.Background(), sender, req)
	assert.Error(t, err)
}

func TestExecuteSignsOnceAndReportsReceipt(t *testing.T) {
	ctx := context.Background()

	v := vault.New(vault.NewMemoryBackend(), []byte("pw"), vault.ScryptParams{DKLen: 32, N: 4096, R: 8, P: 1})
	store := account.NewStore(v, "accounts", "current")
	_, err := store.ConnectEVMAccountWithPrivateKey(ctx, "acc-1", "Main",
		"0x1ab42cc412b618bdea3a599e3c9bae199ebf030895b039e9db1e30dafb12b727")
	require.NoError(t, err)

	client := &fakeClient{
		balance:    big.NewInt(1_000_000_000_000_000_000),
		gasPrice:   big.NewInt(1_000_000_000),
		receiptAll: &types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(123)},
	}

	unsigned, err := evm.NewBuilder(client).Build(ctx, sender, nativeRequest("0.1"))
	require.NoError(t, err)

	result, err := evm.NewExecutor(client, store).Execute(ctx, unsigned)
	require.NoError(t, err)
	assert.True(t, result.Status)
	assert.Equal(t, uint64(123), result.BlockNumber)
	assert.NotEmpty(t, result.Hash)
	require.Len(t, client.sent, 1)

	// The broadcast transaction carries a valid signature from the sender.
	signer := types.LatestSignerForChainID(unsigned.ChainID)
	recovered, err := types.Sender(signer, client.sent[0])
	require.NoError(t, err)
	assert.Equal(t, sender, recovered)
}

func TestExecuteMapsRevertedReceiptToFailure(t *testing.T) {
	ctx := context.Background()

	v := vault.New(vault.NewMemoryBackend(), []byte("pw"), vault.ScryptParams{DKLen: 32, N: 4096, R: 8, P: 1})
	store := account.NewStore(v, "accounts", "current")
	_, err := store.ConnectEVMAccountWithPrivateKey(ctx, "acc-1", "Main",
		"0x1ab42cc412b618bdea3a599e3c9bae199ebf030895b039e9db1e30dafb12b727")
	require.NoError(t, err)

	client := &fakeClient{
		balance:    big.NewInt(1_000_000_000_000_000_000),
		gasPrice:   big.NewInt(1_000_000_000),
		receiptAll: &types.Receipt{Status: types.ReceiptStatusFailed, BlockNumber: big.NewInt(124)},
	}

	unsigned, err := evm.NewBuilder(client).Build(ctx, sender, nativeRequest("0.1"))
	require.NoError(t, err)

	result, err := evm.NewExecutor(client, store).Execute(ctx, unsigned)
	require.NoError(t, err)
	assert.False(t, result.Status)
	assert.NotEmpty(t, result.Err)
}
