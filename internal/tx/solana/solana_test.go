package solana_test

import (
	"context"
	"encoding/base64"
	"testing"

	bin "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketvault/wallet-core/internal/account"
	"github.com/pocketvault/wallet-core/internal/chain"
	"github.com/pocketvault/wallet-core/internal/tx"
	"github.com/pocketvault/wallet-core/internal/tx/solana"
	"github.com/pocketvault/wallet-core/internal/vault"
)

const (
	testMnemonic   = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	testSVMAddress = "HAgk14JpMQLgt6rVgv7cBQFJWFto5Dqxi472uT3DKpqk"
)

type fakeClient struct {
	balance       uint64
	blockhash     solanago.Hash
	lastValid     uint64
	simUnits      uint64
	simErr        error
	fee           uint64
	feeErr        error
	tokenDecimals uint8
	destExists    bool
	sendErr       error
	status        *rpc.SignatureStatusesResult
	blockHeight   uint64

	sentTx *solanago.Transaction
	calls  int
}

func (f *fakeClient) GetBalance(ctx context.Context, acc solanago.PublicKey, c rpc.CommitmentType) (*rpc.GetBalanceResult, error) {
	f.calls++
	return &rpc.GetBalanceResult{Value: f.balance}, nil
}

func (f *fakeClient) GetLatestBlockhash(ctx context.Context, c rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error) {
	f.calls++
	return &rpc.GetLatestBlockhashResult{
		Value: &rpc.LatestBlockhashResult{Blockhash: f.blockhash, LastValidBlockHeight: f.lastValid},
	}, nil
}

func (f *fakeClient) GetAccountInfo(ctx context.Context, acc solanago.PublicKey) (*rpc.GetAccountInfoResult, error) {
	f.calls++
	if !f.destExists {
		return nil, rpc.ErrNotFound
	}
	return &rpc.GetAccountInfoResult{}, nil
}

func (f *fakeClient) GetTokenAccountBalance(ctx context.Context, acc solanago.PublicKey, c rpc.CommitmentType) (*rpc.GetTokenAccountBalanceResult, error) {
	f.calls++
	return &rpc.GetTokenAccountBalanceResult{
		Value: &rpc.UiTokenAmount{Amount: "0", Decimals: f.tokenDecimals},
	}, nil
}

func (f *fakeClient) SimulateTransactionWithOpts(ctx context.Context, t *solanago.Transaction, opts *rpc.SimulateTransactionOpts) (*rpc.SimulateTransactionResponse, error) {
	f.calls++
	if f.simErr != nil {
		return nil, f.simErr
	}
	units := f.simUnits
	return &rpc.SimulateTransactionResponse{
		Value: &rpc.SimulateTransactionResult{UnitsConsumed: &units},
	}, nil
}

func (f *fakeClient) GetFeeForMessage(ctx context.Context, msg string, c rpc.CommitmentType) (*rpc.GetFeeForMessageResult, error) {
	f.calls++
	if f.feeErr != nil {
		return nil, f.feeErr
	}
	fee := f.fee
	return &rpc.GetFeeForMessageResult{Value: &fee}, nil
}

func (f *fakeClient) SendTransactionWithOpts(ctx context.Context, t *solanago.Transaction, opts rpc.TransactionOpts) (solanago.Signature, error) {
	f.calls++
	if f.sendErr != nil {
		return solanago.Signature{}, f.sendErr
	}
	f.sentTx = t
	return t.Signatures[0], nil
}

func (f *fakeClient) GetSignatureStatuses(ctx context.Context, hist bool, sigs ...solanago.Signature) (*rpc.GetSignatureStatusesResult, error) {
	f.calls++
	return &rpc.GetSignatureStatusesResult{Value: []*rpc.SignatureStatusesResult{f.status}}, nil
}

func (f *fakeClient) GetBlockHeight(ctx context.Context, c rpc.CommitmentType) (uint64, error) {
	f.calls++
	return f.blockHeight, nil
}

func healthyFake() *fakeClient {
	return &fakeClient{
		balance:   2_000_000_000,
		blockhash: solanago.Hash{1, 2, 3},
		lastValid: 1000,
		simUnits:  150_000,
		fee:       5000,
	}
}

func nativeRequest(amount string, to solanago.PublicKey) tx.TransferRequest {
	return tx.TransferRequest{
		Chain:  chain.SolanaMainnet,
		Token:  tx.NativeToken,
		To:     to.String(),
		Amount: decimal.RequireFromString(amount),
	}
}

func TestEstimateNativeFeeBoundaryIsLamportExact(t *testing.T) {
	from := solanago.NewWallet().PublicKey()
	to := solanago.NewWallet().PublicKey()
	req := nativeRequest("0.5", to) // 500_000_000 lamports

	client := healthyFake()
	client.balance = 500_005_000 // amount + 5000 lamport fee, exactly

	fee, err := solana.NewEstimator(client).Estimate(context.Background(), from, req)
	require.NoError(t, err)
	assert.Equal(t, uint64(5000), fee.EstimatedFee)
	assert.True(t, fee.Sufficient)

	client.balance = 500_004_999 // one lamport short
	fee, err = solana.NewEstimator(client).Estimate(context.Background(), from, req)
	require.NoError(t, err)
	assert.False(t, fee.Sufficient)
}

func TestEstimateAppliesComputeMargin(t *testing.T) {
	from := solanago.NewWallet().PublicKey()
	client := healthyFake()
	client.simUnits = 100_000

	fee, err := solana.NewEstimator(client).Estimate(context.Background(), from,
		nativeRequest("0.1", solanago.NewWallet().PublicKey()))
	require.NoError(t, err)
	assert.Equal(t, uint32(110_000), fee.ComputeUnits)
}

func TestEstimateFallsBackToFlatFeeWhenSimulationFails(t *testing.T) {
	from := solanago.NewWallet().PublicKey()
	client := healthyFake()
	client.simErr = errors.New("node is behind")

	fee, err := solana.NewEstimator(client).Estimate(context.Background(), from,
		nativeRequest("0.1", solanago.NewWallet().PublicKey()))
	require.NoError(t, err)
	assert.Equal(t, uint64(5000), fee.EstimatedFee)
	assert.Equal(t, uint32(200_000), fee.ComputeUnits)
}

func TestEstimateFallsBackWhenFeeLookupFails(t *testing.T) {
	from := solanago.NewWallet().PublicKey()
	client := healthyFake()
	client.feeErr = errors.New("method not available")

	fee, err := solana.NewEstimator(client).Estimate(context.Background(), from,
		nativeRequest("0.1", solanago.NewWallet().PublicKey()))
	require.NoError(t, err)
	assert.Equal(t, uint64(5000), fee.EstimatedFee)
}

func TestEstimateValidatesBeforeAnyNetworkCall(t *testing.T) {
	from := solanago.NewWallet().PublicKey()
	client := healthyFake()

	req := nativeRequest("1", solanago.NewWallet().PublicKey())
	req.Amount = decimal.Zero
	_, err := solana.NewEstimator(client).Estimate(context.Background(), from, req)
	assert.ErrorIs(t, err, tx.ErrInvalidAmount)

	req = nativeRequest("1", solanago.NewWallet().PublicKey())
	req.To = "not-an-address"
	_, err = solana.NewEstimator(client).Estimate(context.Background(), from, req)
	assert.ErrorIs(t, err, tx.ErrInvalidAddress)

	assert.Zero(t, client.calls)
}

func TestBuildRejectsInsufficientBalance(t *testing.T) {
	from := solanago.NewWallet().PublicKey()
	client := healthyFake()
	client.balance = 1000

	_, err := solana.NewBuilder(client).Build(context.Background(), from,
		nativeRequest("0.5", solanago.NewWallet().PublicKey()))
	assert.ErrorIs(t, err, tx.ErrInsufficientBalance)
}

func TestBuildNativeTransferSerializesUnsigned(t *testing.T) {
	from := solanago.NewWallet().PublicKey()
	client := healthyFake()

	unsigned, err := solana.NewBuilder(client).Build(context.Background(), from,
		nativeRequest("0.5", solanago.NewWallet().PublicKey()))
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), unsigned.LastValidBlockHeight)
	assert.Equal(t, uint64(5000), unsigned.Fee.EstimatedFee)

	raw, err := base64.StdEncoding.DecodeString(unsigned.Encoded)
	require.NoError(t, err)
	parsed, err := solanago.TransactionFromDecoder(bin.NewBinDecoder(raw))
	require.NoError(t, err)

	// compute budget limit plus the system transfer
	assert.Len(t, parsed.Message.Instructions, 2)
	assert.Equal(t, from, parsed.Message.AccountKeys[0])
	require.Len(t, parsed.Signatures, 1)
	assert.Equal(t, solanago.Signature{}, parsed.Signatures[0])
}

func TestBuildTokenTransferCreatesMissingDestinationAccount(t *testing.T) {
	from := solanago.NewWallet().PublicKey()
	client := healthyFake()
	client.tokenDecimals = 6
	client.destExists = false

	req := tx.TransferRequest{
		Chain:  chain.SolanaMainnet,
		Token:  solanago.NewWallet().PublicKey().String(),
		To:     solanago.NewWallet().PublicKey().String(),
		Amount: decimal.RequireFromString("12.5"),
	}
	unsigned, err := solana.NewBuilder(client).Build(context.Background(), from, req)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(unsigned.Encoded)
	require.NoError(t, err)
	parsed, err := solanago.TransactionFromDecoder(bin.NewBinDecoder(raw))
	require.NoError(t, err)

	// compute budget, create associated token account, transferChecked
	assert.Len(t, parsed.Message.Instructions, 3)
}

func TestBuildTokenTransferSkipsCreateWhenDestinationExists(t *testing.T) {
	from := solanago.NewWallet().PublicKey()
	client := healthyFake()
	client.tokenDecimals = 6
	client.destExists = true

	req := tx.TransferRequest{
		Chain:  chain.SolanaMainnet,
		Token:  solanago.NewWallet().PublicKey().String(),
		To:     solanago.NewWallet().PublicKey().String(),
		Amount: decimal.RequireFromString("1"),
	}
	unsigned, err := solana.NewBuilder(client).Build(context.Background(), from, req)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(unsigned.Encoded)
	require.NoError(t, err)
	parsed, err := solanago.TransactionFromDecoder(bin.NewBinDecoder(raw))
	require.NoError(t, err)
	assert.Len(t, parsed.Message.Instructions, 2)
}

func testStore(t *testing.T) *account.Store {
	t.Helper()
	v := vault.New(vault.NewMemoryBackend(), []byte("pw"), vault.ScryptParams{DKLen: 32, N: 4096, R: 8, P: 1})
	store := account.NewStore(v, "accounts", "current")
	acc, err := store.ConnectSVMAccountWithSeedPhrase(context.Background(), "acc-1", "Main", testMnemonic)
	require.NoError(t, err)
	require.Equal(t, testSVMAddress, acc.SVM.PublicKey)
	return store
}

func TestExecuteSignsWithCurrentAccountAndConfirms(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	from := solanago.MustPublicKeyFromBase58(testSVMAddress)
	client := healthyFake()
	client.status = &rpc.SignatureStatusesResult{
		Slot:               4242,
		ConfirmationStatus: rpc.ConfirmationStatusFinalized,
	}

	unsigned, err := solana.NewBuilder(client).Build(ctx, from,
		nativeRequest("0.25", solanago.NewWallet().PublicKey()))
	require.NoError(t, err)

	result, err := solana.NewExecutor(client, store).Execute(ctx, unsigned)
	require.NoError(t, err)
	assert.True(t, result.Status)
	assert.Equal(t, uint64(4242), result.BlockNumber)
	assert.Empty(t, result.Err)

	require.NotNil(t, client.sentTx)
	assert.NoError(t, client.sentTx.VerifySignatures())
}

func TestExecuteReportsBlockhashExpiry(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	from := solanago.MustPublicKeyFromBase58(testSVMAddress)
	client := healthyFake()
	client.status = nil // never lands
	client.blockHeight = 1001

	unsigned, err := solana.NewBuilder(client).Build(ctx, from,
		nativeRequest("0.25", solanago.NewWallet().PublicKey()))
	require.NoError(t, err)

	result, err := solana.NewExecutor(client, store).Execute(ctx, unsigned)
	require.NoError(t, err)
	assert.False(t, result.Status)
	assert.Contains(t, result.Err, "expired")
}

func TestExecuteMapsSendFailureToResult(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	from := solanago.MustPublicKeyFromBase58(testSVMAddress)
	client := healthyFake()

	unsigned, err := solana.NewBuilder(client).Build(ctx, from,
		nativeRequest("0.25", solanago.NewWallet().PublicKey()))
	require.NoError(t, err)

	client.sendErr = errors.New("blockhash not found")
	result, err := solana.NewExecutor(client, store).Execute(ctx, unsigned)
	require.NoError(t, err)
	assert.False(t, result.Status)
	assert.Contains(t, result.Err, "blockhash not found")
}
