package bridge

import (
	"context"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// erc20Stub answers eth_call by selector so the permit probe can run
// without a node.
type erc20Stub struct {
	name         string
	domainSep    common.Hash
	hasDomainSep bool
	nonce        *big.Int
	allowance    *big.Int
	decimals     uint8
}

func (s *erc20Stub) CallContract(ctx context.Context, msg ethereum.CallMsg, block *big.Int) ([]byte, error) {
	selector := hex.EncodeToString(msg.Data[:4])
	switch selector {
	case "3644e515": // DOMAIN_SEPARATOR()
		if !s.hasDomainSep {
			return nil, errors.New("execution reverted")
		}
		return s.domainSep.Bytes(), nil
	case "06fdde03": // name()
		return erc20Permit.Methods["name"].Outputs.Pack(s.name)
	case "7ecebe00": // nonces(address)
		return erc20Permit.Methods["nonces"].Outputs.Pack(s.nonce)
	case "dd62ed3e": // allowance(address,address)
		return erc20Permit.Methods["allowance"].Outputs.Pack(s.allowance)
	case "313ce567": // decimals()
		return erc20Permit.Methods["decimals"].Outputs.Pack(s.decimals)
	}
	return nil, errors.Errorf("unexpected call %s", selector)
}

func (s *erc20Stub) BalanceAt(ctx context.Context, account common.Address, block *big.Int) (*big.Int, error) {
	return new(big.Int), nil
}
func (s *erc20Stub) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1), nil
}
func (s *erc20Stub) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	return 21000, nil
}
func (s *erc20Stub) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return 0, nil
}
func (s *erc20Stub) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	return nil
}
func (s *erc20Stub) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	return nil, errors.New("not found")
}

func TestProbeMatchesDomainVersionWithinBound(t *testing.T) {
	token := common.HexToAddress("0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174")
	chainID := big.NewInt(137)

	want := &permitDomain{Name: "USD Coin", Version: "2", ChainID: chainID, Token: token}
	sep, err := want.separator()
	require.NoError(t, err)

	stub := &erc20Stub{name: "USD Coin", domainSep: sep, hasDomainSep: true}
	dom, err := probePermitDomain(context.Background(), stub, token, chainID)
	require.NoError(t, err)
	require.NotNil(t, dom)
	assert.Equal(t, "2", dom.Version)
}

func TestProbeFailsClosedWhenNoVersionMatches(t *testing.T) {
	token := common.HexToAddress("0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174")

	// Separator computed against a different name never matches any
	// candidate version for the probed token.
	other := &permitDomain{Name: "Other Token", Version: "1", ChainID: big.NewInt(1), Token: token}
	sep, err := other.separator()
	require.NoError(t, err)

	stub := &erc20Stub{name: "USD Coin", domainSep: sep, hasDomainSep: true}
	dom, err := probePermitDomain(context.Background(), stub, token, big.NewInt(1))
	require.NoError(t, err)
	assert.Nil(t, dom)
}

func TestProbeTreatsMissingSeparatorAsNoPermitSupport(t *testing.T) {
	stub := &erc20Stub{name: "Legacy Token", hasDomainSep: false}
	dom, err := probePermitDomain(context.Background(), stub,
		common.HexToAddress("0x1"), big.NewInt(1))
	require.NoError(t, err)
	assert.Nil(t, dom)
}

func TestSignPermitRecoversSigner(t *testing.T) {
	priv, err := crypto.HexToECDSA("1ab42cc412b618bdea3a599e3c9bae199ebf030895b039e9db1e30dafb12b727")
	require.NoError(t, err)
	owner := crypto.PubkeyToAddress(priv.PublicKey)
	spender := common.HexToAddress("0x00000000000000000000000000000000000000aa")

	dom := &permitDomain{
		Name:    "USD Coin",
		Version: "2",
		ChainID: big.NewInt(1),
		Token:   common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"),
	}
	v, r, s, err := signPermit(priv, dom, owner, spender,
		big.NewInt(1_000_000), big.NewInt(0), big.NewInt(1_900_000_000))
	require.NoError(t, err)
	assert.Contains(t, []uint8{27, 28}, v)
	assert.NotEqual(t, common.Hash{}, r)
	assert.NotEqual(t, common.Hash{}, s)
}
