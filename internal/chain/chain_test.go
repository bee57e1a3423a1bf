package chain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketvault/wallet-core/internal/chain"
)

func TestSupportedAllowlist(t *testing.T) {
	assert.True(t, chain.IsSupported(chain.SolanaMainnet))
	assert.True(t, chain.IsSupported(chain.Arbitrum))
	assert.False(t, chain.IsSupported(chain.ID("near:mainnet")))
	assert.False(t, chain.IsSupported(chain.ID("eip155:56")))
	assert.Len(t, chain.Supported(), 5)
}

func TestAccountModelSplit(t *testing.T) {
	assert.True(t, chain.SolanaMainnet.IsSolana())
	assert.False(t, chain.SolanaMainnet.IsEVM())
	for _, id := range []chain.ID{chain.Ethereum, chain.Polygon, chain.Base, chain.Arbitrum} {
		assert.True(t, id.IsEVM(), string(id))
		assert.False(t, id.IsSolana(), string(id))
	}
}

func TestEVMChainID(t *testing.T) {
	n, err := chain.Base.EVMChainID()
	require.NoError(t, err)
	assert.EqualValues(t, 8453, n.Int64())

	_, err = chain.SolanaMainnet.EVMChainID()
	assert.ErrorIs(t, err, chain.ErrUnsupportedChain)
}

func TestExplorerTxURL(t *testing.T) {
	assert.Equal(t, "https://polygonscan.com/tx/0xabc", chain.ExplorerTxURL(chain.Polygon, "0xabc"))
	assert.Empty(t, chain.ExplorerTxURL(chain.ID("near:mainnet"), "abc"))
}
