package chain

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ID is a CAIP-2 style chain identifier, e.g. "solana:101" or "eip155:1".
type ID string

const (
	SolanaMainnet ID = "solana:101"
	Ethereum      ID = "eip155:1"
	Polygon       ID = "eip155:137"
	Base          ID = "eip155:8453"
	Arbitrum      ID = "eip155:42161"
)

// supported lists every chain the wallet recognizes, in display order.
var supported = []ID{SolanaMainnet, Ethereum, Polygon, Base, Arbitrum}

// ErrUnsupportedChain is returned for chain identifiers outside the allowlist.
var ErrUnsupportedChain = errors.New("unsupported chain")

// Supported returns the allowlisted chains.
func Supported() []ID {
	out := make([]ID, len(supported))
	copy(out, supported)
	return out
}

// IsSupported reports whether id is on the allowlist.
func IsSupported(id ID) bool {
	for _, s := range supported {
		if s == id {
			return true
		}
	}
	return false
}

// IsEVM reports whether id uses the EVM account model.
func (id ID) IsEVM() bool {
	return strings.HasPrefix(string(id), "eip155:")
}

// IsSolana reports whether id uses the SVM account model.
func (id ID) IsSolana() bool {
	return strings.HasPrefix(string(id), "solana:")
}

// EVMChainID returns the numeric eip155 chain id.
func (id ID) EVMChainID() (*big.Int, error) {
	if !id.IsEVM() {
		return nil, errors.Wrapf(ErrUnsupportedChain, "%s is not an EVM chain", id)
	}
	raw := strings.TrimPrefix(string(id), "eip155:")
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid eip155 chain id %q", raw)
	}
	return big.NewInt(n), nil
}
