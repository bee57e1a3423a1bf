package evm

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const erc20ABIJSON = `[
	{
		"constant": false,
		"inputs": [
			{"name": "to", "type": "address"},
			{"name": "amount", "type": "uint256"}
		],
		"name": "transfer",
		"outputs": [{"name": "", "type": "bool"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [],
		"name": "decimals",
		"outputs": [{"name": "", "type": "uint8"}],
		"type": "function"
	}
]`

var erc20ABI = mustParseABI(erc20ABIJSON)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}

// packTransfer ABI-encodes an ERC-20 transfer(to, amount) call.
func packTransfer(to common.Address, amount *big.Int) ([]byte, error) {
	data, err := erc20ABI.Pack("transfer", to, amount)
	if err != nil {
		return nil, errors.Wrap(err, "failed to pack transfer call")
	}
	return data, nil
}

// tokenDecimals reads decimals() from the token contract.
func tokenDecimals(ctx context.Context, client Client, token common.Address) (uint8, error) {
	data, err := erc20ABI.Pack("decimals")
	if err != nil {
		return 0, errors.Wrap(err, "failed to pack decimals call")
	}

	out, err := client.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return 0, errors.Wrap(err, "failed to call decimals")
	}

	vals, err := erc20ABI.Unpack("decimals", out)
	if err != nil {
		return 0, errors.Wrap(err, "failed to unpack decimals")
	}
	dec, ok := vals[0].(uint8)
	if !ok {
		return 0, errors.New("unexpected decimals return type")
	}
	return dec, nil
}

// toUnits converts a human-unit amount into the token's smallest units.
func toUnits(amount decimal.Decimal, decimals uint8) *big.Int {
	return amount.Shift(int32(decimals)).BigInt()
}
