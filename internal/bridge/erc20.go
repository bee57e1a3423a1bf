package bridge

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	txevm "github.com/pocketvault/wallet-core/internal/tx/evm"
)

// ERC-20 surface needed by the swap flow: allowance management plus the
// EIP-2612 permit extension.
const erc20PermitABIJSON = `[
	{
		"constant": true,
		"inputs": [
			{"name": "owner", "type": "address"},
			{"name": "spender", "type": "address"}
		],
		"name": "allowance",
		"outputs": [{"name": "", "type": "uint256"}],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"name": "spender", "type": "address"},
			{"name": "amount", "type": "uint256"}
		],
		"name": "approve",
		"outputs": [{"name": "", "type": "bool"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [],
		"name": "decimals",
		"outputs": [{"name": "", "type": "uint8"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [],
		"name": "name",
		"outputs": [{"name": "", "type": "string"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [{"name": "owner", "type": "address"}],
		"name": "nonces",
		"outputs": [{"name": "", "type": "uint256"}],
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [],
		"name": "DOMAIN_SEPARATOR",
		"outputs": [{"name": "", "type": "bytes32"}],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"name": "owner", "type": "address"},
			{"name": "spender", "type": "address"},
			{"name": "value", "type": "uint256"},
			{"name": "deadline", "type": "uint256"},
			{"name": "v", "type": "uint8"},
			{"name": "r", "type": "bytes32"},
			{"name": "s", "type": "bytes32"}
		],
		"name": "permit",
		"outputs": [],
		"type": "function"
	}
]`

var erc20Permit = mustParseABI(erc20PermitABIJSON)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}

func callAllowance(ctx context.Context, client txevm.Client, token, owner, spender common.Address) (*big.Int, error) {
	data, err := erc20Permit.Pack("allowance", owner, spender)
	if err != nil {
		return nil, errors.Wrap(err, "pack allowance")
	}
	raw, err := client.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return nil, errors.Wrap(err, "call allowance")
	}
	out, err := erc20Permit.Unpack("allowance", raw)
	if err != nil || len(out) == 0 {
		return nil, errors.Wrap(err, "unpack allowance")
	}
	allowance, ok := out[0].(*big.Int)
	if !ok {
		return nil, errors.New("unexpected allowance type")
	}
	return allowance, nil
}

func callDecimals(ctx context.Context, client txevm.Client, token common.Address) (uint8, error) {
	data, err := erc20Permit.Pack("decimals")
	if err != nil {
		return 0, errors.Wrap(err, "pack decimals")
	}
	raw, err := client.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return 0, errors.Wrap(err, "call decimals")
	}
	out, err := erc20Permit.Unpack("decimals", raw)
	if err != nil || len(out) == 0 {
		return 0, errors.Wrap(err, "unpack decimals")
	}
	decimals, ok := out[0].(uint8)
	if !ok {
		return 0, errors.New("unexpected decimals type")
	}
	return decimals, nil
}

func callName(ctx context.Context, client txevm.Client, token common.Address) (string, error) {
	data, err := erc20Permit.Pack("name")
	if err != nil {
		return "", errors.Wrap(err, "pack name")
	}
	raw, err := client.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return "", errors.Wrap(err, "call name")
	}
	out, err := erc20Permit.Unpack("name", raw)
	if err != nil || len(out) == 0 {
		return "", errors.Wrap(err, "unpack name")
	}
	name, ok := out[0].(string)
	if !ok {
		return "", errors.New("unexpected name type")
	}
	return name, nil
}

func callNonces(ctx context.Context, client txevm.Client, token, owner common.Address) (*big.Int, error) {
	data, err := erc20Permit.Pack("nonces", owner)
	if err != nil {
		return nil, errors.Wrap(err, "pack nonces")
	}
	raw, err := client.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return nil, errors.Wrap(err, "call nonces")
	}
	out, err := erc20Permit.Unpack("nonces", raw)
	if err != nil || len(out) == 0 {
		return nil, errors.Wrap(err, "unpack nonces")
	}
	nonce, ok := out[0].(*big.Int)
	if !ok {
		return nil, errors.New("unexpected nonce type")
	}
	return nonce, nil
}

func callDomainSeparator(ctx context.Context, client txevm.Client, token common.Address) (common.Hash, error) {
	data, err := erc20Permit.Pack("DOMAIN_SEPARATOR")
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "pack DOMAIN_SEPARATOR")
	}
	raw, err := client.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "call DOMAIN_SEPARATOR")
	}
	if len(raw) < 32 {
		return common.Hash{}, errors.New("short DOMAIN_SEPARATOR response")
	}
	return common.BytesToHash(raw[:32]), nil
}

func packApprove(spender common.Address, amount *big.Int) ([]byte, error) {
	data, err := erc20Permit.Pack("approve", spender, amount)
	return data, errors.Wrap(err, "pack approve")
}

func packPermit(owner, spender common.Address, value, deadline *big.Int, v uint8, r, s common.Hash) ([]byte, error) {
	data, err := erc20Permit.Pack("permit", owner, spender, value, deadline, v, r, s)
	return data, errors.Wrap(err, "pack permit")
}
