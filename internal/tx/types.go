// Package tx defines the chain-agnostic transfer contract shared by the EVM
// and Solana pipelines: the transfer request, the tagged fee-info variants,
// and the normalized execution result.
package tx

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/pocketvault/wallet-core/internal/chain"
)

// NativeToken is the sentinel token identifier for the chain's native
// currency (SOL, ETH, ...). Anything else is a contract or mint address.
const NativeToken = "native"

var (
	// ErrInvalidAmount rejects zero or negative transfer amounts before any
	// network call.
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrInvalidAddress rejects malformed recipient addresses before any
	// network call.
	ErrInvalidAddress = errors.New("invalid recipient address")

	// ErrInsufficientBalance is raised at build time as the authoritative
	// check, even when an earlier estimate passed.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// TransferRequest describes a prospective native or token transfer.
type TransferRequest struct {
	Chain  chain.ID
	Token  string
	To     string
	Amount decimal.Decimal
}

// IsNative reports whether the request moves the chain's native currency.
func (r TransferRequest) IsNative() bool {
	return r.Token == "" || r.Token == NativeToken
}

// FeeInfo is a tagged sum over the two chain-specific fee shapes. Call sites
// switch on the concrete type; there is no structural field probing.
type FeeInfo interface {
	feeInfo()
}

// EVMFee is the EVM estimator output.
type EVMFee struct {
	// EstimatedFee is in native currency units (ETH, POL, ...).
	EstimatedFee decimal.Decimal
	GasLimit     uint64
	GasPrice     *big.Int
	// Balance is the sender's native balance in wei.
	Balance *big.Int
	// Sufficient is balance >= fee. For ERC-20 transfers the token amount is
	// deliberately not reserved here since token and fee currency differ.
	Sufficient bool
}

func (EVMFee) feeInfo() {}

// SolanaFee is the Solana estimator output.
type SolanaFee struct {
	// EstimatedFee is in lamports.
	EstimatedFee uint64
	ComputeUnits uint32
	// Balance is the sender's SOL balance in lamports.
	Balance uint64
	// Sufficient is balance >= fee + amount for native SOL transfers, and
	// balance >= fee alone for SPL transfers (the token balance itself is
	// checked by the consumer, not this estimator).
	Sufficient bool
}

func (SolanaFee) feeInfo() {}

// Result is the normalized outcome of a broadcast. A failed broadcast is
// never retried here; the caller re-runs the builder for a fresh
// blockhash/nonce before any retry.
type Result struct {
	Hash        string `json:"hash"`
	BlockNumber uint64 `json:"blockNumber,omitempty"`
	Status      bool   `json:"status"`
	Err         string `json:"error,omitempty"`
}
