// Package bridge obtains cross-chain swap quotes from a third-party
// aggregator and executes the chosen route on the source chain.
package bridge

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/pocketvault/wallet-core/internal/chain"
)

// State tracks a swap flow. Quotes are ephemeral: a quote must be re-fetched
// rather than reused when the user changes amount or tokens.
type State string

const (
	QuoteRequested State = "QUOTE_REQUESTED"
	QuoteReady     State = "QUOTE_READY"
	Submitting     State = "SUBMITTING"
	Submitted      State = "SUBMITTED"
	Failed         State = "FAILED"
)

var (
	ErrNoRoutes = errors.New("aggregator returned no routes")
	// ErrCanceled means the user dismissed the authentication prompt; the
	// flow aborts without surfacing an error.
	ErrCanceled   = errors.New("swap canceled")
	ErrStaleQuote = errors.New("quote is not ready for execution")
)

// Error codes returned by the aggregator.
const (
	CodeAmountTooSmall = "amount_too_small"
)

// Error is a typed aggregator failure. Data carries code-specific detail,
// e.g. the minimum accepted amount for amount_too_small.
type Error struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

func (e *Error) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MinAmount extracts the minimum accepted input amount from an
// amount_too_small error.
func (e *Error) MinAmount() (decimal.Decimal, bool) {
	if e.Code != CodeAmountTooSmall {
		return decimal.Zero, false
	}
	raw, ok := e.Data["minAmount"]
	if !ok {
		return decimal.Zero, false
	}
	switch v := raw.(type) {
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	case float64:
		return decimal.NewFromFloat(v), true
	}
	return decimal.Zero, false
}

// QuoteRequest describes the swap the user wants.
type QuoteRequest struct {
	SrcChain    chain.ID
	SrcToken    string
	DstChain    chain.ID
	DstToken    string
	Amount      decimal.Decimal
	Destination string
}

// EVMCallData is the route's execution payload for an EVM source chain.
type EVMCallData struct {
	To        string          `json:"to"`
	Data      string          `json:"data"`
	Value     decimal.Decimal `json:"value"`
	Forwarder string          `json:"forwarder"`
}

// SolanaCallData is the route's execution payload for a Solana source chain:
// a prebuilt transaction to sign and send as-is.
type SolanaCallData struct {
	Transaction string `json:"transaction"`
}

// Route is one way the aggregator can fulfil a swap. Exactly one of EVM and
// Solana is set, matching the source chain.
type Route struct {
	ID           string          `json:"id"`
	AmountIn     decimal.Decimal `json:"amountIn"`
	MinAmountOut decimal.Decimal `json:"minAmountOut"`
	Slippage     decimal.Decimal `json:"slippage"`
	PriceImpact  decimal.Decimal `json:"priceImpact"`
	EVM          *EVMCallData    `json:"evm,omitempty"`
	Solana       *SolanaCallData `json:"solana,omitempty"`
}

// Quote is the display-ready summary of the first route the aggregator
// returned. LocalFee is computed here as a flat percentage of the input
// amount rather than trusted from the aggregator.
type Quote struct {
	State        State
	Request      QuoteRequest
	Route        Route
	MinAmountOut decimal.Decimal
	LocalFee     decimal.Decimal
}

// SwapStatus is the aggregator's own view of a submitted swap, used as the
// authoritative fallback when local confirmation fails.
type SwapStatus struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	TxHash  string `json:"txHash"`
	Message string `json:"message"`
}

// Landed reports whether the aggregator considers the swap executed.
func (s *SwapStatus) Landed() bool {
	return s.Status == "success" || s.Status == "completed"
}
