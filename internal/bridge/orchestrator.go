package bridge

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/pocketvault/wallet-core/internal/account"
	"github.com/pocketvault/wallet-core/internal/authgate"
	"github.com/pocketvault/wallet-core/internal/chain"
	"github.com/pocketvault/wallet-core/internal/tx"
	txevm "github.com/pocketvault/wallet-core/internal/tx/evm"
	txsolana "github.com/pocketvault/wallet-core/internal/tx/solana"
	"github.com/pocketvault/wallet-core/internal/util"
)

// Orchestrator drives a swap from quote to submission. It never mutates the
// account store; the only state a swap changes is on chain.
type Orchestrator struct {
	client     *Client
	accounts   *account.Store
	gate       authgate.Gate
	feePercent decimal.Decimal
	solClient  txsolana.Client
	evmClients map[chain.ID]txevm.Client
}

func NewOrchestrator(
	client *Client,
	accounts *account.Store,
	gate authgate.Gate,
	feePercent decimal.Decimal,
	solClient txsolana.Client,
	evmClients map[chain.ID]txevm.Client,
) *Orchestrator {
	return &Orchestrator{
		client:     client,
		accounts:   accounts,
		gate:       gate,
		feePercent: feePercent,
		solClient:  solClient,
		evmClients: evmClients,
	}
}

// Quote validates the request against the supported-chain allowlist, asks
// the aggregator for routes, and summarizes the first one. The displayed fee
// is a flat local percentage of the input amount; the aggregator's own fee
// figure is not trusted for display.
func (o *Orchestrator) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	if !chain.IsSupported(req.SrcChain) {
		return nil, errors.Wrapf(chain.ErrUnsupportedChain, "source chain %q", req.SrcChain)
	}
	if !chain.IsSupported(req.DstChain) {
		return nil, errors.Wrapf(chain.ErrUnsupportedChain, "destination chain %q", req.DstChain)
	}
	if !req.Amount.IsPositive() {
		return nil, tx.ErrInvalidAmount
	}

	routes, err := o.client.Routes(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(routes) == 0 {
		return nil, ErrNoRoutes
	}

	route := routes[0]
	return &Quote{
		State:        QuoteReady,
		Request:      req,
		Route:        route,
		MinAmountOut: route.MinAmountOut,
		LocalFee:     req.Amount.Mul(o.feePercent).Div(decimal.NewFromInt(100)),
	}, nil
}

// Execute authorizes the swap through the gate and dispatches it to the
// source chain's executor. A canceled prompt aborts with ErrCanceled and no
// side effects.
func (o *Orchestrator) Execute(ctx context.Context, quote *Quote) (*tx.Result, error) {
	if quote == nil || quote.State != QuoteReady {
		return nil, ErrStaleQuote
	}

	res, err := o.gate.Authorize(ctx, "Confirm swap")
	if err != nil {
		return nil, errors.Wrap(err, "authentication failed")
	}
	switch res {
	case authgate.Success:
	case authgate.Canceled:
		return nil, ErrCanceled
	default:
		return nil, errors.New("authentication failed")
	}

	quote.State = Submitting
	log := util.LogFromContext(ctx)
	log.Info().
		Str("route", quote.Route.ID).
		Str("srcChain", string(quote.Request.SrcChain)).
		Str("dstChain", string(quote.Request.DstChain)).
		Msg("Submitting swap")

	var result *tx.Result
	if quote.Request.SrcChain.IsSolana() {
		result, err = o.executeSolana(ctx, quote)
	} else {
		result, err = o.executeEVM(ctx, quote)
	}
	if err != nil {
		quote.State = Failed
		return nil, err
	}
	if result.Status {
		quote.State = Submitted
	} else {
		quote.State = Failed
	}
	return result, nil
}
