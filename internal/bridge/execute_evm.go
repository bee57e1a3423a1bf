package bridge

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/pocketvault/wallet-core/internal/chain"
	"github.com/pocketvault/wallet-core/internal/tx"
	txevm "github.com/pocketvault/wallet-core/internal/tx/evm"
	"github.com/pocketvault/wallet-core/internal/util"
)

// permitDeadline is how long a signed permit stays valid.
const permitDeadline = 30 * time.Minute

// executeEVM satisfies the source token's allowance requirement against the
// aggregator forwarder, then signs and sends the route's call data. Each
// on-chain step must confirm before the next begins.
func (o *Orchestrator) executeEVM(ctx context.Context, quote *Quote) (*tx.Result, error) {
	route := quote.Route
	if route.EVM == nil {
		return nil, errors.New("route carries no EVM call data")
	}
	client, ok := o.evmClients[quote.Request.SrcChain]
	if !ok {
		return nil, errors.Wrapf(chain.ErrUnsupportedChain, "no RPC client for %q", quote.Request.SrcChain)
	}
	chainID, err := quote.Request.SrcChain.EVMChainID()
	if err != nil {
		return nil, err
	}

	acc, err := o.accounts.GetCurrentAccount(ctx)
	if err != nil {
		return nil, err
	}
	if acc == nil || acc.EVM == nil {
		return nil, errors.New("current account has no EVM keypair")
	}
	priv, err := crypto.ToECDSA(acc.EVM.SecretKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load private key")
	}
	owner := crypto.PubkeyToAddress(priv.PublicKey)

	if quote.Request.SrcToken != tx.NativeToken {
		token := common.HexToAddress(quote.Request.SrcToken)
		forwarder := common.HexToAddress(route.EVM.Forwarder)
		if err := o.ensureAllowance(ctx, client, chainID, priv, owner, token, forwarder, route.AmountIn); err != nil {
			return nil, err
		}
	}

	to := common.HexToAddress(route.EVM.To)
	return o.sendCall(ctx, client, chainID, owner, to, route.EVM.Value.BigInt(), common.FromHex(route.EVM.Data))
}

// ensureAllowance checks the forwarder's allowance and raises it when short:
// via an on-chain permit submission when the token's EIP-2612 domain can be
// verified, via a plain approve otherwise.
func (o *Orchestrator) ensureAllowance(
	ctx context.Context,
	client txevm.Client,
	chainID *big.Int,
	priv *ecdsa.PrivateKey,
	owner, token, forwarder common.Address,
	amount decimal.Decimal,
) error {
	log := util.LogFromContext(ctx)

	decimals, err := callDecimals(ctx, client, token)
	if err != nil {
		return err
	}
	required := amount.Shift(int32(decimals)).BigInt()

	allowance, err := callAllowance(ctx, client, token, owner, forwarder)
	if err != nil {
		return err
	}
	if allowance.Cmp(required) >= 0 {
		return nil
	}

	dom, err := probePermitDomain(ctx, client, token, chainID)
	if err != nil {
		return err
	}

	var data []byte
	if dom != nil {
		nonce, err := callNonces(ctx, client, token, owner)
		if err != nil {
			return err
		}
		deadline := big.NewInt(time.Now().Add(permitDeadline).Unix())
		v, r, s, err := signPermit(priv, dom, owner, forwarder, required, nonce, deadline)
		if err != nil {
			return err
		}
		data, err = packPermit(owner, forwarder, required, deadline, v, r, s)
		if err != nil {
			return err
		}
		log.Info().Str("token", token.Hex()).Msg("Submitting permit")
	} else {
		data, err = packApprove(forwarder, required)
		if err != nil {
			return err
		}
		log.Info().Str("token", token.Hex()).Msg("Submitting approve")
	}

	result, err := o.sendCall(ctx, client, chainID, owner, token, nil, data)
	if err != nil {
		return err
	}
	if !result.Status {
		return errors.Errorf("allowance transaction failed: %s", result.Err)
	}
	return nil
}

// sendCall signs and broadcasts an arbitrary call as the owner, reusing the
// transfer executor's sign-once/poll-receipt flow.
func (o *Orchestrator) sendCall(
	ctx context.Context,
	client txevm.Client,
	chainID *big.Int,
	from, to common.Address,
	value *big.Int,
	data []byte,
) (*tx.Result, error) {
	if value == nil {
		value = new(big.Int)
	}
	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get gas price")
	}
	gas, err := client.EstimateGas(ctx, ethereum.CallMsg{From: from, To: &to, Value: value, Data: data})
	if err != nil {
		return nil, errors.Wrap(err, "failed to estimate gas")
	}
	nonce, err := client.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get nonce")
	}

	unsigned := &txevm.UnsignedTx{
		Tx: types.NewTx(&types.LegacyTx{
			Nonce:    nonce,
			GasPrice: gasPrice,
			Gas:      gas,
			To:       &to,
			Value:    value,
			Data:     data,
		}),
		ChainID: chainID,
		From:    from,
	}
	return txevm.NewExecutor(client, o.accounts).Execute(ctx, unsigned)
}
