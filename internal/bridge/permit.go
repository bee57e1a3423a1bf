package bridge

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/pkg/errors"

	txevm "github.com/pocketvault/wallet-core/internal/tx/evm"
	"github.com/pocketvault/wallet-core/internal/util"
)

// maxPermitDomainVersion bounds the domain-version probe. Tokens do not
// expose which EIP-712 domain version their permit uses, so candidate
// versions are tried until the computed separator matches the on-chain one.
const maxPermitDomainVersion = 10

type permitDomain struct {
	Name    string
	Version string
	ChainID *big.Int
	Token   common.Address
}

// probePermitDomain determines whether token supports EIP-2612 permit and,
// if so, which domain version it uses. Returns nil when the token has no
// DOMAIN_SEPARATOR or no candidate version matches it: an unverified domain
// is never signed, so the caller falls back to the approve flow.
func probePermitDomain(ctx context.Context, client txevm.Client, token common.Address, chainID *big.Int) (*permitDomain, error) {
	log := util.LogFromContext(ctx)

	onChain, err := callDomainSeparator(ctx, client, token)
	if err != nil {
		log.Debug().Str("token", token.Hex()).Msg("Token exposes no DOMAIN_SEPARATOR, using approve flow")
		return nil, nil
	}
	name, err := callName(ctx, client, token)
	if err != nil {
		return nil, errors.Wrap(err, "read token name")
	}

	for v := 1; v <= maxPermitDomainVersion; v++ {
		dom := &permitDomain{
			Name:    name,
			Version: strconv.Itoa(v),
			ChainID: chainID,
			Token:   token,
		}
		computed, err := dom.separator()
		if err != nil {
			return nil, err
		}
		if computed == onChain {
			log.Debug().Str("token", token.Hex()).Str("version", dom.Version).Msg("Matched permit domain version")
			return dom, nil
		}
	}

	log.Warn().Str("token", token.Hex()).
		Msg("No permit domain version matched within bound, using approve flow")
	return nil, nil
}

func (d *permitDomain) typedDomain() apitypes.TypedDataDomain {
	return apitypes.TypedDataDomain{
		Name:              d.Name,
		Version:           d.Version,
		ChainId:           (*math.HexOrDecimal256)(d.ChainID),
		VerifyingContract: d.Token.Hex(),
	}
}

var eip712DomainType = []apitypes.Type{
	{Name: "name", Type: "string"},
	{Name: "version", Type: "string"},
	{Name: "chainId", Type: "uint256"},
	{Name: "verifyingContract", Type: "address"},
}

func (d *permitDomain) separator() (common.Hash, error) {
	td := apitypes.TypedData{
		Types:  apitypes.Types{"EIP712Domain": eip712DomainType},
		Domain: d.typedDomain(),
	}
	h, err := td.HashStruct("EIP712Domain", td.Domain.Map())
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "hash domain")
	}
	return common.BytesToHash(h), nil
}

// signPermit produces the (v, r, s) signature for a Permit typed-data
// message over the verified domain.
func signPermit(priv *ecdsa.PrivateKey, dom *permitDomain, owner, spender common.Address, value, nonce, deadline *big.Int) (uint8, common.Hash, common.Hash, error) {
	td := apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": eip712DomainType,
			"Permit": {
				{Name: "owner", Type: "address"},
				{Name: "spender", Type: "address"},
				{Name: "value", Type: "uint256"},
				{Name: "nonce", Type: "uint256"},
				{Name: "deadline", Type: "uint256"},
			},
		},
		PrimaryType: "Permit",
		Domain:      dom.typedDomain(),
		Message: apitypes.TypedDataMessage{
			"owner":    owner.Hex(),
			"spender":  spender.Hex(),
			"value":    (*math.HexOrDecimal256)(value),
			"nonce":    (*math.HexOrDecimal256)(nonce),
			"deadline": (*math.HexOrDecimal256)(deadline),
		},
	}

	digest, _, err := apitypes.TypedDataAndHash(td)
	if err != nil {
		return 0, common.Hash{}, common.Hash{}, errors.Wrap(err, "hash permit")
	}
	sig, err := crypto.Sign(digest, priv)
	if err != nil {
		return 0, common.Hash{}, common.Hash{}, errors.Wrap(err, "sign permit")
	}
	v := sig[64] + 27
	r := common.BytesToHash(sig[:32])
	s := common.BytesToHash(sig[32:64])
	return v, r, s, nil
}
