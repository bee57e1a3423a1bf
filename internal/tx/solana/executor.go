package solana

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"

	"github.com/pocketvault/wallet-core/internal/account"
	"github.com/pocketvault/wallet-core/internal/tx"
	"github.com/pocketvault/wallet-core/internal/util"
)

const (
	statusPollInterval = 2 * time.Second
	// confirmTimeout is the hard cap on the confirmation wait; the usual
	// exit is the transaction's blockhash expiring.
	confirmTimeout = 2 * time.Minute
)

// Executor signs an unsigned transaction with the current account's key,
// broadcasts it once with preflight enabled, and waits for it to reach
// confirmed commitment. A failed broadcast is never retried here.
type Executor struct {
	client   Client
	accounts *account.Store
}

func NewExecutor(client Client, accounts *account.Store) *Executor {
	return &Executor{client: client, accounts: accounts}
}

// Execute decodes the unsigned wire form, signs it with the current
// account's key resolved from the store (never cached across calls), sends
// it, and polls signature status until confirmation or blockhash expiry.
func (x *Executor) Execute(ctx context.Context, unsigned *UnsignedTx) (*tx.Result, error) {
	log := util.LogFromContext(ctx)

	raw, err := base64.StdEncoding.DecodeString(unsigned.Encoded)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode transaction")
	}
	parsed, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse transaction")
	}

	acc, err := x.accounts.GetCurrentAccount(ctx)
	if err != nil {
		return nil, err
	}
	if acc == nil || acc.SVM == nil {
		return nil, errors.New("current account has no Solana keypair")
	}
	priv := solana.PrivateKey(acc.SVM.SecretKey)

	signer := func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(priv.PublicKey()) {
			return &priv
		}
		return nil
	}

	versioned, err := isVersionedWire(raw)
	if err != nil {
		return nil, err
	}
	if versioned {
		// Versioned messages may reference lookup tables; replace the whole
		// signature list rather than merging into placeholders.
		parsed.Signatures = nil
		_, err = parsed.Sign(signer)
	} else {
		_, err = parsed.PartialSign(signer)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign transaction")
	}

	maxRetries := uint(0)
	sig, err := x.client.SendTransactionWithOpts(ctx, parsed, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentConfirmed,
		MaxRetries:          &maxRetries,
	})
	if err != nil {
		return &tx.Result{Status: false, Err: err.Error()}, nil
	}

	log.Info().Str("signature", sig.String()).Msg("Transaction broadcast")

	return x.waitConfirmation(ctx, sig, unsigned.LastValidBlockHeight)
}

func (x *Executor) waitConfirmation(ctx context.Context, sig solana.Signature, lastValidBlockHeight uint64) (*tx.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, confirmTimeout)
	defer cancel()

	ticker := time.NewTicker(statusPollInterval)
	defer ticker.Stop()

	for {
		res, err := x.client.GetSignatureStatuses(ctx, true, sig)
		if err == nil && len(res.Value) > 0 && res.Value[0] != nil {
			st := res.Value[0]
			if st.Err != nil {
				return &tx.Result{
					Hash:   sig.String(),
					Status: false,
					Err:    fmt.Sprintf("transaction failed on chain: %v", st.Err),
				}, nil
			}
			if st.ConfirmationStatus == rpc.ConfirmationStatusConfirmed ||
				st.ConfirmationStatus == rpc.ConfirmationStatusFinalized {
				return &tx.Result{
					Hash:        sig.String(),
					BlockNumber: st.Slot,
					Status:      true,
				}, nil
			}
		}

		if height, err := x.client.GetBlockHeight(ctx, rpc.CommitmentConfirmed); err == nil && height > lastValidBlockHeight {
			return &tx.Result{
				Hash:   sig.String(),
				Status: false,
				Err:    "blockhash expired before confirmation",
			}, nil
		}

		select {
		case <-ctx.Done():
			return &tx.Result{
				Hash:   sig.String(),
				Status: false,
				Err:    "timed out waiting for confirmation",
			}, nil
		case <-ticker.C:
		}
	}
}

// isVersionedWire reports whether the serialized transaction carries a
// versioned message: the first message byte after the signature list has its
// high bit set.
func isVersionedWire(raw []byte) (bool, error) {
	n, read, err := decodeCompactU16(raw)
	if err != nil {
		return false, errors.Wrap(err, "malformed transaction")
	}
	offset := read + n*64
	if offset >= len(raw) {
		return false, errors.New("malformed transaction: truncated signatures")
	}
	return raw[offset]&0x80 != 0, nil
}

// decodeCompactU16 reads a short-vec length prefix, returning the value and
// the number of bytes consumed.
func decodeCompactU16(b []byte) (int, int, error) {
	var value, shift uint
	for i := 0; i < 3; i++ {
		if i >= len(b) {
			return 0, 0, errors.New("truncated compact-u16")
		}
		elem := uint(b[i])
		value |= (elem & 0x7f) << shift
		if elem&0x80 == 0 {
			return int(value), i + 1, nil
		}
		shift += 7
	}
	return 0, 0, errors.New("compact-u16 too long")
}
