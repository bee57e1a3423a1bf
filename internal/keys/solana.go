package keys

import (
	"crypto/ed25519"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"
)

// DeriveSolana derives an Ed25519 keypair from a BIP-39 mnemonic at the given
// hardened path (SLIP-0010). The mnemonic is validated against the wordlist
// and checksum before any derivation happens.
func DeriveSolana(mnemonic string, path string) (*SolanaKeypair, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}

	seed := bip39.NewSeed(mnemonic, "")
	edSeed, err := deriveEd25519Seed(seed, path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive ed25519 seed")
	}

	priv := solana.PrivateKey(ed25519.NewKeyFromSeed(edSeed))
	return &SolanaKeypair{
		PublicKey:      priv.PublicKey().String(),
		PrivateKey:     priv.String(),
		SecretKey:      []byte(priv),
		SeedPhrase:     mnemonic,
		DerivationPath: path,
	}, nil
}

// ImportSolana builds a keypair from a base58-encoded 64-byte secret key.
// No mnemonic or path is retained for imports.
func ImportSolana(encoded string) (*SolanaKeypair, error) {
	priv, err := solana.PrivateKeyFromBase58(encoded)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidPrivateKey, err.Error())
	}
	if len(priv) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(ErrInvalidPrivateKey, "expected %d bytes, got %d", ed25519.PrivateKeySize, len(priv))
	}

	return &SolanaKeypair{
		PublicKey:  priv.PublicKey().String(),
		PrivateKey: priv.String(),
		SecretKey:  []byte(priv),
	}, nil
}
