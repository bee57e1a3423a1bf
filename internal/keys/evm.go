package keys

import (
	"crypto/ecdsa"
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip32"
	"github.com/tyler-smith/go-bip39"
)

// DeriveEVM derives a secp256k1 keypair from a BIP-39 mnemonic using standard
// BIP-32 derivation at the given path. The address is the last 20 bytes of the
// Keccak-256 of the uncompressed public key, checksum-cased.
func DeriveEVM(mnemonic string, path string) (*EVMKeypair, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}

	indices, err := parseDerivationPath(path)
	if err != nil {
		return nil, err
	}

	seed := bip39.NewSeed(mnemonic, "")
	key, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create master key")
	}
	for _, idx := range indices {
		key, err = key.NewChildKey(idx)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to derive child key at index %d", idx)
		}
	}

	priv, err := crypto.ToECDSA(key.Key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert to ECDSA private key")
	}

	kp := keypairFromECDSA(priv)
	kp.SeedPhrase = mnemonic
	kp.DerivationPath = path
	return kp, nil
}

// ImportEVM builds a keypair from a 0x-prefixed 32-byte hex private key.
func ImportEVM(encoded string) (*EVMKeypair, error) {
	raw := strings.TrimPrefix(encoded, "0x")
	priv, err := crypto.HexToECDSA(raw)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidPrivateKey, err.Error())
	}
	return keypairFromECDSA(priv), nil
}

func keypairFromECDSA(priv *ecdsa.PrivateKey) *EVMKeypair {
	secret := crypto.FromECDSA(priv)
	return &EVMKeypair{
		PublicKey:  crypto.PubkeyToAddress(priv.PublicKey).Hex(),
		PrivateKey: "0x" + hex.EncodeToString(secret),
		SecretKey:  secret,
	}
}
