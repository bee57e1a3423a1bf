package keys

import "github.com/pkg/errors"

// Fixed derivation paths used for onboarding. Raw-key imports carry no path.
const (
	SolanaDerivationPath = "m/44'/501'/0'/0'"
	EVMDerivationPath    = "m/44'/60'/0'/0/0"
)

var (
	// ErrInvalidMnemonic is returned when a seed phrase fails the BIP-39
	// wordlist/checksum validation. No derivation is attempted.
	ErrInvalidMnemonic = errors.New("invalid mnemonic")

	// ErrInvalidPrivateKey is returned for malformed raw-key imports.
	ErrInvalidPrivateKey = errors.New("invalid private key")
)

// SolanaKeypair is an Ed25519 keypair in the Solana account model.
type SolanaKeypair struct {
	// PublicKey is the base58 chain address.
	PublicKey string `json:"publicKey"`
	// PrivateKey is the base58-encoded 64-byte secret key (seed||pubkey).
	PrivateKey string `json:"privateKey"`
	// SecretKey is the raw 64-byte secret key.
	SecretKey []byte `json:"secretKey"`
	// SeedPhrase is retained for user-facing backup display when the keypair
	// was derived from a mnemonic. Absent for raw imports. Sensitive.
	SeedPhrase     string `json:"seedPhrase,omitempty"`
	DerivationPath string `json:"derivationPath,omitempty"`
}

// EVMKeypair is a secp256k1 keypair in the EVM account model.
type EVMKeypair struct {
	// PublicKey is the 20-byte address, 0x-prefixed and checksum-cased.
	PublicKey string `json:"publicKey"`
	// PrivateKey is the 32-byte private key as 0x-prefixed hex.
	PrivateKey string `json:"privateKey"`
	// SecretKey is the raw 32-byte private key.
	SecretKey      []byte `json:"secretKey"`
	SeedPhrase     string `json:"seedPhrase,omitempty"`
	DerivationPath string `json:"derivationPath,omitempty"`
}
