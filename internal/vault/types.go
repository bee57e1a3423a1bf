package vault

import "github.com/pkg/errors"

var (
	// ErrNotFound is returned when a key has no stored value.
	ErrNotFound = errors.New("vault: key not found")

	// ErrMACMismatch is returned when decryption fails authentication,
	// almost always a wrong passphrase.
	ErrMACMismatch = errors.New("vault: MAC mismatch (wrong passphrase?)")
)

// Backend is the raw storage under the vault. Implementations persist opaque
// encrypted blobs by key name; they never see plaintext.
type Backend interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
}

// blobJSON is the on-disk envelope for one encrypted value, following the
// Ethereum keystore v3 layout.
type blobJSON struct {
	Version int    `json:"version"`
	ID      string `json:"id"`
	Crypto  struct {
		Ciphertext   string `json:"ciphertext"`
		CipherParams struct {
			IV string `json:"iv"`
		} `json:"cipherparams"`
		Cipher    string `json:"cipher"`
		KDF       string `json:"kdf"`
		KDFParams struct {
			DKLen int    `json:"dklen"`
			Salt  string `json:"salt"`
			N     int    `json:"n"`
			R     int    `json:"r"`
			P     int    `json:"p"`
		} `json:"kdfparams"`
		MAC string `json:"mac"`
	} `json:"crypto"`
}

// ScryptParams defines the KDF cost parameters for the vault.
type ScryptParams struct {
	DKLen int
	N     int
	R     int
	P     int
}

// DefaultScryptParams returns the production parameters (keystore v3
// defaults). Tests use lighter ones.
func DefaultScryptParams() ScryptParams {
	return ScryptParams{
		DKLen: 32,
		N:     262144,
		R:     8,
		P:     1,
	}
}
