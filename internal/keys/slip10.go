package keys

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"

	"github.com/pkg/errors"
)

// slip10MasterKeySalt is the fixed HMAC key for the Ed25519 curve per SLIP-0010.
var slip10MasterKeySalt = []byte("ed25519 seed")

// deriveEd25519Seed derives a 32-byte Ed25519 private seed from a BIP-39 seed
// using SLIP-0010 hierarchical derivation. Ed25519 supports hardened
// derivation only, so every path segment must be hardened.
func deriveEd25519Seed(seed []byte, path string) ([]byte, error) {
	indices, err := parseDerivationPath(path)
	if err != nil {
		return nil, err
	}

	mac := hmac.New(sha512.New, slip10MasterKeySalt)
	mac.Write(seed)
	sum := mac.Sum(nil)
	key, chainCode := sum[:32], sum[32:]

	for _, idx := range indices {
		if idx < hardenedOffset {
			return nil, errors.Errorf("ed25519 derivation requires hardened segments, got %d", idx)
		}

		var ser [4]byte
		binary.BigEndian.PutUint32(ser[:], idx)

		mac = hmac.New(sha512.New, chainCode)
		mac.Write([]byte{0x00})
		mac.Write(key)
		mac.Write(ser[:])
		sum = mac.Sum(nil)
		key, chainCode = sum[:32], sum[32:]
	}

	return key, nil
}
