package vault

import (
	"crypto/hmac"
	"encoding/hex"

	"github.com/pkg/errors"
	"golang.org/x/crypto/scrypt"
)

// decrypt unseals a blob, verifying the MAC before returning plaintext.
func decrypt(blob *blobJSON, passphrase []byte) ([]byte, error) {
	salt, err := hex.DecodeString(blob.Crypto.KDFParams.Salt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode salt")
	}
	iv, err := hex.DecodeString(blob.Crypto.CipherParams.IV)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode IV")
	}
	ciphertext, err := hex.DecodeString(blob.Crypto.Ciphertext)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode ciphertext")
	}
	expectedMAC, err := hex.DecodeString(blob.Crypto.MAC)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode MAC")
	}

	derivedKey, err := scrypt.Key(
		passphrase,
		salt,
		blob.Crypto.KDFParams.N,
		blob.Crypto.KDFParams.R,
		blob.Crypto.KDFParams.P,
		blob.Crypto.KDFParams.DKLen,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive key")
	}

	mac := computeMAC(derivedKey[16:32], ciphertext)
	if !hmac.Equal(mac, expectedMAC) {
		return nil, ErrMACMismatch
	}

	return applyAESCTR(derivedKey[:16], iv, ciphertext)
}
