package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/scrypt"
)

// encrypt seals plaintext into a keystore-v3 style blob.
func encrypt(plaintext []byte, passphrase []byte, params ScryptParams) (*blobJSON, error) {
	salt := make([]byte, 32)
	if _, err := rand.Read(salt); err != nil {
		return nil, errors.Wrap(err, "failed to generate salt")
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, errors.Wrap(err, "failed to generate IV")
	}

	derivedKey, err := scrypt.Key(passphrase, salt, params.N, params.R, params.P, params.DKLen)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive key")
	}

	ciphertext, err := applyAESCTR(derivedKey[:16], iv, plaintext)
	if err != nil {
		return nil, err
	}

	mac := computeMAC(derivedKey[16:32], ciphertext)

	blob := &blobJSON{
		Version: 3,
		ID:      uuid.New().String(),
	}
	blob.Crypto.Ciphertext = hex.EncodeToString(ciphertext)
	blob.Crypto.CipherParams.IV = hex.EncodeToString(iv)
	blob.Crypto.Cipher = "aes-128-ctr"
	blob.Crypto.KDF = "scrypt"
	blob.Crypto.KDFParams.DKLen = params.DKLen
	blob.Crypto.KDFParams.Salt = hex.EncodeToString(salt)
	blob.Crypto.KDFParams.N = params.N
	blob.Crypto.KDFParams.R = params.R
	blob.Crypto.KDFParams.P = params.P
	blob.Crypto.MAC = hex.EncodeToString(mac)

	return blob, nil
}

// applyAESCTR runs AES-128-CTR over data; CTR mode is symmetric so the same
// function encrypts and decrypts.
func applyAESCTR(key []byte, iv []byte, data []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create cipher")
	}

	out := make([]byte, len(data))
	cipher.NewCTR(block, iv).XORKeyStream(out, data)
	return out, nil
}

// computeMAC authenticates the ciphertext with SHA-256(dk[16:32] || ct).
func computeMAC(key []byte, ciphertext []byte) []byte {
	h := sha256.New()
	h.Write(key)
	h.Write(ciphertext)
	return h.Sum(nil)
}
