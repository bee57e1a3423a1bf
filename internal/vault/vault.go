// Package vault provides encrypted-at-rest key/value storage for wallet
// state. Values are sealed into keystore-v3 style blobs (scrypt KDF,
// AES-128-CTR, SHA-256 MAC) before they reach the backend.
package vault

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Vault seals and unseals values against an injected backend. The passphrase
// is taken once at construction.
type Vault struct {
	backend    Backend
	passphrase []byte
	params     ScryptParams
}

// New creates a Vault over the given backend.
func New(backend Backend, passphrase []byte, params ScryptParams) *Vault {
	return &Vault{
		backend:    backend,
		passphrase: passphrase,
		params:     params,
	}
}

// Get decrypts and returns the value stored under key.
func (v *Vault) Get(key string) ([]byte, error) {
	raw, err := v.backend.Get(key)
	if err != nil {
		return nil, err
	}

	var blob blobJSON
	if err := json.Unmarshal(raw, &blob); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal vault blob")
	}

	return decrypt(&blob, v.passphrase)
}

// Put encrypts value and stores it under key, replacing any previous value.
func (v *Vault) Put(key string, value []byte) error {
	blob, err := encrypt(value, v.passphrase, v.params)
	if err != nil {
		return errors.Wrap(err, "failed to encrypt vault value")
	}

	raw, err := json.Marshal(blob)
	if err != nil {
		return errors.Wrap(err, "failed to marshal vault blob")
	}

	return v.backend.Put(key, raw)
}

// Delete removes the value stored under key. Deleting a missing key is not
// an error.
func (v *Vault) Delete(key string) error {
	err := v.backend.Delete(key)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
