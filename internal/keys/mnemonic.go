package keys

import (
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"
)

// GenerateMnemonic creates a fresh BIP-39 mnemonic for onboarding.
// wordCount must be 12 or 24.
func GenerateMnemonic(wordCount int) (string, error) {
	var bits int
	switch wordCount {
	case 12:
		bits = 128
	case 24:
		bits = 256
	default:
		return "", errors.Errorf("unsupported word count %d (must be 12 or 24)", wordCount)
	}

	entropy, err := bip39.NewEntropy(bits)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate entropy")
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", errors.Wrap(err, "failed to build mnemonic")
	}
	return mnemonic, nil
}

// ValidateMnemonic reports whether the phrase passes wordlist and checksum
// validation.
func ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(mnemonic)
}
