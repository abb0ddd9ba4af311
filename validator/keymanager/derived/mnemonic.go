package derived

import (
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"
)

// GenerateMnemonic creates a new 24 word, english bip39 seed phrase
// from 256 bits of fresh entropy.
func GenerateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return "", errors.Wrap(err, "could not generate entropy for mnemonic")
	}
	return bip39.NewMnemonic(entropy)
}

// ValidateMnemonic checks a seed phrase is well formed with a valid
// bip39 checksum.
func ValidateMnemonic(mnemonic string) error {
	if !bip39.IsMnemonicValid(mnemonic) {
		return errors.New("received an invalid bip39 mnemonic phrase")
	}
	return nil
}
