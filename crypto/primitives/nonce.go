package primitives

import (
	"fmt"

	"github.com/dexios-go/dexios/generator/randomness"
)

// SaltLen is the fixed per-file KDF salt length.
const SaltLen = 16

// GenNonce draws a fresh random nonce of the exact length algo/mode require
// from the process CSPRNG.
func GenNonce(algo Algorithm, mode Mode) ([]byte, error) {
	n, err := NonceLen(algo, mode)
	if err != nil {
		return nil, err
	}
	b, err := randomness.Bytes(n)
	if err != nil {
		return nil, fmt.Errorf("primitives: unable to generate nonce: %w", err)
	}
	return b, nil
}

// GenSalt draws a fresh 16-byte KDF salt from the process CSPRNG.
func GenSalt() ([]byte, error) {
	b, err := randomness.Bytes(SaltLen)
	if err != nil {
		return nil, fmt.Errorf("primitives: unable to generate salt: %w", err)
	}
	return b, nil
}
