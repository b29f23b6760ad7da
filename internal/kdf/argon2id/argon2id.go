// Package argon2id derives symmetric keys with Argon2id, used to stay
// read-compatible with V3 headers. New headers never use this KDF.
package argon2id

import (
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Params bundles the Argon2id cost parameters for one header version.
type Params struct {
	MemoryKiB uint32 // m_cost, in KiB
	Time      uint32 // t_cost, number of passes
	Threads   uint8  // p_cost
}

// OutputLen is the fixed symmetric key size every Dexios KDF produces.
const OutputLen = 32

// Derive runs Argon2id over passphrase and salt with params, returning
// exactly OutputLen bytes.
func Derive(passphrase, salt []byte, params Params) ([]byte, error) {
	if len(salt) == 0 {
		return nil, fmt.Errorf("argon2id: salt must not be empty")
	}
	return argon2.IDKey(passphrase, salt, params.Time, params.MemoryKiB, params.Threads, OutputLen), nil
}
