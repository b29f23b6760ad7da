// Package kdf derives the 32-byte symmetric key used to wrap (or, for
// legacy headers, directly serve as) the master key from a passphrase and a
// per-file salt. Which underlying hash function runs, and with what cost
// parameters, is selected by the header version alone: callers never choose
// a KDF directly.
package kdf

import (
	"fmt"

	"github.com/dexios-go/dexios/dexioserr"
	"github.com/dexios-go/dexios/internal/kdf/argon2id"
	"github.com/dexios-go/dexios/internal/kdf/balloon"
	"github.com/dexios-go/dexios/secret"
)

// Version identifies a header format version. It doubles as the key into
// the KDF parameter table below, per the "version enum carrying parameter
// bundles" design note: no KDF branch hard-codes its own parameters.
type Version uint16

const (
	// V3 uses Argon2id; read-compatibility only, never written by this
	// implementation.
	V3 Version = 3
	// V4 uses Balloon-over-BLAKE3 without a slot table; read-compatibility
	// only, never written by this implementation.
	V4 Version = 4
	// V5 uses Balloon-over-BLAKE3 with the four-slot key table. This is the
	// only version new files are written as.
	V5 Version = 5
)

// OutputLen is the fixed symmetric key size every version's KDF produces.
const OutputLen = 32

type strategy int

const (
	strategyArgon2id strategy = iota
	strategyBalloon
)

type versionParams struct {
	strategy     strategy
	argon2Params argon2id.Params
	balloonParams balloon.Params
}

// params is the single lookup table every version-dependent KDF choice goes
// through. Adding a new header version means adding one entry here, never a
// new branch scattered through the derivation code.
var params = map[Version]versionParams{
	V3: {
		strategy: strategyArgon2id,
		argon2Params: argon2id.Params{
			MemoryKiB: 1 << 18,
			Time:      8,
			Threads:   4,
		},
	},
	V4: {
		strategy: strategyBalloon,
		balloonParams: balloon.Params{
			SCost: 1 << 18,
			TCost: 1,
			Delta: 4,
		},
	},
	V5: {
		strategy: strategyBalloon,
		balloonParams: balloon.Params{
			SCost: 1 << 18,
			TCost: 1,
			Delta: 4,
		},
	},
}

// Derive produces the 32-byte symmetric key for passphrase and salt under
// the KDF that version mandates. The returned key lives in a secret
// Container: callers must Destroy it once consumed.
func Derive(passphrase, salt []byte, version Version) (*secret.Container, error) {
	p, ok := params[version]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported header version %d", dexioserr.ErrKDF, version)
	}

	var (
		out []byte
		err error
	)
	switch p.strategy {
	case strategyArgon2id:
		out, err = argon2id.Derive(passphrase, salt, p.argon2Params)
	case strategyBalloon:
		out, err = balloon.Derive(passphrase, salt, p.balloonParams)
	default:
		return nil, fmt.Errorf("%w: unreachable strategy for version %d", dexioserr.ErrKDF, version)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", dexioserr.ErrKDF, err)
	}

	c := secret.From(out)
	return c, nil
}
