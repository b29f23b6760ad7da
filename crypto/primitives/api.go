// Package primitives wraps the three AEAD ciphers Dexios can use to protect
// file content, plus the CSPRNG used to generate nonces and salts. It is the
// only package that imports a concrete cipher implementation; everything
// above it talks to the Cipher interface.
package primitives

import (
	"fmt"

	"github.com/dexios-go/dexios/dexioserr"
	"github.com/dexios-go/dexios/internal/cipher/aesgcm"
	"github.com/dexios-go/dexios/internal/cipher/deoxys"
	"github.com/dexios-go/dexios/internal/cipher/xchacha"
)

// Algorithm identifies one of the three supported AEAD ciphers. The numeric
// values are wire-stable: they are written verbatim into the header's
// algorithm_tag field.
type Algorithm uint16

const (
	// XChaCha20Poly1305 uses a 24-byte nonce.
	XChaCha20Poly1305 Algorithm = 1
	// Aes256Gcm uses a 12-byte nonce.
	Aes256Gcm Algorithm = 2
	// Deoxys2 uses a 15-byte nonce.
	Deoxys2 Algorithm = 3
)

// String renders the algorithm tag for logging and `header details` output.
func (a Algorithm) String() string {
	switch a {
	case XChaCha20Poly1305:
		return "XChaCha20-Poly1305"
	case Aes256Gcm:
		return "AES-256-GCM"
	case Deoxys2:
		return "Deoxys-II-256"
	default:
		return fmt.Sprintf("unknown(%d)", uint16(a))
	}
}

// Valid reports whether a is one of the three known algorithm tags.
func (a Algorithm) Valid() bool {
	switch a {
	case XChaCha20Poly1305, Aes256Gcm, Deoxys2:
		return true
	default:
		return false
	}
}

// Mode identifies whether a cipher is used for a single in-memory payload or
// for the chunked STREAM construction. The numeric values are wire-stable.
type Mode uint16

const (
	// MemoryMode seals/opens one finite payload in a single AEAD call.
	MemoryMode Mode = 1
	// StreamMode feeds the cipher through the STREAM-LE31 construction.
	StreamMode Mode = 2
)

// Valid reports whether m is a known mode tag.
func (m Mode) Valid() bool {
	return m == MemoryMode || m == StreamMode
}

// KeyLen is the fixed symmetric key size every algorithm requires.
const KeyLen = 32

// streamReserved is the number of nonce bytes the STREAM-LE31 construction
// claims for its internal counter (4B) and last-block flag (1B).
const streamReserved = 5

// NonceLen returns the raw nonce length required by algo in the given mode.
// In StreamMode the effective, stored nonce is 5 bytes shorter than the
// algorithm's native nonce size: those bytes are reconstructed per-segment
// from the STREAM counter and final-block flag.
func NonceLen(algo Algorithm, mode Mode) (int, error) {
	base, err := nativeNonceLen(algo)
	if err != nil {
		return 0, err
	}
	if mode == StreamMode {
		return base - streamReserved, nil
	}
	return base, nil
}

func nativeNonceLen(algo Algorithm) (int, error) {
	switch algo {
	case XChaCha20Poly1305:
		return 24, nil
	case Aes256Gcm:
		return 12, nil
	case Deoxys2:
		return 15, nil
	default:
		return 0, fmt.Errorf("%w: unsupported algorithm tag %d", dexioserr.ErrHeaderFormat, algo)
	}
}

// Cipher is a uniform single-shot AEAD: seal and open one finite payload
// given a nonce of exactly NonceSize() bytes.
type Cipher interface {
	// Seal encrypts plaintext and appends the authentication tag, writing the
	// result into dst (dst may be nil to let Seal allocate).
	Seal(dst, nonce, plaintext, aad []byte) ([]byte, error)
	// Open authenticates and decrypts ciphertext, writing the plaintext into
	// dst (dst may be nil to let Open allocate).
	Open(dst, nonce, ciphertext, aad []byte) ([]byte, error)
	// NonceSize returns the exact nonce length this cipher requires.
	NonceSize() int
	// Overhead returns the number of bytes the authentication tag adds.
	Overhead() int
}

// New constructs the Cipher implementation for algo, keyed with key. key must
// be exactly KeyLen bytes.
func New(algo Algorithm, key []byte) (Cipher, error) {
	if len(key) != KeyLen {
		return nil, fmt.Errorf("%w: key must be %d bytes, got %d", dexioserr.ErrKeyInit, KeyLen, len(key))
	}
	switch algo {
	case XChaCha20Poly1305:
		return xchacha.New(key)
	case Aes256Gcm:
		return aesgcm.New(key)
	case Deoxys2:
		return deoxys.New(key)
	default:
		return nil, fmt.Errorf("%w: unsupported algorithm tag %d", dexioserr.ErrHeaderFormat, algo)
	}
}
