// Package xchacha wraps golang.org/x/crypto/chacha20poly1305's XChaCha20-Poly1305
// construction behind the primitives.Cipher interface.
package xchacha

import (
	stdcipher "crypto/cipher"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// aeadCipher adapts the stdlib cipher.AEAD shape to the Dexios Cipher
// interface (which returns errors from Seal too, unlike cipher.AEAD).
type aeadCipher struct {
	aead stdcipher.AEAD
}

// New constructs an XChaCha20-Poly1305 AEAD keyed with key, which must be 32
// bytes long.
func New(key []byte) (*aeadCipher, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("xchacha: unable to initialize cipher: %w", err)
	}
	return &aeadCipher{aead: aead}, nil
}

func (c *aeadCipher) Seal(dst, nonce, plaintext, aad []byte) ([]byte, error) {
	return c.aead.Seal(dst, nonce, plaintext, aad), nil
}

func (c *aeadCipher) Open(dst, nonce, ciphertext, aad []byte) ([]byte, error) {
	out, err := c.aead.Open(dst, nonce, ciphertext, aad)
	if err != nil {
		return nil, fmt.Errorf("xchacha: authentication failed: %w", err)
	}
	return out, nil
}

func (c *aeadCipher) NonceSize() int { return c.aead.NonceSize() }
func (c *aeadCipher) Overhead() int  { return c.aead.Overhead() }
