// Package aesgcm wraps the standard library's AES-256-GCM construction
// behind the primitives.Cipher interface.
package aesgcm

import (
	"crypto/aes"
	stdcipher "crypto/cipher"
	"fmt"
)

type aeadCipher struct {
	aead stdcipher.AEAD
}

// New constructs an AES-256-GCM AEAD keyed with key, which must be 32 bytes
// long.
func New(key []byte) (*aeadCipher, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aesgcm: unable to initialize block cipher: %w", err)
	}
	aead, err := stdcipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("aesgcm: unable to initialize AEAD mode: %w", err)
	}
	return &aeadCipher{aead: aead}, nil
}

func (c *aeadCipher) Seal(dst, nonce, plaintext, aad []byte) ([]byte, error) {
	return c.aead.Seal(dst, nonce, plaintext, aad), nil
}

func (c *aeadCipher) Open(dst, nonce, ciphertext, aad []byte) ([]byte, error) {
	out, err := c.aead.Open(dst, nonce, ciphertext, aad)
	if err != nil {
		return nil, fmt.Errorf("aesgcm: authentication failed: %w", err)
	}
	return out, nil
}

func (c *aeadCipher) NonceSize() int { return c.aead.NonceSize() }
func (c *aeadCipher) Overhead() int  { return c.aead.Overhead() }
