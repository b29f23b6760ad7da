package primitives

import "fmt"

// SealValue seals a small, finite plaintext in a single AEAD call. It is
// used for master-key wrapping inside key slots, never for file bodies.
func SealValue(c Cipher, nonce, plaintext, aad []byte) ([]byte, error) {
	if len(nonce) != c.NonceSize() {
		return nil, fmt.Errorf("primitives: nonce must be %d bytes, got %d", c.NonceSize(), len(nonce))
	}
	out, err := c.Seal(nil, nonce, plaintext, aad)
	if err != nil {
		return nil, fmt.Errorf("primitives: seal failed: %w", err)
	}
	return out, nil
}

// OpenValue authenticates and decrypts a value sealed by SealValue.
func OpenValue(c Cipher, nonce, ciphertext, aad []byte) ([]byte, error) {
	if len(nonce) != c.NonceSize() {
		return nil, fmt.Errorf("primitives: nonce must be %d bytes, got %d", c.NonceSize(), len(nonce))
	}
	out, err := c.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, fmt.Errorf("primitives: open failed: %w", err)
	}
	return out, nil
}
