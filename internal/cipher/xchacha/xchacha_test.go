package xchacha

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func randomKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestSealOpenRoundTrip(t *testing.T) {
	t.Parallel()

	c, err := New(randomKey(t))
	require.NoError(t, err)

	nonce := make([]byte, c.NonceSize())
	_, err = rand.Read(nonce)
	require.NoError(t, err)

	plaintext := []byte("the quick brown fox jumps over the lazy dog")
	aad := []byte("associated data")

	ciphertext, err := c.Seal(nil, nonce, plaintext, aad)
	require.NoError(t, err)
	require.Len(t, ciphertext, len(plaintext)+c.Overhead())

	recovered, err := c.Open(nil, nonce, ciphertext, aad)
	require.NoError(t, err)
	require.Equal(t, plaintext, recovered)
}

func TestSealOpenEmptyPlaintext(t *testing.T) {
	t.Parallel()

	c, err := New(randomKey(t))
	require.NoError(t, err)
	nonce := make([]byte, c.NonceSize())

	ciphertext, err := c.Seal(nil, nonce, nil, nil)
	require.NoError(t, err)
	require.Len(t, ciphertext, c.Overhead())

	recovered, err := c.Open(nil, nonce, ciphertext, nil)
	require.NoError(t, err)
	require.Empty(t, recovered)
}

func TestOpenRejectsTamperedCiphertext(t *testing.T) {
	t.Parallel()

	c, err := New(randomKey(t))
	require.NoError(t, err)
	nonce := make([]byte, c.NonceSize())

	ciphertext, err := c.Seal(nil, nonce, []byte("secret payload"), []byte("aad"))
	require.NoError(t, err)

	tampered := bytes.Clone(ciphertext)
	tampered[len(tampered)-1] ^= 0xff

	_, err = c.Open(nil, nonce, tampered, []byte("aad"))
	require.Error(t, err)
}

func TestOpenRejectsWrongAAD(t *testing.T) {
	t.Parallel()

	c, err := New(randomKey(t))
	require.NoError(t, err)
	nonce := make([]byte, c.NonceSize())

	ciphertext, err := c.Seal(nil, nonce, []byte("secret payload"), []byte("aad-a"))
	require.NoError(t, err)

	_, err = c.Open(nil, nonce, ciphertext, []byte("aad-b"))
	require.Error(t, err)
}

func TestOpenRejectsWrongKey(t *testing.T) {
	t.Parallel()

	c, err := New(randomKey(t))
	require.NoError(t, err)
	nonce := make([]byte, c.NonceSize())

	ciphertext, err := c.Seal(nil, nonce, []byte("secret payload"), nil)
	require.NoError(t, err)

	other, err := New(randomKey(t))
	require.NoError(t, err)

	_, err = other.Open(nil, nonce, ciphertext, nil)
	require.Error(t, err)
}

func TestNonceSizeAndOverhead(t *testing.T) {
	t.Parallel()

	c, err := New(randomKey(t))
	require.NoError(t, err)
	require.Equal(t, 24, c.NonceSize())
	require.Equal(t, 16, c.Overhead())
}

func TestNewRejectsBadKeyLength(t *testing.T) {
	t.Parallel()

	_, err := New(make([]byte, 16))
	require.Error(t, err)
}
