package deoxys

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func randomKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, keyLen)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func randomNonce(t *testing.T) []byte {
	t.Helper()
	nonce := make([]byte, NonceSize)
	_, err := rand.Read(nonce)
	require.NoError(t, err)
	return nonce
}

func TestSealOpenRoundTrip(t *testing.T) {
	t.Parallel()

	c, err := New(randomKey(t))
	require.NoError(t, err)

	nonce := randomNonce(t)
	plaintext := []byte("the quick brown fox jumps over the lazy dog")
	aad := []byte("associated data")

	ciphertext, err := c.Seal(nil, nonce, plaintext, aad)
	require.NoError(t, err)
	require.Len(t, ciphertext, len(plaintext)+Overhead)
	require.NotEqual(t, plaintext, ciphertext[:len(plaintext)])

	recovered, err := c.Open(nil, nonce, ciphertext, aad)
	require.NoError(t, err)
	require.Equal(t, plaintext, recovered)
}

func TestSealOpenEmptyPlaintext(t *testing.T) {
	t.Parallel()

	c, err := New(randomKey(t))
	require.NoError(t, err)
	nonce := randomNonce(t)

	ciphertext, err := c.Seal(nil, nonce, nil, nil)
	require.NoError(t, err)
	require.Len(t, ciphertext, Overhead)

	recovered, err := c.Open(nil, nonce, ciphertext, nil)
	require.NoError(t, err)
	require.Empty(t, recovered)
}

func TestSealOpenLargePlaintext(t *testing.T) {
	t.Parallel()

	c, err := New(randomKey(t))
	require.NoError(t, err)
	nonce := randomNonce(t)

	plaintext := bytes.Repeat([]byte{0x5a}, 1<<20+37)

	ciphertext, err := c.Seal(nil, nonce, plaintext, nil)
	require.NoError(t, err)

	recovered, err := c.Open(nil, nonce, ciphertext, nil)
	require.NoError(t, err)
	require.Equal(t, plaintext, recovered)
}

func TestOpenRejectsTamperedCiphertext(t *testing.T) {
	t.Parallel()

	c, err := New(randomKey(t))
	require.NoError(t, err)
	nonce := randomNonce(t)

	ciphertext, err := c.Seal(nil, nonce, []byte("secret payload"), []byte("aad"))
	require.NoError(t, err)

	tampered := bytes.Clone(ciphertext)
	tampered[0] ^= 0xff

	_, err = c.Open(nil, nonce, tampered, []byte("aad"))
	require.Error(t, err)
}

func TestOpenRejectsTamperedTag(t *testing.T) {
	t.Parallel()

	c, err := New(randomKey(t))
	require.NoError(t, err)
	nonce := randomNonce(t)

	ciphertext, err := c.Seal(nil, nonce, []byte("secret payload"), nil)
	require.NoError(t, err)

	tampered := bytes.Clone(ciphertext)
	tampered[len(tampered)-1] ^= 0xff

	_, err = c.Open(nil, nonce, tampered, nil)
	require.Error(t, err)
}

func TestOpenRejectsWrongAAD(t *testing.T) {
	t.Parallel()

	c, err := New(randomKey(t))
	require.NoError(t, err)
	nonce := randomNonce(t)

	ciphertext, err := c.Seal(nil, nonce, []byte("secret payload"), []byte("aad-a"))
	require.NoError(t, err)

	_, err = c.Open(nil, nonce, ciphertext, []byte("aad-b"))
	require.Error(t, err)
}

func TestOpenRejectsWrongKey(t *testing.T) {
	t.Parallel()

	c, err := New(randomKey(t))
	require.NoError(t, err)
	nonce := randomNonce(t)

	ciphertext, err := c.Seal(nil, nonce, []byte("secret payload"), nil)
	require.NoError(t, err)

	other, err := New(randomKey(t))
	require.NoError(t, err)

	_, err = other.Open(nil, nonce, ciphertext, nil)
	require.Error(t, err)
}

func TestOpenRejectsWrongNonce(t *testing.T) {
	t.Parallel()

	c, err := New(randomKey(t))
	require.NoError(t, err)
	nonce := randomNonce(t)

	ciphertext, err := c.Seal(nil, nonce, []byte("secret payload"), nil)
	require.NoError(t, err)

	otherNonce := randomNonce(t)
	_, err = c.Open(nil, otherNonce, ciphertext, nil)
	require.Error(t, err)
}

func TestOpenRejectsShortCiphertext(t *testing.T) {
	t.Parallel()

	c, err := New(randomKey(t))
	require.NoError(t, err)
	nonce := randomNonce(t)

	_, err = c.Open(nil, nonce, make([]byte, Overhead-1), nil)
	require.Error(t, err)
}

func TestNonceSizeAndOverhead(t *testing.T) {
	t.Parallel()

	c, err := New(randomKey(t))
	require.NoError(t, err)
	require.Equal(t, NonceSize, c.NonceSize())
	require.Equal(t, Overhead, c.Overhead())
}

func TestNewRejectsBadKeyLength(t *testing.T) {
	t.Parallel()

	_, err := New(make([]byte, 16))
	require.Error(t, err)
}

func TestSealRejectsBadNonceLength(t *testing.T) {
	t.Parallel()

	c, err := New(randomKey(t))
	require.NoError(t, err)

	_, err = c.Seal(nil, make([]byte, NonceSize-1), []byte("x"), nil)
	require.Error(t, err)
}

func TestDistinctNoncesProduceDistinctCiphertext(t *testing.T) {
	t.Parallel()

	c, err := New(randomKey(t))
	require.NoError(t, err)

	plaintext := []byte("same plaintext every time")
	a, err := c.Seal(nil, randomNonce(t), plaintext, nil)
	require.NoError(t, err)
	b, err := c.Seal(nil, randomNonce(t), plaintext, nil)
	require.NoError(t, err)

	require.NotEqual(t, a, b)
}
