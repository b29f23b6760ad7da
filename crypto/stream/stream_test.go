package stream

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dexios-go/dexios/crypto/primitives"
	"github.com/dexios-go/dexios/dexioserr"
)

func newTestCipher(t *testing.T) (primitives.Cipher, []byte) {
	t.Helper()

	key := make([]byte, primitives.KeyLen)
	_, err := rand.Read(key)
	require.NoError(t, err)

	cipher, err := primitives.New(primitives.XChaCha20Poly1305, key)
	require.NoError(t, err)

	baseNonceLen, err := primitives.NonceLen(primitives.XChaCha20Poly1305, primitives.StreamMode)
	require.NoError(t, err)
	baseNonce := make([]byte, baseNonceLen)
	_, err = rand.Read(baseNonce)
	require.NoError(t, err)

	return cipher, baseNonce
}

func roundTrip(t *testing.T, plaintext []byte) []byte {
	t.Helper()

	cipher, baseNonce := newTestCipher(t)
	aad := []byte("header aad bytes")

	var ciphertext bytes.Buffer
	require.NoError(t, Encrypt(&ciphertext, bytes.NewReader(plaintext), cipher, baseNonce, aad))

	var recovered bytes.Buffer
	require.NoError(t, Decrypt(&recovered, bytes.NewReader(ciphertext.Bytes()), cipher, baseNonce, aad))
	require.Equal(t, plaintext, recovered.Bytes())

	return ciphertext.Bytes()
}

func TestRoundTripEmpty(t *testing.T) {
	t.Parallel()
	roundTrip(t, nil)
}

func TestRoundTripSmall(t *testing.T) {
	t.Parallel()
	roundTrip(t, []byte("a short message"))
}

func TestRoundTripExactlyOneChunk(t *testing.T) {
	t.Parallel()
	roundTrip(t, bytes.Repeat([]byte{0x42}, ChunkSize))
}

func TestRoundTripMultipleChunks(t *testing.T) {
	t.Parallel()
	plaintext := bytes.Repeat([]byte{0x07}, ChunkSize*3+17)
	ciphertext := roundTrip(t, plaintext)

	cipher, _ := newTestCipher(t)
	// 3 full chunks + 1 partial final chunk, each with its own tag.
	expectedSegments := 4
	expectedSize := ChunkSize*3 + 17 + expectedSegments*cipher.Overhead()
	require.Equal(t, expectedSize, len(ciphertext))
}

func TestDecryptRejectsTamperedChunk(t *testing.T) {
	t.Parallel()

	cipher, baseNonce := newTestCipher(t)
	aad := []byte("aad")
	plaintext := bytes.Repeat([]byte{0x11}, ChunkSize+10)

	var ciphertext bytes.Buffer
	require.NoError(t, Encrypt(&ciphertext, bytes.NewReader(plaintext), cipher, baseNonce, aad))

	tampered := ciphertext.Bytes()
	tampered[0] ^= 0xFF

	var recovered bytes.Buffer
	err := Decrypt(&recovered, bytes.NewReader(tampered), cipher, baseNonce, aad)
	require.ErrorIs(t, err, dexioserr.ErrDecrypt)
}

func TestDecryptRejectsWrongAAD(t *testing.T) {
	t.Parallel()

	cipher, baseNonce := newTestCipher(t)
	plaintext := []byte("some content")

	var ciphertext bytes.Buffer
	require.NoError(t, Encrypt(&ciphertext, bytes.NewReader(plaintext), cipher, baseNonce, []byte("correct aad")))

	var recovered bytes.Buffer
	err := Decrypt(&recovered, bytes.NewReader(ciphertext.Bytes()), cipher, baseNonce, []byte("wrong aad"))
	require.ErrorIs(t, err, dexioserr.ErrDecrypt)
}

func TestDecryptRejectsTruncatedStream(t *testing.T) {
	t.Parallel()

	cipher, baseNonce := newTestCipher(t)
	aad := []byte("aad")
	plaintext := bytes.Repeat([]byte{0x22}, ChunkSize+10)

	var ciphertext bytes.Buffer
	require.NoError(t, Encrypt(&ciphertext, bytes.NewReader(plaintext), cipher, baseNonce, aad))

	truncated := ciphertext.Bytes()[:ChunkSize+cipher.Overhead()-1]

	var recovered bytes.Buffer
	err := Decrypt(&recovered, bytes.NewReader(truncated), cipher, baseNonce, aad)
	require.Error(t, err)
}

func TestDecryptRejectsReorderedChunks(t *testing.T) {
	t.Parallel()

	cipher, baseNonce := newTestCipher(t)
	aad := []byte("aad")
	plaintext := bytes.Repeat([]byte{0x33}, ChunkSize*2+5)

	var ciphertext bytes.Buffer
	require.NoError(t, Encrypt(&ciphertext, bytes.NewReader(plaintext), cipher, baseNonce, aad))

	segmentSize := ChunkSize + cipher.Overhead()
	raw := ciphertext.Bytes()
	reordered := append([]byte{}, raw[segmentSize:2*segmentSize]...)
	reordered = append(reordered, raw[:segmentSize]...)
	reordered = append(reordered, raw[2*segmentSize:]...)

	var recovered bytes.Buffer
	err := Decrypt(&recovered, bytes.NewReader(reordered), cipher, baseNonce, aad)
	require.ErrorIs(t, err, dexioserr.ErrDecrypt)
}
