// Package stream implements the STREAM-LE31 construction: a sequence of
// fixed-size plaintext chunks, each sealed under the same key with a nonce
// derived from a per-file base nonce, a little-endian chunk counter and a
// one-byte flag marking the final chunk. Binding the counter and the final
// flag into the nonce itself (rather than transmitting them) makes chunk
// reordering, truncation and duplication all fail authentication.
package stream

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/dexios-go/dexios/crypto/primitives"
	"github.com/dexios-go/dexios/dexioserr"
)

// ChunkSize is the fixed amount of plaintext sealed per segment. Only the
// final segment may hold less.
const ChunkSize = 1 << 20 // 1 MiB

const (
	counterLen = 4
	flagLen    = 1
	// reserved is how many bytes of the cipher's native nonce are spent on
	// the counter and final-block flag, rather than drawn from the CSPRNG.
	reserved = counterLen + flagLen
)

// buildNonce reconstructs the per-segment nonce from the file's base nonce
// (native nonce length minus reserved bytes) plus the segment's counter and
// final-chunk flag.
func buildNonce(base []byte, counter uint32, last bool) []byte {
	nonce := make([]byte, len(base)+reserved)
	copy(nonce, base)
	binary.LittleEndian.PutUint32(nonce[len(base):], counter)
	if last {
		nonce[len(base)+counterLen] = 1
	}
	return nonce
}

// Encrypt reads plaintext from r in ChunkSize segments and writes the sealed
// ciphertext segments to w, each segment's tag included. aad is authenticated
// with every segment (the header's critical fields); baseNonce must be
// exactly NativeNonceLen(algo)-5 bytes, as produced for StreamMode.
func Encrypt(w io.Writer, r io.Reader, cipher primitives.Cipher, baseNonce, aad []byte) error {
	br := bufio.NewReaderSize(r, ChunkSize+1)

	var counter uint32
	plaintext := make([]byte, ChunkSize)
	for {
		n, readErr := io.ReadFull(br, plaintext)
		if readErr != nil && readErr != io.ErrUnexpectedEOF && readErr != io.EOF {
			return fmt.Errorf("%w: reading plaintext chunk: %w", dexioserr.ErrIO, readErr)
		}

		last := n < ChunkSize
		if !last {
			if _, peekErr := br.Peek(1); peekErr == io.EOF {
				last = true
			}
		}

		nonce := buildNonce(baseNonce, counter, last)
		ciphertext, err := cipher.Seal(nil, nonce, plaintext[:n], aad)
		if err != nil {
			return fmt.Errorf("%w: sealing chunk %d: %w", dexioserr.ErrDecrypt, counter, err)
		}
		if _, err := w.Write(ciphertext); err != nil {
			return fmt.Errorf("%w: writing sealed chunk %d: %w", dexioserr.ErrIO, counter, err)
		}

		counter++
		if last {
			return nil
		}
	}
}

// Decrypt is the inverse of Encrypt: it reads sealed segments from r,
// verifies and decrypts each, and writes the recovered plaintext to w. It
// fails with ErrDecrypt on the first segment whose tag does not verify, or if
// the stream ends mid-segment or without ever presenting a final-flagged
// chunk.
func Decrypt(w io.Writer, r io.Reader, cipher primitives.Cipher, baseNonce, aad []byte) error {
	segmentSize := ChunkSize + cipher.Overhead()
	br := bufio.NewReaderSize(r, segmentSize+1)

	var counter uint32
	sawFinal := false
	segment := make([]byte, segmentSize)
	for {
		n, readErr := io.ReadFull(br, segment)
		if readErr == io.EOF && n == 0 {
			break
		}
		if readErr != nil && readErr != io.ErrUnexpectedEOF && readErr != io.EOF {
			return fmt.Errorf("%w: reading sealed chunk %d: %w", dexioserr.ErrIO, counter, readErr)
		}
		if n < cipher.Overhead() {
			return fmt.Errorf("%w: truncated chunk %d: %d bytes is shorter than the authentication tag", dexioserr.ErrDecrypt, counter, n)
		}

		last := n < segmentSize
		if !last {
			if _, peekErr := br.Peek(1); peekErr == io.EOF {
				last = true
			}
		}

		nonce := buildNonce(baseNonce, counter, last)
		plaintext, err := cipher.Open(nil, nonce, segment[:n], aad)
		if err != nil {
			return fmt.Errorf("%w: chunk %d", dexioserr.ErrDecrypt, counter)
		}
		if _, err := w.Write(plaintext); err != nil {
			return fmt.Errorf("%w: writing decrypted chunk %d: %w", dexioserr.ErrIO, counter, err)
		}

		counter++
		if last {
			sawFinal = true
			break
		}
	}

	if !sawFinal {
		return fmt.Errorf("%w: stream ended without a final chunk", dexioserr.ErrDecrypt)
	}
	return nil
}
