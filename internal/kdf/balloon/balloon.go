// Package balloon implements the Balloon memory-hard password hashing
// scheme (Boneh, Corrigan-Gibbs, Schechter) with BLAKE3 as its underlying
// compression function. This is the KDF for V4 and V5 headers.
package balloon

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/zeebo/blake3"
)

// blockSize is the width of one buffer block: one BLAKE3 digest.
const blockSize = 32

// OutputLen is the fixed symmetric key size every Dexios KDF produces.
const OutputLen = 32

// Params bundles the Balloon cost parameters for one header version.
type Params struct {
	SCost uint64 // space cost: number of blocks in the working buffer
	TCost uint64 // time cost: number of mixing rounds over the buffer
	Delta uint64 // number of pseudo-random neighbors mixed per block per round
}

// Derive runs Balloon hashing over passphrase and salt with params, returning
// exactly OutputLen bytes: the last buffer block after t_cost mixing rounds.
func Derive(passphrase, salt []byte, p Params) ([]byte, error) {
	if p.SCost < 1 {
		return nil, fmt.Errorf("balloon: s_cost must be >= 1")
	}
	if p.Delta < 1 {
		return nil, fmt.Errorf("balloon: delta must be >= 1")
	}
	if len(salt) == 0 {
		return nil, fmt.Errorf("balloon: salt must not be empty")
	}

	var cnt uint64
	buf := make([][]byte, p.SCost)

	// Expand step: fill the buffer by hashing each block from the previous
	// one, seeded by the passphrase and salt.
	buf[0] = hashBlock(&cnt, passphrase, salt)
	for m := uint64(1); m < p.SCost; m++ {
		buf[m] = hashBlock(&cnt, buf[m-1])
	}

	// Mix step: t_cost passes, each block rehashed against its predecessor
	// and delta pseudo-random blocks chosen from the whole buffer.
	for t := uint64(0); t < p.TCost; t++ {
		for m := uint64(0); m < p.SCost; m++ {
			prev := buf[(m+p.SCost-1)%p.SCost]
			buf[m] = hashBlock(&cnt, prev, buf[m])
			for i := uint64(0); i < p.Delta; i++ {
				other := neighborIndex(t, m, i, salt, p.SCost)
				buf[m] = hashBlock(&cnt, buf[m], buf[other])
			}
		}
	}

	out := make([]byte, OutputLen)
	copy(out, buf[p.SCost-1])
	return out, nil
}

// hashBlock hashes a monotonic counter (preventing identical inputs from
// producing identical outputs across calls) followed by the given chunks,
// and returns one block's worth of digest.
func hashBlock(cnt *uint64, chunks ...[]byte) []byte {
	h := blake3.New()

	var c [8]byte
	binary.LittleEndian.PutUint64(c[:], *cnt)
	*cnt++
	h.Write(c[:]) //nolint:errcheck

	for _, chunk := range chunks {
		h.Write(chunk) //nolint:errcheck
	}

	sum := h.Sum(nil)
	return sum[:blockSize]
}

// neighborIndex picks the m-th block's i-th pseudo-random neighbor for round
// t, derived from (t, m, i, salt) rather than from the buffer contents, so
// the access pattern is data-independent (cache-timing resistant).
func neighborIndex(t, m, i uint64, salt []byte, sCost uint64) uint64 {
	h := blake3.New()

	var idx [24]byte
	binary.LittleEndian.PutUint64(idx[0:8], t)
	binary.LittleEndian.PutUint64(idx[8:16], m)
	binary.LittleEndian.PutUint64(idx[16:24], i)
	h.Write(idx[:])  //nolint:errcheck
	h.Write(salt)    //nolint:errcheck

	sum := h.Sum(nil)
	n := new(big.Int).SetBytes(sum)
	mod := new(big.Int).SetUint64(sCost)
	return new(big.Int).Mod(n, mod).Uint64()
}
