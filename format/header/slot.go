package header

import (
	"fmt"

	"github.com/dexios-go/dexios/crypto/primitives"
	"github.com/dexios-go/dexios/dexioserr"
)

// SlotAlgorithm is the fixed AEAD every key slot is wrapped with, independent
// of the algorithm_tag the file content itself uses. Slot wrapping never
// streams, so XChaCha20-Poly1305's 24-byte nonce budget is cheap to spend in
// full rather than reserving STREAM counter bytes.
const SlotAlgorithm = primitives.XChaCha20Poly1305

const (
	slotNonceLen  = 24
	slotSaltLen   = 16
	slotWrappedLen = primitives.KeyLen + 16 // master key + AEAD tag
	slotPadLen    = SlotSize - 1 - slotNonceLen - slotSaltLen - slotWrappedLen

	slotOffInUse   = 0
	slotOffNonce   = slotOffInUse + 1
	slotOffSalt    = slotOffNonce + slotNonceLen
	slotOffWrapped = slotOffSalt + slotSaltLen
	slotOffPad     = slotOffWrapped + slotWrappedLen
)

func init() {
	if slotOffPad+slotPadLen != SlotSize {
		panic("header: slot layout does not add up to SlotSize")
	}
}

// Slot is one of the four independent wrappings of a file's master key. A
// slot in use holds: the salt and KDF-derived key-encryption key's nonce, and
// the master key sealed under that key-encryption key.
type Slot struct {
	InUse            bool
	Nonce            [slotNonceLen]byte
	Salt             [slotSaltLen]byte
	WrappedMasterKey [slotWrappedLen]byte
}

// encode writes the slot's on-wire 96-byte representation into dst, which
// must be exactly SlotSize bytes long.
func (s Slot) encode(dst []byte) {
	if len(dst) != SlotSize {
		panic("header: slot encode buffer must be SlotSize bytes")
	}
	if s.InUse {
		dst[slotOffInUse] = 1
	} else {
		dst[slotOffInUse] = 0
	}
	copy(dst[slotOffNonce:slotOffSalt], s.Nonce[:])
	copy(dst[slotOffSalt:slotOffWrapped], s.Salt[:])
	copy(dst[slotOffWrapped:slotOffPad], s.WrappedMasterKey[:])
	for i := slotOffPad; i < SlotSize; i++ {
		dst[i] = 0
	}
}

// decodeSlot parses one SlotSize-byte region into a Slot.
func decodeSlot(src []byte) (Slot, error) {
	if len(src) != SlotSize {
		return Slot{}, fmt.Errorf("%w: slot region must be %d bytes, got %d", dexioserr.ErrHeaderFormat, SlotSize, len(src))
	}
	var s Slot
	switch src[slotOffInUse] {
	case 0:
		s.InUse = false
	case 1:
		s.InUse = true
	default:
		return Slot{}, fmt.Errorf("%w: slot in_use flag must be 0 or 1, got %d", dexioserr.ErrHeaderFormat, src[slotOffInUse])
	}
	copy(s.Nonce[:], src[slotOffNonce:slotOffSalt])
	copy(s.Salt[:], src[slotOffSalt:slotOffWrapped])
	copy(s.WrappedMasterKey[:], src[slotOffWrapped:slotOffPad])
	return s, nil
}
