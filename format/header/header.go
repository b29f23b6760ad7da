package header

import (
	"fmt"

	"github.com/dexios-go/dexios/crypto/primitives"
	"github.com/dexios-go/dexios/dexioserr"
)

// Base header field offsets and widths. Every Version shares this layout;
// only whether a slot table follows it differs.
const (
	offVersionTag  = 0
	offAlgoTag     = offVersionTag + 2
	offModeTag     = offAlgoTag + 2
	offNonceLenEnc = offModeTag + 2
	offSalt        = offNonceLenEnc + 2
	saltLen        = 16
	offNonce       = offSalt + saltLen
	nonceFieldLen  = 24 // wide enough for every algorithm's native nonce
	offReserved    = offNonce + nonceFieldLen
	reservedLen    = BaseHeaderSize - offReserved

	// aadLen is the span of the base header that is authenticated as AAD
	// with every sealed segment: everything except the trailing reserved
	// padding.
	aadLen = offReserved
)

func init() {
	if offReserved+reservedLen != BaseHeaderSize {
		panic("header: base header layout does not add up to BaseHeaderSize")
	}
}

// Header is the decoded form of a Dexios file's base header, plus its slot
// table when the version carries one (V5+). Salt and Nonce here describe the
// main content cipher: for V3/V4 the salt doubles as the sole KDF salt; for
// V5+ the KDF salt lives per-slot instead, and this field is zero.
type Header struct {
	Version Version
	Algorithm primitives.Algorithm
	Mode    primitives.Mode
	Salt    [saltLen]byte
	Nonce   []byte // length == NonceLenEncoded == primitives.NonceLen(Algorithm, Mode)
	Slots   [SlotCount]Slot
}

// NonceLenEncoded is the on-wire nonce_len_encoded field value: the exact
// number of meaningful bytes at the front of the fixed nonce region.
func (h Header) NonceLenEncoded() uint16 {
	return uint16(len(h.Nonce))
}

// validate checks internal consistency before encoding or after decoding.
func (h Header) validate() error {
	if !h.Algorithm.Valid() {
		return fmt.Errorf("%w: invalid algorithm tag %d", dexioserr.ErrHeaderFormat, h.Algorithm)
	}
	if !h.Mode.Valid() {
		return fmt.Errorf("%w: invalid mode tag %d", dexioserr.ErrHeaderFormat, h.Mode)
	}
	if !h.Version.AllowsAlgorithm(h.Algorithm) {
		return fmt.Errorf("%w: version %d does not allow algorithm %s", dexioserr.ErrHeaderFormat, h.Version, h.Algorithm)
	}
	wantNonceLen, err := primitives.NonceLen(h.Algorithm, h.Mode)
	if err != nil {
		return err
	}
	if len(h.Nonce) != wantNonceLen {
		return fmt.Errorf("%w: %s", dexioserr.ErrNonceLength, fmt.Sprintf("expected %d nonce bytes for %s in mode %d, got %d", wantNonceLen, h.Algorithm, h.Mode, len(h.Nonce)))
	}
	if len(h.Nonce) > nonceFieldLen {
		return fmt.Errorf("%w: nonce of %d bytes exceeds reserved header field of %d bytes", dexioserr.ErrNonceLength, len(h.Nonce), nonceFieldLen)
	}
	return nil
}
