// Package header codes the Dexios file header: a fixed 64-byte base region
// (version, algorithm, mode, nonce) and, for V5+, a four-slot key table
// appended immediately after it. Every critical field of the base header is
// also the associated data authenticated with the file's content segments;
// see AAD.
package header

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/dexios-go/dexios/dexioserr"
)

// Serialize renders h as its on-wire bytes: BaseHeaderSize bytes, plus
// SlotTableSize more when h.Version carries a slot table.
func Serialize(h Header) ([]byte, error) {
	if err := h.validate(); err != nil {
		return nil, err
	}
	info, err := infoFor(h.Version)
	if err != nil {
		return nil, err
	}

	size := BaseHeaderSize
	if info.hasSlotTable {
		size += SlotTableSize
	}
	buf := make([]byte, size)

	binary.BigEndian.PutUint16(buf[offVersionTag:], info.magic)
	binary.BigEndian.PutUint16(buf[offAlgoTag:], uint16(h.Algorithm))
	binary.BigEndian.PutUint16(buf[offModeTag:], uint16(h.Mode))
	binary.LittleEndian.PutUint16(buf[offNonceLenEnc:], h.NonceLenEncoded())
	copy(buf[offSalt:offSalt+saltLen], h.Salt[:])
	copy(buf[offNonce:offNonce+len(h.Nonce)], h.Nonce)
	// buf[offNonce+len(h.Nonce) : offReserved] and buf[offReserved:] are
	// already zero from make().

	if info.hasSlotTable {
		for i, slot := range h.Slots {
			off := BaseHeaderSize + i*SlotSize
			slot.encode(buf[off : off+SlotSize])
		}
	}

	return buf, nil
}

// Deserialize parses the on-wire bytes of a Dexios file header from src,
// returning the decoded Header and the number of bytes it consumed.
func Deserialize(src []byte) (Header, int, error) {
	if len(src) < BaseHeaderSize {
		return Header{}, 0, fmt.Errorf("%w: header truncated: need at least %d bytes, got %d", dexioserr.ErrHeaderFormat, BaseHeaderSize, len(src))
	}

	magic := binary.BigEndian.Uint16(src[offVersionTag:])
	version, err := versionFromMagic(magic)
	if err != nil {
		return Header{}, 0, err
	}
	info, err := infoFor(version)
	if err != nil {
		return Header{}, 0, err
	}

	total := BaseHeaderSize
	if info.hasSlotTable {
		total += SlotTableSize
	}
	if len(src) < total {
		return Header{}, 0, fmt.Errorf("%w: header truncated: version %d needs %d bytes, got %d", dexioserr.ErrHeaderFormat, version, total, len(src))
	}

	h := Header{
		Version:   version,
		Algorithm: primitiveAlgorithm(binary.BigEndian.Uint16(src[offAlgoTag:])),
		Mode:      primitiveMode(binary.BigEndian.Uint16(src[offModeTag:])),
	}
	nonceLen := binary.LittleEndian.Uint16(src[offNonceLenEnc:])
	if int(nonceLen) > nonceFieldLen {
		return Header{}, 0, fmt.Errorf("%w: encoded nonce length %d exceeds field width %d", dexioserr.ErrNonceLength, nonceLen, nonceFieldLen)
	}
	copy(h.Salt[:], src[offSalt:offSalt+saltLen])
	h.Nonce = append([]byte(nil), src[offNonce:offNonce+int(nonceLen)]...)

	if info.hasSlotTable {
		for i := 0; i < SlotCount; i++ {
			off := BaseHeaderSize + i*SlotSize
			slot, err := decodeSlot(src[off : off+SlotSize])
			if err != nil {
				return Header{}, 0, err
			}
			h.Slots[i] = slot
		}
	}

	if err := h.validate(); err != nil {
		return Header{}, 0, err
	}

	return h, total, nil
}

// Read decodes one header from r, which must be positioned at the start of
// the file.
func Read(r io.Reader) (Header, error) {
	// Read the base header first: it alone tells us whether a slot table
	// follows and how large it is.
	base := make([]byte, BaseHeaderSize)
	if _, err := io.ReadFull(r, base); err != nil {
		return Header{}, fmt.Errorf("%w: reading base header: %w", dexioserr.ErrIO, err)
	}

	magic := binary.BigEndian.Uint16(base[offVersionTag:])
	version, err := versionFromMagic(magic)
	if err != nil {
		return Header{}, err
	}
	info, err := infoFor(version)
	if err != nil {
		return Header{}, err
	}

	full := base
	if info.hasSlotTable {
		slots := make([]byte, SlotTableSize)
		if _, err := io.ReadFull(r, slots); err != nil {
			return Header{}, fmt.Errorf("%w: reading slot table: %w", dexioserr.ErrIO, err)
		}
		full = append(full, slots...)
	}

	h, _, err := Deserialize(full)
	return h, err
}

// Write serializes h and writes it to w in full.
func Write(w io.Writer, h Header) error {
	buf, err := Serialize(h)
	if err != nil {
		return err
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("%w: writing header: %w", dexioserr.ErrIO, err)
	}
	return nil
}

// Size returns the total on-wire size of a header of the given version,
// including its slot table if any.
func Size(version Version) (int, error) {
	info, err := infoFor(version)
	if err != nil {
		return 0, err
	}
	if info.hasSlotTable {
		return BaseHeaderSize + SlotTableSize, nil
	}
	return BaseHeaderSize, nil
}

// AAD returns the span of h's base header that every content segment
// authenticates as associated data: version_tag, algorithm_tag, mode_tag,
// nonce_len_encoded, salt and the nonce field, in that order. It does not
// include the trailing reserved padding or the slot table, which is
// authenticated independently per slot.
func AAD(h Header) ([]byte, error) {
	buf, err := Serialize(h)
	if err != nil {
		return nil, err
	}
	return buf[:aadLen], nil
}
