// Package keyslot implements the four-slot key management protocol that
// lets a V5+ header be unlocked by any of up to four independent
// passphrases. Each slot wraps the same master key under a different
// passphrase-derived key-encryption key; losing or rotating one passphrase
// never requires re-encrypting the file's content.
package keyslot

import (
	"fmt"

	"github.com/dexios-go/dexios/crypto/kdf"
	"github.com/dexios-go/dexios/crypto/primitives"
	"github.com/dexios-go/dexios/dexioserr"
	"github.com/dexios-go/dexios/format/header"
	"github.com/dexios-go/dexios/secret"
)

// Add wraps masterKey under a key-encryption key derived from passphrase and
// installs it into the first free slot of h. It returns the slot index used.
// h must be a V5+ header (h.Version.HasSlotTable()).
func Add(h *header.Header, passphrase []byte, masterKey *secret.Container) (int, error) {
	if !h.Version.HasSlotTable() {
		return 0, fmt.Errorf("%w: header version %d carries no slot table", dexioserr.ErrHeaderFormat, h.Version)
	}

	idx := -1
	for i, s := range h.Slots {
		if !s.InUse {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, dexioserr.ErrNoFreeSlot
	}

	if err := wrapInto(h, idx, passphrase, masterKey); err != nil {
		return 0, err
	}
	return idx, nil
}

// wrapInto derives a key-encryption key from passphrase, wraps masterKey
// under it, and installs the result directly into h.Slots[idx], regardless
// of whether that slot was previously free or in use.
func wrapInto(h *header.Header, idx int, passphrase []byte, masterKey *secret.Container) error {
	kdfVersion, err := h.Version.KDFVersion()
	if err != nil {
		return err
	}

	salt, err := primitives.GenSalt()
	if err != nil {
		return fmt.Errorf("%w: generating slot salt: %w", dexioserr.ErrIO, err)
	}
	nonce, err := primitives.GenNonce(header.SlotAlgorithm, primitives.MemoryMode)
	if err != nil {
		return fmt.Errorf("%w: generating slot nonce: %w", dexioserr.ErrIO, err)
	}

	kek, err := kdf.Derive(passphrase, salt, kdfVersion)
	if err != nil {
		return err
	}
	defer kek.Destroy()

	cipher, err := primitives.New(header.SlotAlgorithm, kek.Bytes())
	if err != nil {
		return err
	}

	wrapped, err := cipher.Seal(nil, nonce, masterKey.Bytes(), nil)
	if err != nil {
		return fmt.Errorf("%w: wrapping master key: %w", dexioserr.ErrKeyInit, err)
	}

	var slot header.Slot
	slot.InUse = true
	copy(slot.Nonce[:], nonce)
	copy(slot.Salt[:], salt)
	copy(slot.WrappedMasterKey[:], wrapped)
	h.Slots[idx] = slot

	return nil
}

// Del clears slot index, refusing to remove the last in-use slot: a header
// with zero usable slots could never be opened again.
func Del(h *header.Header, index int) error {
	if err := checkIndex(index); err != nil {
		return err
	}
	if !h.Slots[index].InUse {
		return nil
	}

	inUse := 0
	for _, s := range h.Slots {
		if s.InUse {
			inUse++
		}
	}
	if inUse <= 1 {
		return dexioserr.ErrLastKey
	}

	h.Slots[index] = header.Slot{}
	return nil
}

// Verify tries passphrase against every in-use slot in h and returns the
// recovered master key and the slot index that unlocked it. It fails with
// ErrAuthenticationFailed if passphrase matches none of them.
func Verify(h header.Header, passphrase []byte) (*secret.Container, int, error) {
	if !h.Version.HasSlotTable() {
		return nil, 0, fmt.Errorf("%w: header version %d carries no slot table", dexioserr.ErrHeaderFormat, h.Version)
	}

	kdfVersion, err := h.Version.KDFVersion()
	if err != nil {
		return nil, 0, err
	}

	var lastErr error
	for i, s := range h.Slots {
		if !s.InUse {
			continue
		}

		masterKey, err := tryUnwrap(s, passphrase, kdfVersion)
		if err != nil {
			lastErr = err
			continue
		}
		return masterKey, i, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no in-use slots")
	}
	return nil, 0, fmt.Errorf("%w: %w", dexioserr.ErrAuthenticationFailed, lastErr)
}

// Change re-wraps the master key recovered by oldPassphrase under
// newPassphrase, replacing the slot that oldPassphrase unlocked in place
// (same index, fresh salt and nonce).
func Change(h *header.Header, oldPassphrase, newPassphrase []byte) error {
	masterKey, idx, err := Verify(*h, oldPassphrase)
	if err != nil {
		return err
	}
	defer masterKey.Destroy()

	// Re-wrap directly into idx rather than clearing it and calling Add: Add
	// always picks the lowest free index, which would not necessarily be idx
	// once it was cleared (another slot may already be free at a lower
	// index), replacing the wrong slot instead of the one oldPassphrase
	// unlocked.
	return wrapInto(h, idx, newPassphrase, masterKey)
}

func tryUnwrap(s header.Slot, passphrase []byte, kdfVersion kdf.Version) (*secret.Container, error) {
	kek, err := kdf.Derive(passphrase, s.Salt[:], kdfVersion)
	if err != nil {
		return nil, err
	}
	defer kek.Destroy()

	cipher, err := primitives.New(header.SlotAlgorithm, kek.Bytes())
	if err != nil {
		return nil, err
	}

	plaintext, err := cipher.Open(nil, s.Nonce[:], s.WrappedMasterKey[:], nil)
	if err != nil {
		return nil, fmt.Errorf("slot wrapping did not authenticate")
	}

	return secret.From(plaintext), nil
}

func checkIndex(index int) error {
	if index < 0 || index >= header.SlotCount {
		return fmt.Errorf("%w: slot index %d out of range [0,%d)", dexioserr.ErrHeaderFormat, index, header.SlotCount)
	}
	return nil
}
