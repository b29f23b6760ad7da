// Package dexioserr defines the sentinel errors surfaced by every Dexios
// component. Callers use errors.Is against these values; no error returned
// by this module ever embeds a passphrase, a derived key or the master key.
package dexioserr

import "errors"

var (
	// ErrIO marks a read/write/seek failure on an external file.
	ErrIO = errors.New("dexios: io error")
	// ErrHeaderFormat marks an unknown version/algorithm/mode tag, a short
	// read, or an inconsistent slot table.
	ErrHeaderFormat = errors.New("dexios: invalid header format")
	// ErrKDF marks a KDF parameter or implementation failure.
	ErrKDF = errors.New("dexios: key derivation failed")
	// ErrKeyInit marks a programmer error: wrong key length passed to a
	// cipher constructor.
	ErrKeyInit = errors.New("dexios: invalid key length")
	// ErrNonceLength marks a programmer error: wrong nonce length passed to
	// a cipher operation.
	ErrNonceLength = errors.New("dexios: invalid nonce length")
	// ErrDecrypt marks an AEAD authentication failure: wrong key, tampered
	// data, or truncation.
	ErrDecrypt = errors.New("dexios: decryption failed")
	// ErrAuthenticationFailed marks that no populated slot authenticated the
	// supplied passphrase.
	ErrAuthenticationFailed = errors.New("dexios: authentication failed")
	// ErrNoFreeSlot marks a key-add attempt against a full slot table.
	ErrNoFreeSlot = errors.New("dexios: no free key slot")
	// ErrLastKey marks a key-del attempt against the sole populated slot.
	ErrLastKey = errors.New("dexios: refusing to delete the last key")
	// ErrOutputExists marks a refusal to overwrite an existing file without
	// --force.
	ErrOutputExists = errors.New("dexios: output file already exists")
)
