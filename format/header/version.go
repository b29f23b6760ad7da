package header

import (
	"fmt"

	"github.com/dexios-go/dexios/crypto/kdf"
	"github.com/dexios-go/dexios/crypto/primitives"
	"github.com/dexios-go/dexios/dexioserr"
)

// Version identifies the on-disk header layout. It is a pure enum: every
// version-dependent detail (wire magic, whether a slot table follows the
// base header, which KDF applies, which algorithms are legal) lives in the
// versionInfo table below, never hard-coded per call site.
type Version uint16

const (
	// V3 is a legacy, single-key header with no slot table. Argon2id KDF.
	// Read-compatibility only: this implementation never writes V3.
	V3 Version = 3
	// V4 is a legacy, single-key header with no slot table. Balloon/BLAKE3
	// KDF. Read-compatibility only: this implementation never writes V4.
	V4 Version = 4
	// V5 is the current header: a four-slot key table appended after the
	// 64-byte base header. Balloon/BLAKE3 KDF. The only version this
	// implementation writes.
	V5 Version = 5
)

// BaseHeaderSize is the fixed, on-wire size of the base header, before any
// slot table.
const BaseHeaderSize = 64

// SlotSize is the fixed, on-wire size of one key slot.
const SlotSize = 96

// SlotCount is the fixed number of key slots a V5+ header carries.
const SlotCount = 4

// SlotTableSize is the total size of the appended slot table.
const SlotTableSize = SlotSize * SlotCount

type versionInfo struct {
	magic         uint16
	hasSlotTable  bool
	kdf           kdf.Version
	allowedAlgos  map[primitives.Algorithm]bool
}

// magics are this implementation's own choice: spec.md does not fix the
// source format's exact magic bytes, only that the version tag is a
// big-endian magic distinguishing V3/V4/V5. Chosen to never collide with
// common file magic numbers.
var versions = map[Version]versionInfo{
	V3: {
		magic:        0xDE01,
		hasSlotTable: false,
		kdf:          kdf.V3,
		allowedAlgos: map[primitives.Algorithm]bool{
			primitives.XChaCha20Poly1305: true,
			primitives.Aes256Gcm:         true,
		},
	},
	V4: {
		magic:        0xDE02,
		hasSlotTable: false,
		kdf:          kdf.V4,
		allowedAlgos: map[primitives.Algorithm]bool{
			primitives.XChaCha20Poly1305: true,
			primitives.Aes256Gcm:         true,
			primitives.Deoxys2:           true,
		},
	},
	V5: {
		magic:        0xDE03,
		hasSlotTable: true,
		kdf:          kdf.V5,
		allowedAlgos: map[primitives.Algorithm]bool{
			primitives.XChaCha20Poly1305: true,
			primitives.Aes256Gcm:         true,
			primitives.Deoxys2:           true,
		},
	},
}

var magicToVersion = func() map[uint16]Version {
	m := make(map[uint16]Version, len(versions))
	for v, info := range versions {
		m[info.magic] = v
	}
	return m
}()

func infoFor(v Version) (versionInfo, error) {
	info, ok := versions[v]
	if !ok {
		return versionInfo{}, fmt.Errorf("%w: unsupported header version %d", dexioserr.ErrHeaderFormat, v)
	}
	return info, nil
}

// versionFromMagic resolves the on-wire magic to a Version, failing with
// ErrHeaderFormat on anything unrecognized.
func versionFromMagic(magic uint16) (Version, error) {
	v, ok := magicToVersion[magic]
	if !ok {
		return 0, fmt.Errorf("%w: unknown header magic 0x%04x", dexioserr.ErrHeaderFormat, magic)
	}
	return v, nil
}

// HasSlotTable reports whether this version's layout carries a four-slot
// key table after the base header.
func (v Version) HasSlotTable() bool {
	info, err := infoFor(v)
	if err != nil {
		return false
	}
	return info.hasSlotTable
}

// KDFVersion returns the crypto/kdf.Version this header version derives
// keys with.
func (v Version) KDFVersion() (kdf.Version, error) {
	info, err := infoFor(v)
	if err != nil {
		return 0, err
	}
	return info.kdf, nil
}

// AllowsAlgorithm reports whether algo is a legal algorithm_tag value for
// this header version.
func (v Version) AllowsAlgorithm(algo primitives.Algorithm) bool {
	info, err := infoFor(v)
	if err != nil {
		return false
	}
	return info.allowedAlgos[algo]
}
