package header

import (
	"bytes"
	"fmt"
	"os"

	"github.com/dexios-go/dexios/dexioserr"
	"github.com/dexios-go/dexios/ioutil/atomic"
)

// Dump writes the header found at the start of srcPath to headerPath, as raw
// bytes, leaving srcPath untouched. It is the inverse of Restore.
func Dump(srcPath, headerPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("%w: opening %q: %w", dexioserr.ErrIO, srcPath, err)
	}
	defer src.Close() //nolint:errcheck

	h, err := Read(src)
	if err != nil {
		return err
	}
	raw, err := Serialize(h)
	if err != nil {
		return err
	}

	if err := atomic.WriteFile(headerPath, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("%w: writing header to %q: %w", dexioserr.ErrIO, headerPath, err)
	}
	return nil
}

// Strip zeros the header (and slot table, if any) at the front of srcPath in
// place, leaving the file's length and the content segments that follow
// untouched. The stripped header is not recoverable unless it was separately
// Dumped first. It is the inverse of Restore.
func Strip(srcPath string) error {
	f, err := os.OpenFile(srcPath, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("%w: opening %q: %w", dexioserr.ErrIO, srcPath, err)
	}
	defer f.Close() //nolint:errcheck

	h, err := Read(f)
	if err != nil {
		return err
	}
	headerSize, err := Size(h.Version)
	if err != nil {
		return err
	}

	if _, err := f.WriteAt(make([]byte, headerSize), 0); err != nil {
		return fmt.Errorf("%w: zeroing header in %q: %w", dexioserr.ErrIO, srcPath, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("%w: syncing %q: %w", dexioserr.ErrIO, srcPath, err)
	}
	return nil
}

// Restore overwrites the header region at the front of srcPath in place with
// the header bytes at headerPath, leaving the content segments that follow
// untouched. It is the inverse of Strip.
func Restore(srcPath, headerPath string) error {
	headerBytes, err := os.ReadFile(headerPath)
	if err != nil {
		return fmt.Errorf("%w: reading header from %q: %w", dexioserr.ErrIO, headerPath, err)
	}
	if _, _, err := Deserialize(headerBytes); err != nil {
		return fmt.Errorf("%w: %q does not hold a valid header: %w", dexioserr.ErrHeaderFormat, headerPath, err)
	}

	f, err := os.OpenFile(srcPath, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("%w: opening %q: %w", dexioserr.ErrIO, srcPath, err)
	}
	defer f.Close() //nolint:errcheck

	if _, err := f.WriteAt(headerBytes, 0); err != nil {
		return fmt.Errorf("%w: restoring header into %q: %w", dexioserr.ErrIO, srcPath, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("%w: syncing %q: %w", dexioserr.ErrIO, srcPath, err)
	}
	return nil
}

// Details reads and decodes the header at srcPath without modifying it, for
// the `header details` inspection command.
func Details(srcPath string) (Header, error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return Header{}, fmt.Errorf("%w: opening %q: %w", dexioserr.ErrIO, srcPath, err)
	}
	defer src.Close() //nolint:errcheck

	return Read(src)
}
