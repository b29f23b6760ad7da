// Package erase overwrites a file's content before unlinking it, so a
// deleted plaintext or ciphertext is not trivially recoverable from
// leftover disk blocks. It is a best-effort measure: on copy-on-write or
// log-structured filesystems, the original blocks may still be reachable
// through snapshots or journal entries no user-space overwrite can reach.
package erase

import (
	"fmt"
	"os"

	"github.com/dexios-go/dexios/dexioserr"
	"github.com/dexios-go/dexios/generator/randomness"
)

// DefaultPasses is the number of random overwrite passes File runs before
// zeroing and unlinking.
const DefaultPasses = 2

// File overwrites path's content with passes rounds of random bytes, then
// one final round of zero bytes, syncs, and unlinks it.
func File(path string, passes int) error {
	if passes < 1 {
		passes = DefaultPasses
	}

	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("%w: opening %q for erase: %w", dexioserr.ErrIO, path, err)
	}

	size, err := fileSize(f)
	if err != nil {
		f.Close() //nolint:errcheck
		return err
	}

	for i := 0; i < passes; i++ {
		if err := overwrite(f, size, randomPattern); err != nil {
			f.Close() //nolint:errcheck
			return err
		}
	}
	if err := overwrite(f, size, zeroPattern); err != nil {
		f.Close() //nolint:errcheck
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close() //nolint:errcheck
		return fmt.Errorf("%w: syncing %q before unlink: %w", dexioserr.ErrIO, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: closing %q after overwrite: %w", dexioserr.ErrIO, path, err)
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("%w: unlinking %q: %w", dexioserr.ErrIO, path, err)
	}
	return nil
}

func fileSize(f *os.File) (int64, error) {
	fi, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("%w: statting %q for erase: %w", dexioserr.ErrIO, f.Name(), err)
	}
	return fi.Size(), nil
}

// patternFunc fills buf in place with the next bytes of an overwrite pass.
type patternFunc func(buf []byte) error

func randomPattern(buf []byte) error {
	b, err := randomness.Bytes(len(buf))
	if err != nil {
		return fmt.Errorf("%w: generating overwrite pattern: %w", dexioserr.ErrIO, err)
	}
	copy(buf, b)
	return nil
}

func zeroPattern(buf []byte) error {
	for i := range buf {
		buf[i] = 0
	}
	return nil
}

const overwriteChunkSize = 1 << 20 // 1 MiB

func overwrite(f *os.File, size int64, pattern patternFunc) error {
	if _, err := f.Seek(0, 0); err != nil {
		return fmt.Errorf("%w: seeking %q to start overwrite pass: %w", dexioserr.ErrIO, f.Name(), err)
	}

	buf := make([]byte, overwriteChunkSize)
	for remaining := size; remaining > 0; {
		n := int64(len(buf))
		if remaining < n {
			n = remaining
		}
		if err := pattern(buf[:n]); err != nil {
			return err
		}
		if _, err := f.Write(buf[:n]); err != nil {
			return fmt.Errorf("%w: writing overwrite pass to %q: %w", dexioserr.ErrIO, f.Name(), err)
		}
		remaining -= n
	}
	return nil
}
