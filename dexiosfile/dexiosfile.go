// Package dexiosfile orchestrates the on-disk file format: header codec,
// key-slot management and the STREAM content cipher, wired together into the
// handful of whole-file operations the command-line front-end exposes.
package dexiosfile

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/dexios-go/dexios/crypto/kdf"
	"github.com/dexios-go/dexios/crypto/primitives"
	"github.com/dexios-go/dexios/crypto/stream"
	"github.com/dexios-go/dexios/dexioserr"
	"github.com/dexios-go/dexios/format/header"
	"github.com/dexios-go/dexios/format/keyslot"
	"github.com/dexios-go/dexios/generator/randomness"
	"github.com/dexios-go/dexios/ioutil/atomic"
	"github.com/dexios-go/dexios/log"
	"github.com/dexios-go/dexios/secret"
)

// EncryptFile reads inputPath, derives a fresh random master key, wraps it
// for passphrase in the header's first key slot, and writes the resulting
// header plus STREAM-sealed ciphertext to outputPath. outputPath must not
// already exist.
func EncryptFile(inputPath, outputPath string, passphrase []byte, algo primitives.Algorithm) (err error) {
	if _, statErr := os.Stat(outputPath); statErr == nil {
		return fmt.Errorf("%w: %q", dexioserr.ErrOutputExists, outputPath)
	} else if !errors.Is(statErr, fs.ErrNotExist) {
		return fmt.Errorf("%w: checking %q: %w", dexioserr.ErrIO, outputPath, statErr)
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("%w: opening %q: %w", dexioserr.ErrIO, inputPath, err)
	}
	defer in.Close() //nolint:errcheck

	masterKeyBytes, err := randomness.Bytes(primitives.KeyLen)
	if err != nil {
		return fmt.Errorf("%w: generating master key: %w", dexioserr.ErrIO, err)
	}
	masterKey := secret.From(masterKeyBytes)
	defer masterKey.Destroy()

	nonce, err := primitives.GenNonce(algo, primitives.StreamMode)
	if err != nil {
		return fmt.Errorf("%w: generating content nonce: %w", dexioserr.ErrIO, err)
	}

	h := header.Header{
		Version:   header.V5,
		Algorithm: algo,
		Mode:      primitives.StreamMode,
		Nonce:     nonce,
	}
	if _, err := keyslot.Add(&h, passphrase, masterKey); err != nil {
		return err
	}

	cipher, err := primitives.New(algo, masterKey.Bytes())
	if err != nil {
		return err
	}
	aad, err := header.AAD(h)
	if err != nil {
		return err
	}

	writeErr := atomic.WriteFileFunc(outputPath, func(w io.Writer) error {
		if err := header.Write(w, h); err != nil {
			return err
		}
		return stream.Encrypt(w, in, cipher, nonce, aad)
	})
	if writeErr != nil {
		log.Error(writeErr).Messagef("encryption of %q failed", inputPath)
		return writeErr
	}
	return nil
}

// DecryptFile opens inputPath, recovers the master key from whichever key
// slot passphrase unlocks, and writes the recovered plaintext to outputPath.
// outputPath must not already exist.
func DecryptFile(inputPath, outputPath string, passphrase []byte) error {
	if _, statErr := os.Stat(outputPath); statErr == nil {
		return fmt.Errorf("%w: %q", dexioserr.ErrOutputExists, outputPath)
	} else if !errors.Is(statErr, fs.ErrNotExist) {
		return fmt.Errorf("%w: checking %q: %w", dexioserr.ErrIO, outputPath, statErr)
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("%w: opening %q: %w", dexioserr.ErrIO, inputPath, err)
	}
	defer in.Close() //nolint:errcheck

	h, err := header.Read(in)
	if err != nil {
		return err
	}

	var masterKey *secret.Container
	if h.Version.HasSlotTable() {
		masterKey, _, err = keyslot.Verify(h, passphrase)
		if err != nil {
			return err
		}
	} else {
		kdfVersion, vErr := h.Version.KDFVersion()
		if vErr != nil {
			return vErr
		}
		masterKey, err = kdf.Derive(passphrase, h.Salt[:], kdfVersion)
		if err != nil {
			return err
		}
	}
	defer masterKey.Destroy()

	cipher, err := primitives.New(h.Algorithm, masterKey.Bytes())
	if err != nil {
		return err
	}
	aad, err := header.AAD(h)
	if err != nil {
		return err
	}

	writeErr := atomic.WriteFileFunc(outputPath, func(w io.Writer) error {
		return stream.Decrypt(w, in, cipher, h.Nonce, aad)
	})
	if writeErr != nil {
		log.Error(writeErr).Messagef("decryption of %q failed", inputPath)
		return writeErr
	}
	return nil
}

// KeyAdd wraps the master key recovered by existingPassphrase under a new
// passphrase, installing it into path's next free key slot.
func KeyAdd(path string, existingPassphrase, newPassphrase []byte) error {
	h, err := header.Details(path)
	if err != nil {
		return err
	}
	masterKey, _, err := keyslot.Verify(h, existingPassphrase)
	if err != nil {
		return err
	}
	defer masterKey.Destroy()

	if _, err := keyslot.Add(&h, newPassphrase, masterKey); err != nil {
		return err
	}
	return rewriteHeader(path, h)
}

// KeyDel removes whichever key slot passphrase unlocks from path's header,
// refusing to remove the last remaining slot.
func KeyDel(path string, passphrase []byte) error {
	h, err := header.Details(path)
	if err != nil {
		return err
	}
	_, idx, err := keyslot.Verify(h, passphrase)
	if err != nil {
		return err
	}
	if err := keyslot.Del(&h, idx); err != nil {
		return err
	}
	return rewriteHeader(path, h)
}

// KeyChange replaces oldPassphrase with newPassphrase in place, in whichever
// slot oldPassphrase unlocks.
func KeyChange(path string, oldPassphrase, newPassphrase []byte) error {
	h, err := header.Details(path)
	if err != nil {
		return err
	}
	if err := keyslot.Change(&h, oldPassphrase, newPassphrase); err != nil {
		return err
	}
	return rewriteHeader(path, h)
}

// rewriteHeader replaces the header at the front of path with h, leaving the
// content segments that follow untouched. Used after any key-slot mutation,
// since slot edits never touch the ciphertext.
func rewriteHeader(path string, h header.Header) error {
	oldSize, err := header.Size(h.Version)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: opening %q: %w", dexioserr.ErrIO, path, err)
	}
	defer f.Close() //nolint:errcheck

	if _, err := f.Seek(int64(oldSize), io.SeekStart); err != nil {
		return fmt.Errorf("%w: seeking past header in %q: %w", dexioserr.ErrIO, path, err)
	}

	return atomic.WriteFileFunc(path, func(w io.Writer) error {
		if err := header.Write(w, h); err != nil {
			return err
		}
		_, err := io.Copy(w, f)
		if err != nil {
			return fmt.Errorf("%w: copying content segments of %q: %w", dexioserr.ErrIO, path, err)
		}
		return nil
	})
}
