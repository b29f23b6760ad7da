package dexiosfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dexios-go/dexios/crypto/primitives"
	"github.com/dexios-go/dexios/dexioserr"
)

func writeInputFile(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plaintext.txt")
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	t.Parallel()

	plaintext := []byte("a file that needs protecting")
	in := writeInputFile(t, plaintext)
	encrypted := filepath.Join(t.TempDir(), "out.dxs")
	decrypted := filepath.Join(t.TempDir(), "out.txt")

	require.NoError(t, EncryptFile(in, encrypted, []byte("correct horse"), primitives.XChaCha20Poly1305))
	require.NoError(t, DecryptFile(encrypted, decrypted, []byte("correct horse")))

	got, err := os.ReadFile(decrypted)
	require.NoError(t, err)
	require.Equal(t, plaintext, got)
}

func TestDecryptRejectsWrongPassphrase(t *testing.T) {
	t.Parallel()

	in := writeInputFile(t, []byte("secret content"))
	encrypted := filepath.Join(t.TempDir(), "out.dxs")
	decrypted := filepath.Join(t.TempDir(), "out.txt")

	require.NoError(t, EncryptFile(in, encrypted, []byte("right"), primitives.Aes256Gcm))

	err := DecryptFile(encrypted, decrypted, []byte("wrong"))
	require.ErrorIs(t, err, dexioserr.ErrAuthenticationFailed)
	_, statErr := os.Stat(decrypted)
	require.True(t, os.IsNotExist(statErr))
}

func TestEncryptRefusesExistingOutput(t *testing.T) {
	t.Parallel()

	in := writeInputFile(t, []byte("content"))
	out := filepath.Join(t.TempDir(), "out.dxs")
	require.NoError(t, os.WriteFile(out, []byte("already here"), 0o600))

	err := EncryptFile(in, out, []byte("pass"), primitives.Deoxys2)
	require.ErrorIs(t, err, dexioserr.ErrOutputExists)
}

func TestKeyAddAllowsDecryptingWithEitherPassphrase(t *testing.T) {
	t.Parallel()

	plaintext := []byte("shared file content")
	in := writeInputFile(t, plaintext)
	encrypted := filepath.Join(t.TempDir(), "out.dxs")

	require.NoError(t, EncryptFile(in, encrypted, []byte("first"), primitives.XChaCha20Poly1305))
	require.NoError(t, KeyAdd(encrypted, []byte("first"), []byte("second")))

	out1 := filepath.Join(t.TempDir(), "out1.txt")
	require.NoError(t, DecryptFile(encrypted, out1, []byte("first")))
	got1, err := os.ReadFile(out1)
	require.NoError(t, err)
	require.Equal(t, plaintext, got1)

	out2 := filepath.Join(t.TempDir(), "out2.txt")
	require.NoError(t, DecryptFile(encrypted, out2, []byte("second")))
	got2, err := os.ReadFile(out2)
	require.NoError(t, err)
	require.Equal(t, plaintext, got2)
}

func TestKeyDelRevokesPassphrase(t *testing.T) {
	t.Parallel()

	in := writeInputFile(t, []byte("content"))
	encrypted := filepath.Join(t.TempDir(), "out.dxs")

	require.NoError(t, EncryptFile(in, encrypted, []byte("first"), primitives.XChaCha20Poly1305))
	require.NoError(t, KeyAdd(encrypted, []byte("first"), []byte("second")))
	require.NoError(t, KeyDel(encrypted, []byte("first")))

	out := filepath.Join(t.TempDir(), "out.txt")
	err := DecryptFile(encrypted, out, []byte("first"))
	require.ErrorIs(t, err, dexioserr.ErrAuthenticationFailed)

	require.NoError(t, DecryptFile(encrypted, out, []byte("second")))
}

func TestKeyChangeReplacesPassphrase(t *testing.T) {
	t.Parallel()

	plaintext := []byte("content")
	in := writeInputFile(t, plaintext)
	encrypted := filepath.Join(t.TempDir(), "out.dxs")

	require.NoError(t, EncryptFile(in, encrypted, []byte("old"), primitives.Aes256Gcm))
	require.NoError(t, KeyChange(encrypted, []byte("old"), []byte("new")))

	out := filepath.Join(t.TempDir(), "out.txt")
	err := DecryptFile(encrypted, out, []byte("old"))
	require.ErrorIs(t, err, dexioserr.ErrAuthenticationFailed)

	require.NoError(t, DecryptFile(encrypted, out, []byte("new")))
	got, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, plaintext, got)
}
