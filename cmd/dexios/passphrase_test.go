package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dexios-go/dexios/internal/config"
)

func TestResolvePassphraseKeyfileTakesPrecedenceAndIsVerbatim(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	require.NoError(t, os.WriteFile(path, []byte("s3cret\r\n"), 0o600))

	t.Setenv(envKeyVar, "from-env")

	pass, err := resolvePassphrase(path, config.Default(), false)
	require.NoError(t, err)
	defer pass.Destroy()
	require.Equal(t, []byte("s3cret\r\n"), pass.Bytes(), "keyfile contents must be used verbatim, without trimming")
}

func TestResolvePassphraseFallsBackToEnv(t *testing.T) {
	t.Setenv(envKeyVar, "from-env")

	pass, err := resolvePassphrase("", config.Default(), false)
	require.NoError(t, err)
	defer pass.Destroy()
	require.Equal(t, []byte("from-env"), pass.Bytes())
}

func TestResolvePassphraseFallsBackToKeyfileSearchPaths(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	require.NoError(t, os.WriteFile(path, []byte("from-search-path"), 0o600))

	cfg := config.Default()
	cfg.KeyfileSearchPaths = []string{filepath.Join(t.TempDir(), "missing"), path}

	pass, err := resolvePassphrase("", cfg, false)
	require.NoError(t, err)
	defer pass.Destroy()
	require.Equal(t, []byte("from-search-path"), pass.Bytes())
}
