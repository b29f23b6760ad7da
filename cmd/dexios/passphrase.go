package main

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/dexios-go/dexios/internal/config"
	"github.com/dexios-go/dexios/secret"
)

// envKeyVar is checked after --keyfile and before the interactive prompt.
const envKeyVar = "DEXIOS_KEY"

// resolvePassphrase implements the precedence keyfile > DEXIOS_KEY >
// cfg.KeyfileSearchPaths > prompt: a keyfile path, when given, always wins;
// otherwise the environment variable is used if set; otherwise the first
// existing path in cfg.KeyfileSearchPaths is used as a keyfile; only as a
// last resort does it fall back to an interactive, echo-free prompt. Keyfile
// contents are used verbatim as the passphrase, with no trimming: a keyfile
// ending in CR/LF has that CR/LF as part of its passphrase.
func resolvePassphrase(keyfile string, cfg *config.Config, confirm bool) (*secret.Container, error) {
	if keyfile != "" {
		b, err := os.ReadFile(keyfile)
		if err != nil {
			return nil, fmt.Errorf("reading keyfile %q: %w", keyfile, err)
		}
		return secret.From(b), nil
	}

	if v, ok := os.LookupEnv(envKeyVar); ok {
		return secret.From([]byte(v)), nil
	}

	for _, path := range cfg.KeyfileSearchPaths {
		b, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		return secret.From(b), nil
	}

	return promptPassphrase(confirm)
}

func promptPassphrase(confirm bool) (*secret.Container, error) {
	return promptPassphraseLabeled("passphrase", confirm)
}

// resolvePassphraseLabeled resolves a passphrase from a keyfile, or else from
// an interactive prompt carrying a custom label. It is used where two distinct
// passphrases are resolved in the same command (for example `key add`'s
// existing and new passphrases) and the default "Enter passphrase" prompt
// would be ambiguous about which one is being asked for. Unlike
// resolvePassphrase it does not consult DEXIOS_KEY or cfg.KeyfileSearchPaths.
func resolvePassphraseLabeled(keyfile, label string, confirm bool) (*secret.Container, error) {
	if keyfile != "" {
		b, err := os.ReadFile(keyfile)
		if err != nil {
			return nil, fmt.Errorf("reading keyfile %q: %w", keyfile, err)
		}
		return secret.From(b), nil
	}
	return promptPassphraseLabeled(label, confirm)
}

func promptPassphraseLabeled(label string, confirm bool) (*secret.Container, error) {
	fmt.Fprintf(os.Stderr, "Enter %s: ", label)
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", label, err)
	}

	if !confirm {
		return secret.From(pw), nil
	}

	fmt.Fprintf(os.Stderr, "Confirm %s: ", label)
	confirmPw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("reading %s confirmation: %w", label, err)
	}
	if string(pw) != string(confirmPw) {
		return nil, fmt.Errorf("passphrases do not match")
	}

	return secret.From(pw), nil
}
