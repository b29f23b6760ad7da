// Command dexios encrypts and decrypts files with the Dexios on-disk
// format: a STREAM-sealed AEAD ciphertext behind a versioned header and a
// four-slot passphrase table.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	dexios "github.com/dexios-go/dexios"
	"github.com/dexios-go/dexios/internal/config"
	"github.com/dexios-go/dexios/log"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error(err).Message("command failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var fips bool

	root := &cobra.Command{
		Use:     "dexios",
		Short:   "Encrypt and decrypt files with authenticated, streamed AEAD",
		Version: Version,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to an optional dexios.yaml configuration file")
	root.PersistentFlags().BoolVar(&fips, "fips", false, "restrict content encryption to AES-256-GCM")

	cfg := config.Default()
	cobra.OnInitialize(func() {
		if fips {
			dexios.SetFIPSMode()
		}
		if configPath == "" {
			return
		}
		loaded, err := config.Load(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "dexios: %v\n", err)
			os.Exit(1)
		}
		*cfg = *loaded
	})

	root.AddCommand(newEncryptCmd(cfg))
	root.AddCommand(newDecryptCmd(cfg))
	root.AddCommand(newKeyCmd(cfg))
	root.AddCommand(newHeaderCmd())
	root.AddCommand(newEraseCmd(cfg))
	root.AddCommand(newPackCmd())
	root.AddCommand(newUnpackCmd())
	root.AddCommand(newHashCmd())
	root.AddCommand(newGenerateCmd())

	return root
}
