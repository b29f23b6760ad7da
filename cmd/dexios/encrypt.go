package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	dexios "github.com/dexios-go/dexios"
	"github.com/dexios-go/dexios/crypto/primitives"
	"github.com/dexios-go/dexios/dexiosfile"
	"github.com/dexios-go/dexios/erase"
	"github.com/dexios-go/dexios/internal/config"
)

func newEncryptCmd(cfg *config.Config) *cobra.Command {
	var (
		keyfile      string
		algorithm    string
		force        bool
		eraseSource  bool
		outputPath   string
	)

	cmd := &cobra.Command{
		Use:   "encrypt <input> [output]",
		Short: "Encrypt a file into the dexios format",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			output := outputPath
			if len(args) == 2 {
				output = args[1]
			}
			if output == "" {
				output = input + ".dexios"
			}
			if force {
				_ = removeIfExists(output)
			}

			algo, err := resolveAlgorithm(algorithm, cfg)
			if err != nil {
				return err
			}

			pass, err := resolvePassphrase(keyfile, cfg, true)
			if err != nil {
				return err
			}
			defer pass.Destroy()

			if err := dexiosfile.EncryptFile(input, output, pass.Bytes(), algo); err != nil {
				return err
			}

			size, statErr := fileSize(output)
			if statErr == nil {
				fmt.Printf("encrypted %q -> %q (%s)\n", input, output, humanize.Bytes(uint64(size)))
			}

			if eraseSource || cfg.EraseSourceAfterEncrypt {
				if err := erase.File(input, cfg.ErasePasses); err != nil {
					return fmt.Errorf("encryption succeeded but erasing source failed: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&keyfile, "keyfile", "k", "", "path to a file holding the passphrase")
	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "", "xchacha20poly1305, aes256gcm or deoxys2 (default from config)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output path (default: <input>.dexios)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing output file")
	cmd.Flags().BoolVarP(&eraseSource, "erase", "e", false, "securely erase the input after encrypting")

	return cmd
}

func resolveAlgorithm(flagValue string, cfg *config.Config) (primitives.Algorithm, error) {
	algo, err := resolveAlgorithmName(flagValue, cfg)
	if err != nil {
		return 0, err
	}
	if dexios.InFIPSMode() && algo != primitives.Aes256Gcm {
		return 0, fmt.Errorf("FIPS mode is enabled: only aes256gcm is permitted, got %q", flagValue)
	}
	return algo, nil
}

func resolveAlgorithmName(flagValue string, cfg *config.Config) (primitives.Algorithm, error) {
	if flagValue == "" {
		return cfg.Algorithm()
	}
	switch strings.ToLower(flagValue) {
	case "xchacha20poly1305", "xchacha20-poly1305":
		return primitives.XChaCha20Poly1305, nil
	case "aes256gcm", "aes-256-gcm":
		return primitives.Aes256Gcm, nil
	case "deoxys2", "deoxys-ii-256":
		return primitives.Deoxys2, nil
	default:
		return 0, fmt.Errorf("unknown algorithm %q", flagValue)
	}
}
