package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/dexios-go/dexios/dexiosfile"
	"github.com/dexios-go/dexios/internal/config"
)

func newDecryptCmd(cfg *config.Config) *cobra.Command {
	var (
		keyfile    string
		force      bool
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "decrypt <input> [output]",
		Short: "Decrypt a file previously sealed with dexios",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			output := outputPath
			if len(args) == 2 {
				output = args[1]
			}
			if output == "" {
				output = strings.TrimSuffix(input, ".dexios")
				if output == input {
					output = input + ".decrypted"
				}
			}
			if force {
				_ = removeIfExists(output)
			}

			pass, err := resolvePassphrase(keyfile, cfg, false)
			if err != nil {
				return err
			}
			defer pass.Destroy()

			if err := dexiosfile.DecryptFile(input, output, pass.Bytes()); err != nil {
				return err
			}

			size, statErr := fileSize(output)
			if statErr == nil {
				fmt.Printf("decrypted %q -> %q (%s)\n", input, output, humanize.Bytes(uint64(size)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&keyfile, "keyfile", "k", "", "path to a file holding the passphrase")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output path (default: <input> with .dexios stripped)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing output file")

	return cmd
}
