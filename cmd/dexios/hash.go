package main

import (
	"crypto"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dexios-go/dexios/crypto/hashutil"
)

func newHashCmd() *cobra.Command {
	var algo string

	cmd := &cobra.Command{
		Use:   "hash <file>",
		Short: "Print a checksum of a file (plaintext or dexios-sealed)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hf, err := parseHashAlgo(algo)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close() //nolint:errcheck

			sum, err := hashutil.Hash(f, hf)
			if err != nil {
				return err
			}
			fmt.Printf("%s  %s\n", hex.EncodeToString(sum), args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&algo, "algorithm", "sha256", "sha256 or sha512")
	return cmd
}

func parseHashAlgo(name string) (crypto.Hash, error) {
	switch name {
	case "sha256":
		return crypto.SHA256, nil
	case "sha512":
		return crypto.SHA512, nil
	default:
		return 0, fmt.Errorf("unknown hash algorithm %q", name)
	}
}
