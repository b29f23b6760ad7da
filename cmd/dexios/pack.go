package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dexios-go/dexios/archive"
)

func newPackCmd() *cobra.Command {
	var zstd bool

	cmd := &cobra.Command{
		Use:   "pack <dir> <archive>",
		Short: "Pack a directory tree into a single archive ahead of encryption",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := os.Create(args[1])
			if err != nil {
				return err
			}
			defer out.Close() //nolint:errcheck

			if zstd {
				return archive.PackZstd(args[0], out)
			}
			return archive.Pack(args[0], out)
		},
	}
	cmd.Flags().BoolVar(&zstd, "zstd", false, "use a tar+zstd stream instead of zip")
	return cmd
}

func newUnpackCmd() *cobra.Command {
	var zstd bool

	cmd := &cobra.Command{
		Use:   "unpack <archive> <dir>",
		Short: "Unpack an archive produced by pack",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer in.Close() //nolint:errcheck

			if zstd {
				return archive.UnpackZstd(in, args[1])
			}
			info, err := in.Stat()
			if err != nil {
				return err
			}
			return archive.Unpack(in, info.Size(), args[1])
		},
	}
	cmd.Flags().BoolVar(&zstd, "zstd", false, "the archive is a tar+zstd stream instead of zip")
	return cmd
}
