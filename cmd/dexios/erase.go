package main

import (
	"github.com/spf13/cobra"

	"github.com/dexios-go/dexios/erase"
	"github.com/dexios-go/dexios/internal/config"
)

func newEraseCmd(cfg *config.Config) *cobra.Command {
	var passes int

	cmd := &cobra.Command{
		Use:   "erase <file>",
		Short: "Securely overwrite and unlink a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := passes
			if p == 0 {
				p = cfg.ErasePasses
			}
			return erase.File(args[0], p)
		},
	}
	cmd.Flags().IntVarP(&passes, "passes", "p", 0, "number of random overwrite passes (default from config)")
	return cmd
}
