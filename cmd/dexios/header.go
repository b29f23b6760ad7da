package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dexios-go/dexios/format/header"
)

func newHeaderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "header",
		Short: "Inspect, dump, strip or restore a file's header",
	}
	cmd.AddCommand(newHeaderDumpCmd())
	cmd.AddCommand(newHeaderStripCmd())
	cmd.AddCommand(newHeaderRestoreCmd())
	cmd.AddCommand(newHeaderDetailsCmd())
	return cmd
}

func newHeaderDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <file> <header-file>",
		Short: "Write a file's header out to a separate file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return header.Dump(args[0], args[1])
		},
	}
}

func newHeaderStripCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strip <file>",
		Short: "Zero a file's header in place, keeping the file length",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return header.Strip(args[0])
		},
	}
}

func newHeaderRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <file> <header-file>",
		Short: "Write a previously dumped header back over the start of a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return header.Restore(args[0], args[1])
		},
	}
}

func newHeaderDetailsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "details <file>",
		Short: "Print a file's header fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := header.Details(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("version:    %d\n", h.Version)
			fmt.Printf("algorithm:  %d\n", h.Algorithm)
			fmt.Printf("mode:       %d\n", h.Mode)
			fmt.Printf("has slots:  %v\n", h.Version.HasSlotTable())
			if h.Version.HasSlotTable() {
				used := 0
				for _, s := range h.Slots {
					if s.InUse {
						used++
					}
				}
				fmt.Printf("key slots:  %d/%d in use\n", used, header.SlotCount)
			}
			return nil
		},
	}
}
