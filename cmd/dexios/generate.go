package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dexios-go/dexios/generator/passphrase"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a diceware passphrase suitable as a dexios keyfile",
	}
	cmd.AddCommand(newGeneratePassphraseCmd())
	return cmd
}

func newGeneratePassphraseCmd() *cobra.Command {
	var profile string

	cmd := &cobra.Command{
		Use:   "passphrase",
		Short: "Print a random diceware passphrase",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				out string
				err error
			)
			switch profile {
			case "basic":
				out, err = passphrase.Basic()
			case "strong":
				out, err = passphrase.Strong()
			case "paranoid":
				out, err = passphrase.Paranoid()
			case "master":
				out, err = passphrase.Master()
			default:
				return fmt.Errorf("unknown profile %q: want basic, strong, paranoid or master", profile)
			}
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}
	cmd.Flags().StringVar(&profile, "profile", "strong", "basic (4 words), strong (8), paranoid (12) or master (24)")
	return cmd
}
