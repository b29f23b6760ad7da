package main

import (
	"github.com/spf13/cobra"

	"github.com/dexios-go/dexios/dexiosfile"
	"github.com/dexios-go/dexios/internal/config"
)

func newKeyCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the passphrases protecting a file's key slots",
	}
	cmd.AddCommand(newKeyAddCmd(cfg))
	cmd.AddCommand(newKeyDelCmd(cfg))
	cmd.AddCommand(newKeyChangeCmd(cfg))
	return cmd
}

func newKeyAddCmd(cfg *config.Config) *cobra.Command {
	var keyfile, newKeyfile string

	cmd := &cobra.Command{
		Use:   "add <file>",
		Short: "Add a new passphrase to a free key slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			existing, err := resolvePassphrase(keyfile, cfg, false)
			if err != nil {
				return err
			}
			defer existing.Destroy()

			added, err := resolvePassphraseLabeled(newKeyfile, "new passphrase", true)
			if err != nil {
				return err
			}
			defer added.Destroy()

			return dexiosfile.KeyAdd(args[0], existing.Bytes(), added.Bytes())
		},
	}
	cmd.Flags().StringVarP(&keyfile, "keyfile", "k", "", "path to a file holding an existing passphrase")
	cmd.Flags().StringVar(&newKeyfile, "new-keyfile", "", "path to a file holding the new passphrase")
	return cmd
}

func newKeyDelCmd(cfg *config.Config) *cobra.Command {
	var keyfile string

	cmd := &cobra.Command{
		Use:   "del <file>",
		Short: "Remove a key slot matching a passphrase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := resolvePassphrase(keyfile, cfg, false)
			if err != nil {
				return err
			}
			defer pass.Destroy()

			return dexiosfile.KeyDel(args[0], pass.Bytes())
		},
	}
	cmd.Flags().StringVarP(&keyfile, "keyfile", "k", "", "path to a file holding the passphrase to remove")
	return cmd
}

func newKeyChangeCmd(cfg *config.Config) *cobra.Command {
	var keyfile, newKeyfile string

	cmd := &cobra.Command{
		Use:   "change <file>",
		Short: "Replace a passphrase in place",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			oldPass, err := resolvePassphrase(keyfile, cfg, false)
			if err != nil {
				return err
			}
			defer oldPass.Destroy()

			newPass, err := resolvePassphraseLabeled(newKeyfile, "new passphrase", true)
			if err != nil {
				return err
			}
			defer newPass.Destroy()

			return dexiosfile.KeyChange(args[0], oldPass.Bytes(), newPass.Bytes())
		},
	}
	cmd.Flags().StringVarP(&keyfile, "keyfile", "k", "", "path to a file holding the current passphrase")
	cmd.Flags().StringVar(&newKeyfile, "new-keyfile", "", "path to a file holding the replacement passphrase")
	return cmd
}
