package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// vaultCmd represents the vault command
var vaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Manage encrypted vault entries",
	Long: `Manage the per-identity encrypted files in the vault directory.

Each entry is a single file named <identity>.conf.gpg, readable only by
the owner, holding a value sealed to a recipient key from the keyring.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'vault' requires a subcommand (store, retrieve, watch)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(vaultCmd)
}
