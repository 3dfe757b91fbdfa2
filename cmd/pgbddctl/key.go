package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// keyCmd represents the key command
var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage recipient keys",
	Long: `Manage the recipient key pairs that vault entries are sealed to.

Keys live as PEM files in the keyring directory, one file per key,
named by fingerprint.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'key' requires a subcommand (generate, list)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(keyCmd)
}
