package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AliZainoul/pg-bdd-project/pkg/config"
	"github.com/AliZainoul/pg-bdd-project/pkg/keyring"
)

// keyListCmd represents the key list command
var keyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the keys in the keyring",
	Long: `List the fingerprints of the keys in the keyring directory.

Example:
  pgbddctl key list`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := listKeys(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list keys: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	keyCmd.AddCommand(keyListCmd)
}

func listKeys() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	store := keyring.NewStore(cfg.KeyringDir)
	entries, err := store.List()
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("Keyring is empty:", store.Dir())
		return nil
	}

	for _, entry := range entries {
		fmt.Printf("%s  %s\n", entry.Fingerprint, entry.Path)
	}
	return nil
}
