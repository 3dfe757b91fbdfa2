package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AliZainoul/pg-bdd-project/pkg/config"
	"github.com/AliZainoul/pg-bdd-project/pkg/keyring"
)

// keyGenerateCmd represents the key generate command
var keyGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a recipient key pair",
	Long: `Generate a new recipient key pair in the keyring directory.

A provisioning run against an empty keyring generates its key on the
fly, so this command is only needed to create additional keys, for
example before rotating vault entries to a new recipient.

Example:
  pgbddctl key generate`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := generateKey(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate key: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	keyCmd.AddCommand(keyGenerateCmd)
}

func generateKey() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	store := keyring.NewStore(cfg.KeyringDir)
	key, err := store.Generate()
	if err != nil {
		return err
	}

	fmt.Println("Generated key", key.Fingerprint())
	fmt.Println("Keyring:", store.Dir())
	return nil
}
