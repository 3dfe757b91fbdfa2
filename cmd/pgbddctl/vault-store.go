package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AliZainoul/pg-bdd-project/pkg/config"
	"github.com/AliZainoul/pg-bdd-project/pkg/identifier"
	"github.com/AliZainoul/pg-bdd-project/pkg/keyring"
	"github.com/AliZainoul/pg-bdd-project/pkg/logging"
	"github.com/AliZainoul/pg-bdd-project/pkg/prompt"
	"github.com/AliZainoul/pg-bdd-project/pkg/secret"
	"github.com/AliZainoul/pg-bdd-project/pkg/vault"
)

// vaultStoreCmd represents the vault store command
var vaultStoreCmd = &cobra.Command{
	Use:   "store <identity>",
	Short: "Store a value in the vault",
	Long: `Prompt for a value and write it to the vault, encrypted to the
resolved recipient key.

The value must satisfy the strength policy: at least 12 characters with
at least one lowercase letter, one uppercase letter, one digit and one
of !@#$%^&*.

Example:
  pgbddctl vault store app_role`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := storeEntry(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to store vault entry for %s: %v\n", args[0], err)
			os.Exit(1)
		}
	},
}

func init() {
	vaultCmd.AddCommand(vaultStoreCmd)
}

func storeEntry(name string) error {
	identity, err := identifier.Validate(name)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logging.New(os.Stderr, cfg.LogLevel)
	terminal := prompt.NewTerminal()

	resolution, err := keyring.Resolve(keyring.NewStore(cfg.KeyringDir), terminal)
	if err != nil {
		return err
	}
	if resolution.Generated {
		log.Infof("generated recipient key %s", resolution.Key.Fingerprint())
	}

	value, err := terminal.ReadSecret(fmt.Sprintf("Value for %s: ", identity))
	if err != nil {
		return err
	}
	confirm, err := terminal.ReadSecret("Confirm value: ")
	if err != nil {
		return err
	}
	if !value.Equal(confirm) {
		return errors.New("the two entries do not match")
	}
	if err := secret.Check(value); err != nil {
		return err
	}

	vlt := vault.New(cfg.VaultDir, resolution.Key, log)
	if err := vlt.Store(identity, value); err != nil {
		return err
	}

	fmt.Println("Stored", vlt.Path(identity))
	return nil
}
