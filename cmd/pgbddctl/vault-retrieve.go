package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AliZainoul/pg-bdd-project/pkg/config"
	"github.com/AliZainoul/pg-bdd-project/pkg/identifier"
	"github.com/AliZainoul/pg-bdd-project/pkg/keyring"
	"github.com/AliZainoul/pg-bdd-project/pkg/logging"
	"github.com/AliZainoul/pg-bdd-project/pkg/prompt"
	"github.com/AliZainoul/pg-bdd-project/pkg/vault"
)

// vaultRetrieveCmd represents the vault retrieve command
var vaultRetrieveCmd = &cobra.Command{
	Use:   "retrieve <identity>",
	Short: "Decrypt and print a vault entry",
	Long: `Decrypt a vault entry with the resolved recipient key and print
the plaintext to stdout.

An entry that does not exist, or that was sealed to a key the keyring
no longer holds, is reported as absent.

Example:
  pgbddctl vault retrieve app_role`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := retrieveEntry(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to retrieve vault entry for %s: %v\n", args[0], err)
			os.Exit(1)
		}
	},
}

func init() {
	vaultCmd.AddCommand(vaultRetrieveCmd)
}

func retrieveEntry(name string) error {
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

	vlt := vault.New(cfg.VaultDir, resolution.Key, log)
	value, found, err := vlt.Retrieve(identity)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no vault entry for %s", identity)
	}

	fmt.Println(value.Reveal())
	return nil
}
