package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AliZainoul/pg-bdd-project/pkg/audit"
	"github.com/AliZainoul/pg-bdd-project/pkg/config"
	"github.com/AliZainoul/pg-bdd-project/pkg/db"
	"github.com/AliZainoul/pg-bdd-project/pkg/keyring"
	"github.com/AliZainoul/pg-bdd-project/pkg/logging"
	"github.com/AliZainoul/pg-bdd-project/pkg/pgcatalog"
	"github.com/AliZainoul/pg-bdd-project/pkg/prompt"
	"github.com/AliZainoul/pg-bdd-project/pkg/provision"
	"github.com/AliZainoul/pg-bdd-project/pkg/vault"
)

// provisionCmd represents the provision command
var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Converge the role, tablespace and database",
	Long: `Converge the configured login role, tablespace and database to a
verified state.

Objects are created in dependency order (role, then tablespace, then
database) and each creation is checked against the catalog before the
next step starts. Objects that already exist are verified and left
untouched, so re-running against a converged server changes nothing.
Once all three objects verify, the role's credential is written to the
vault, encrypted to the resolved recipient key.

The run is configured through /etc/pgbdd/pgbdd.yml and PGBDD_*
environment variables; see 'pgbddctl configuration show'.

Example:
  pgbddctl provision`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runProvision(); err != nil {
			fmt.Fprintf(os.Stderr, "Provisioning failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(provisionCmd)
}

func runProvision() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logging.New(os.Stderr, cfg.LogLevel)

	plan, err := provision.PlanFromConfig(cfg)
	if err != nil {
		return err
	}

	terminal := prompt.NewTerminal()

	resolution, err := keyring.Resolve(keyring.NewStore(cfg.KeyringDir), terminal)
	if err != nil {
		return err
	}

	ctx := context.Background()
	session, err := pgcatalog.Open(ctx, db.Config{
		DSN:   cfg.SuperuserDSN(),
		Debug: cfg.LogLevel == "debug",
	})
	if err != nil {
		return err
	}
	defer func() { _ = session.Close() }()

	store, err := audit.NewStore()
	if err != nil {
		log.Warnf("audit sink unavailable: %v", err)
	}
	auditor := audit.NewAuditor(audit.NewLogger(), store)
	defer func() { _ = auditor.Close() }()

	orchestrator := provision.NewOrchestrator(
		plan,
		session,
		vault.New(cfg.VaultDir, resolution.Key, log),
		terminal,
		auditor,
		log,
	)
	orchestrator.Password = cfg.Secret()
	orchestrator.KeyGenerated = resolution.Generated

	_, err = orchestrator.Run(ctx)
	return err
}
