package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AliZainoul/pg-bdd-project/pkg/config"
	"github.com/AliZainoul/pg-bdd-project/pkg/db"
	"github.com/AliZainoul/pg-bdd-project/pkg/pgcatalog"
	"github.com/AliZainoul/pg-bdd-project/pkg/provision"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show catalog state for the configured objects",
	Long: `Show the current catalog state of the configured role, tablespace
and database, without changing anything.

This is the same diagnostic snapshot a provisioning run emits when it
finishes, available on demand.

Example:
  pgbddctl status`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := showStatus(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to show status: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func showStatus() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	plan, err := provision.PlanFromConfig(cfg)
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

	version, err := session.ServerVersion(ctx)
	if err != nil {
		return err
	}

	snapshot, err := session.Snapshot(ctx, plan.Role, plan.Database, plan.Tablespace)
	if err != nil {
		return err
	}

	fmt.Println("Server:", version)
	fmt.Println()
	fmt.Printf("%-12s %-24s %s\n", "OBJECT", "NAME", "STATE")
	fmt.Printf("%-12s %-24s %s\n", "role", plan.Role, presentOrAbsent(snapshot.RoleExists))
	fmt.Printf("%-12s %-24s %s\n", "tablespace", plan.Tablespace, presentOrAbsent(snapshot.TablespaceExists))
	fmt.Printf("%-12s %-24s %s\n", "database", plan.Database, presentOrAbsent(snapshot.DatabaseExists))

	fmt.Println()
	fmt.Println("Roles:", strings.Join(snapshot.Roles, ", "))
	fmt.Println("Tablespaces:", strings.Join(snapshot.Tablespaces, ", "))
	fmt.Println("Databases:", strings.Join(snapshot.Databases, ", "))

	if snapshot.DatabaseExists {
		owner, err := session.DatabaseOwner(ctx, plan.Database)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Printf("Database %s is owned by %s\n", plan.Database, owner)
	}

	return nil
}

func presentOrAbsent(exists bool) string {
	if exists {
		return "present"
	}
	return "absent"
}
