package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/AliZainoul/pg-bdd-project/pkg/config"
	"github.com/AliZainoul/pg-bdd-project/pkg/db"
	"github.com/AliZainoul/pg-bdd-project/pkg/keyring"
	"github.com/AliZainoul/pg-bdd-project/pkg/logging"
	"github.com/AliZainoul/pg-bdd-project/pkg/prompt"
	"github.com/AliZainoul/pg-bdd-project/pkg/provision"
	"github.com/AliZainoul/pg-bdd-project/pkg/seed"
	"github.com/AliZainoul/pg-bdd-project/pkg/vault"
)

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo schema and dataset into the provisioned database",
	Long: `Load the demo e-commerce schema into the provisioned database and
fill it with generated rows.

The command connects as the provisioned role, using its vault entry
when one exists and prompting otherwise, then applies the schema
migrations and inserts customers, products, orders, order items,
payments and shipments in dependency order.

Example:
  pgbddctl seed
  pgbddctl seed --customers 100 --products 40 --orders 250
  pgbddctl seed --generator-seed 11`,
	Run: func(cmd *cobra.Command, args []string) {
		customers, _ := cmd.Flags().GetInt("customers")
		products, _ := cmd.Flags().GetInt("products")
		orders, _ := cmd.Flags().GetInt("orders")
		generatorSeed, _ := cmd.Flags().GetUint64("generator-seed")

		if err := runSeed(customers, products, orders, generatorSeed); err != nil {
			fmt.Fprintf(os.Stderr, "Seeding failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().Int("customers", seed.DefaultCustomers, "Number of customers to generate")
	seedCmd.Flags().Int("products", seed.DefaultProducts, "Number of products to generate")
	seedCmd.Flags().Int("orders", seed.DefaultOrders, "Number of orders to generate")
	seedCmd.Flags().Uint64("generator-seed", 0, "Generator seed for reproducible datasets (0 picks a random one)")
}

func runSeed(customers, products, orders int, generatorSeed uint64) error {
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

	vlt := vault.New(cfg.VaultDir, resolution.Key, log)
	value, found, err := vlt.Retrieve(plan.Role)
	if err != nil {
		return err
	}
	if !found {
		log.Debugf("no vault entry for %s, asking interactively", plan.Role)
		value, err = terminal.ReadSecret(fmt.Sprintf("Password for role %s: ", plan.Role))
		if err != nil {
			return err
		}
	}

	dsn := cfg.RoleDSN(plan.Role, plan.Database, value)

	if err := applyMigrations(dsn); err != nil {
		return err
	}

	gdb, err := db.Connect(db.Config{DSN: dsn, Debug: cfg.LogLevel == "debug"})
	if err != nil {
		return err
	}
	defer func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	dataset := seed.NewGenerator(generatorSeed).Dataset(customers, products, orders)
	return seed.NewSeeder(gdb, log).Apply(context.Background(), dataset)
}

func applyMigrations(dsn string) error {
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = sqlDB.Close() }()

	driver, err := migratepg.WithInstance(sqlDB, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("failed to prepare migration driver: %w", err)
	}

	sourceName, source, err := migrationSource()
	if err != nil {
		return err
	}

	m, err := migrate.NewWithInstance(sourceName, source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil {
		if err == migrate.ErrNoChange {
			fmt.Println("No migrations to run - schema is up to date")
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	version, _, _ := m.Version()
	fmt.Printf("Migrated to version: %d\n", version)
	return nil
}
