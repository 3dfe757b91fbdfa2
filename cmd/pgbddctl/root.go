package main

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pgbddctl",
	Short: "Idempotent PostgreSQL provisioning with an encrypted credential vault",
	Long: `pgbddctl converges a PostgreSQL login role, a tablespace and a database
to a verified state, and keeps the role's credential encrypted at rest.

Runs are idempotent: objects that already exist are verified and left
untouched, so a failed run is recovered by fixing the cause and invoking
the same command again.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
