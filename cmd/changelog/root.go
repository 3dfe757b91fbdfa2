package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "changelog",
	Short: "Keep a Changelog parser and validator",
	Long: `Parse, extract and validate this repository's CHANGELOG.md.

The file follows the Keep a Changelog format: one h2 section per
version, ISO 8601 release dates and a link definition per version.
Release automation uses 'extract' to pull the notes for a tag.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
