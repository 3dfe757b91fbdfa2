package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/AliZainoul/pg-bdd-project/pkg/config"
)

// vaultWatchCmd represents the vault watch command
var vaultWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the vault directory and report entry changes",
	Long: `Watch the vault directory and report when entries are written or
removed.

This is an operational aid: leave it running while provisioning or
rotating entries to see exactly which identities are touched and when.

Example:
  pgbddctl vault watch`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := watchVault(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch vault: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	vaultCmd.AddCommand(vaultWatchCmd)
}

func watchVault() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// The directory may not exist yet on a fresh system.
	if err := os.MkdirAll(cfg.VaultDir, 0o700); err != nil {
		return fmt.Errorf("failed to create vault directory %s: %w", cfg.VaultDir, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(cfg.VaultDir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", cfg.VaultDir, err)
	}

	fmt.Printf("Watching %s for vault changes\n", cfg.VaultDir)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			// Entries land via rename from a dotfile in the same
			// directory, so only final names are reported.
			base := filepath.Base(event.Name)
			if !strings.HasSuffix(base, ".conf.gpg") || strings.HasPrefix(base, ".") {
				continue
			}
			identity := strings.TrimSuffix(base, ".conf.gpg")

			switch {
			case event.Op&fsnotify.Create == fsnotify.Create || event.Op&fsnotify.Write == fsnotify.Write:
				fmt.Printf("[%s] Entry written: %s\n", time.Now().Format(time.RFC3339), identity)
			case event.Op&fsnotify.Remove == fsnotify.Remove || event.Op&fsnotify.Rename == fsnotify.Rename:
				fmt.Printf("[%s] Entry removed: %s\n", time.Now().Format(time.RFC3339), identity)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
		case <-sigChan:
			fmt.Println("\nShutting down...")
			return nil
		}
	}
}
