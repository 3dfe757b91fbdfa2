//go:build !embed_migrations

package main

import (
	"fmt"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/file"
)

const defaultMigrationsPath = "db/migrations"

func migrationSource() (string, source.Driver, error) {
	fmt.Printf("Running migrations from file://%s\n", defaultMigrationsPath)

	d, err := (&file.File{}).Open("file://" + defaultMigrationsPath)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	return "file", d, nil
}
