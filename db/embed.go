// Package db carries the embedded migration sources for the demo schema.
package db

import "embed"

//go:embed migrations
var Migrations embed.FS
