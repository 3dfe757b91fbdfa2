package provision

import (
	"fmt"
	"path/filepath"

	"github.com/AliZainoul/pg-bdd-project/pkg/config"
	"github.com/AliZainoul/pg-bdd-project/pkg/identifier"
)

// Plan is the validated description of one provisioning run. The topology
// is fixed: a login role, a tablespace, and a database owned by the role
// and placed on the tablespace.
type Plan struct {
	Role       identifier.Identifier
	Database   identifier.Identifier
	Tablespace identifier.Identifier

	// Location is the tablespace directory, <tablespace_root>/<tablespace>.
	Location string

	// SystemUser is the OS account that should own Location.
	SystemUser string
}

// PlanFromConfig validates the configured names and builds the plan.
// Validation happens here, before any connection is opened, so a bad name
// never reaches the server.
func PlanFromConfig(cfg *config.Config) (*Plan, error) {
	role, err := identifier.Validate(cfg.Role)
	if err != nil {
		return nil, fmt.Errorf("role: %w", err)
	}

	database, err := identifier.Validate(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	tablespace, err := identifier.Validate(cfg.Tablespace)
	if err != nil {
		return nil, fmt.Errorf("tablespace: %w", err)
	}

	if !filepath.IsAbs(cfg.TablespaceRoot) {
		return nil, fmt.Errorf("tablespace_root %q is not an absolute path", cfg.TablespaceRoot)
	}

	return &Plan{
		Role:       role,
		Database:   database,
		Tablespace: tablespace,
		Location:   cfg.TablespacePath(tablespace),
		SystemUser: cfg.SystemUser,
	}, nil
}
