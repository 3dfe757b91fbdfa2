// Package pgcatalog answers existence questions about server objects and
// runs the statements that create them. All checks go through parameterized
// queries against pg_catalog; mutating DDL arrives here already quoted.
package pgcatalog

import (
	"context"
	"fmt"
	"slices"

	"gorm.io/gorm"

	"github.com/AliZainoul/pg-bdd-project/pkg/db"
	"github.com/AliZainoul/pg-bdd-project/pkg/identifier"
)

const (
	roleExistsQuery       = "SELECT count(*) FROM pg_catalog.pg_roles WHERE rolname = ?"
	databaseExistsQuery   = "SELECT count(*) FROM pg_catalog.pg_database WHERE datname = ?"
	tablespaceExistsQuery = "SELECT count(*) FROM pg_catalog.pg_tablespace WHERE spcname = ?"
	databaseOwnerQuery    = "SELECT pg_catalog.pg_get_userbyid(datdba) FROM pg_catalog.pg_database WHERE datname = ?"
	serverVersionQuery    = "SELECT version()"

	// The role listing hides the built-in pg_ roles, the same filter psql's
	// \du applies.
	listRolesQuery       = "SELECT rolname FROM pg_catalog.pg_roles WHERE rolname !~ '^pg_' ORDER BY rolname"
	listDatabasesQuery   = "SELECT datname FROM pg_catalog.pg_database ORDER BY datname"
	listTablespacesQuery = "SELECT spcname FROM pg_catalog.pg_tablespace ORDER BY spcname"
)

// ConnectivityError reports that the server could not be reached or
// authenticated to.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("database connectivity failure: %v", e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// Session is a superuser connection to the maintenance database.
type Session struct {
	db *gorm.DB
}

// NewSession wraps an established connection.
func NewSession(gdb *gorm.DB) *Session {
	return &Session{db: gdb}
}

// Open connects to the maintenance database and verifies the connection
// with a ping before anyone relies on it.
func Open(ctx context.Context, cfg db.Config) (*Session, error) {
	gdb, err := db.Connect(cfg)
	if err != nil {
		return nil, &ConnectivityError{Err: err}
	}

	session := &Session{db: gdb}
	if err := session.Ping(ctx); err != nil {
		return nil, err
	}
	return session, nil
}

// Ping verifies the server is reachable.
func (s *Session) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return &ConnectivityError{Err: err}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return &ConnectivityError{Err: err}
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Session) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Session) exists(ctx context.Context, query string, name identifier.Identifier) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Raw(query, name.String()).Scan(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// RoleExists reports whether a role of that name is in pg_roles.
func (s *Session) RoleExists(ctx context.Context, name identifier.Identifier) (bool, error) {
	return s.exists(ctx, roleExistsQuery, name)
}

// DatabaseExists reports whether a database of that name is in pg_database.
func (s *Session) DatabaseExists(ctx context.Context, name identifier.Identifier) (bool, error) {
	return s.exists(ctx, databaseExistsQuery, name)
}

// TablespaceExists reports whether a tablespace of that name is in
// pg_tablespace.
func (s *Session) TablespaceExists(ctx context.Context, name identifier.Identifier) (bool, error) {
	return s.exists(ctx, tablespaceExistsQuery, name)
}

// DatabaseOwner returns the owner of a database, or "" when the database
// does not exist.
func (s *Session) DatabaseOwner(ctx context.Context, name identifier.Identifier) (string, error) {
	var owner string
	if err := s.db.WithContext(ctx).Raw(databaseOwnerQuery, name.String()).Scan(&owner).Error; err != nil {
		return "", err
	}
	return owner, nil
}

// ServerVersion returns the version string reported by the server.
func (s *Session) ServerVersion(ctx context.Context) (string, error) {
	var version string
	if err := s.db.WithContext(ctx).Raw(serverVersionQuery).Scan(&version).Error; err != nil {
		return "", err
	}
	return version, nil
}

func (s *Session) list(ctx context.Context, query string) ([]string, error) {
	rows, err := s.db.WithContext(ctx).Raw(query).Rows()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Roles lists the role names on the server, built-in pg_ roles excluded.
func (s *Session) Roles(ctx context.Context) ([]string, error) {
	return s.list(ctx, listRolesQuery)
}

// Databases lists the database names on the server, templates included.
func (s *Session) Databases(ctx context.Context) ([]string, error) {
	return s.list(ctx, listDatabasesQuery)
}

// Tablespaces lists the tablespace names on the server.
func (s *Session) Tablespaces(ctx context.Context) ([]string, error) {
	return s.list(ctx, listTablespacesQuery)
}

// Exec runs a statement that carries no bind parameters. Identifiers and
// literals are quoted by the caller before the statement gets here.
func (s *Session) Exec(ctx context.Context, stmt string) error {
	return s.db.WithContext(ctx).Exec(stmt).Error
}

// Snapshot is a catalog listing taken at one point in time, with the
// presence of the three managed objects derived from it.
type Snapshot struct {
	Roles       []string
	Databases   []string
	Tablespaces []string

	RoleExists       bool
	DatabaseExists   bool
	TablespaceExists bool
}

// Snapshot lists the roles, databases and tablespaces on the server and
// derives the presence of the given objects from the listings.
func (s *Session) Snapshot(ctx context.Context, role, database, tablespace identifier.Identifier) (*Snapshot, error) {
	snap := &Snapshot{}

	var err error
	if snap.Roles, err = s.Roles(ctx); err != nil {
		return nil, err
	}
	if snap.Databases, err = s.Databases(ctx); err != nil {
		return nil, err
	}
	if snap.Tablespaces, err = s.Tablespaces(ctx); err != nil {
		return nil, err
	}

	snap.RoleExists = slices.Contains(snap.Roles, role.String())
	snap.DatabaseExists = slices.Contains(snap.Databases, database.String())
	snap.TablespaceExists = slices.Contains(snap.Tablespaces, tablespace.String())
	return snap, nil
}
