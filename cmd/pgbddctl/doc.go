// Package pgbdd provides an idempotent PostgreSQL provisioning engine with an
// encrypted credential vault.
//
// A single run converges a login role, a tablespace and a database to a
// verified state, in that order, and stores the role's credential encrypted
// to a recipient key in a per-identity vault file. Re-running against a
// converged server performs zero mutations.
//
// # Architecture
//
// The engine is organized into several packages:
//
//   - pkg/identifier: object-name sanitization
//   - pkg/secret: the self-masking Secret type and the strength policy
//   - pkg/keyring: recipient key pairs and key resolution
//   - pkg/vault: per-identity encrypted credential files
//   - pkg/pgcatalog: catalog existence queries and DDL execution
//   - pkg/converge: the check/create/verify state machine
//   - pkg/provision: plan building and the orchestrated run
//   - pkg/seed: demo schema dataset generation and insertion
//   - pkg/audit: audit events, syslog-format output, optional DB sink
//   - pkg/logging: leveled console logging with secret redaction
//   - pkg/config: configuration management
//
// # Quick Start
//
// The engine is run via the pgbddctl CLI:
//
//	# Inspect the resolved configuration
//	pgbddctl configuration show
//
//	# Converge role, tablespace and database
//	pgbddctl provision
//
//	# Inspect current catalog state
//	pgbddctl status
//
//	# Load the demo schema and dataset into the provisioned database
//	pgbddctl seed
//
// # Environment Variables
//
//   - PGBDD_ROLE: login role to converge
//   - PGBDD_DATABASE: database to converge, owned by the role
//   - PGBDD_TABLESPACE: tablespace to converge
//   - PGBDD_TABLESPACE_ROOT: absolute directory for tablespace locations
//   - PGBDD_SUPERUSER: database identity the run connects as
//   - PGBDD_SYSTEM_USER: OS account that owns tablespace directories
//   - PGBDD_DSN: connection string for the maintenance database
//   - PGBDD_VAULT_DIR: directory of encrypted credential files
//   - PGBDD_KEYRING_DIR: directory of recipient key pairs
//   - PGBDD_PASSWORD: optional plaintext secret for the role
//   - PGBDD_LOG_LEVEL: log level (debug, info, warn, error)
//   - PGBDD_AUDIT_DATABASE_URL: optional audit sink database
//
// Environment variables take precedence over /etc/pgbdd/pgbdd.yml, which
// takes precedence over built-in defaults.
package main
