// Package config resolves the inputs of a provisioning run.
//
// Values are resolved with the precedence environment > config file >
// built-in default, and the source of every attribute is tracked so
// `configuration show` can explain where a value came from.
//
// # Configuration Sources
//
//   - PGBDD_* environment variables (highest precedence)
//   - $PGBDD_CONFIG_PATH/pgbdd.yml (default /etc/pgbdd/pgbdd.yml)
//   - Built-in defaults
//
// # Key Configuration Options
//
//   - PGBDD_ROLE: Login role to converge
//   - PGBDD_DATABASE: Database to converge
//   - PGBDD_TABLESPACE: Tablespace to converge
//   - PGBDD_DSN: Maintenance database connection string
//   - PGBDD_PASSWORD: Role secret (falls back to vault, then prompt)
//
// There is no package-level singleton. The loaded Config is handed
// explicitly to the code that needs it.
package config
