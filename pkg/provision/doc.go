// Package provision runs the whole convergence: plan building, the
// tablespace directory precondition, the role/tablespace/database sequence,
// and the vault handoff.
//
// A run is strictly sequential. The dependency chain role -> tablespace ->
// database is a total order and each step's postcondition must hold before
// the next begins. The first failure aborts the remaining steps; nothing is
// rolled back, re-running is the recovery path.
package provision
