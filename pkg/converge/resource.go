// Package converge drives server objects to their desired state exactly
// once. The engine checks for an object, creates it only when absent and
// refuses to report success until the object is observable.
package converge

import (
	"context"

	"github.com/AliZainoul/pg-bdd-project/pkg/identifier"
)

// Resource is one convergable server object. Each variant builds its own
// statements from validated identifiers; the engine never branches on the
// kind.
type Resource interface {
	// Kind names the object type.
	Kind() Kind
	// Name is the validated object name.
	Name() identifier.Identifier
	// Exists probes the catalog for the object.
	Exists(ctx context.Context) (bool, error)
	// Create issues the object's creation statements. Called only when
	// Exists reported false.
	Create(ctx context.Context) error
}
