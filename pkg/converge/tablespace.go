package converge

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/AliZainoul/pg-bdd-project/pkg/identifier"
	"github.com/AliZainoul/pg-bdd-project/pkg/pgcatalog"
)

// Tablespace is a tablespace backed by a directory under the managed root.
// The directory must exist, owned by the server's OS user, before Create
// runs; that precondition is the orchestrator's job.
type Tablespace struct {
	name     identifier.Identifier
	location string
	session  *pgcatalog.Session
}

// NewTablespace returns the tablespace resource for a validated name and
// its on-disk location.
func NewTablespace(session *pgcatalog.Session, name identifier.Identifier, location string) *Tablespace {
	return &Tablespace{name: name, location: location, session: session}
}

func (t *Tablespace) Kind() Kind {
	return KindTablespace
}

func (t *Tablespace) Name() identifier.Identifier {
	return t.name
}

// Location is the directory backing the tablespace.
func (t *Tablespace) Location() string {
	return t.location
}

func (t *Tablespace) Exists(ctx context.Context) (bool, error) {
	return t.session.TablespaceExists(ctx, t.name)
}

func (t *Tablespace) Create(ctx context.Context) error {
	create := fmt.Sprintf(
		"CREATE TABLESPACE %s LOCATION %s",
		pq.QuoteIdentifier(t.name.String()),
		pq.QuoteLiteral(t.location),
	)
	return t.session.Exec(ctx, create)
}
