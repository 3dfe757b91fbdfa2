package converge

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/AliZainoul/pg-bdd-project/pkg/identifier"
	"github.com/AliZainoul/pg-bdd-project/pkg/pgcatalog"
)

// Database is the application database, owned by the login role and placed
// on the managed tablespace. Creation locks the database down: PUBLIC
// loses every privilege and the owner gets them all.
type Database struct {
	name       identifier.Identifier
	owner      identifier.Identifier
	tablespace identifier.Identifier
	session    *pgcatalog.Session
}

// NewDatabase returns the database resource for validated names.
func NewDatabase(session *pgcatalog.Session, name, owner, tablespace identifier.Identifier) *Database {
	return &Database{name: name, owner: owner, tablespace: tablespace, session: session}
}

func (d *Database) Kind() Kind {
	return KindDatabase
}

func (d *Database) Name() identifier.Identifier {
	return d.name
}

func (d *Database) Exists(ctx context.Context) (bool, error) {
	return d.session.DatabaseExists(ctx, d.name)
}

func (d *Database) Create(ctx context.Context) error {
	name := pq.QuoteIdentifier(d.name.String())
	owner := pq.QuoteIdentifier(d.owner.String())

	statements := []string{
		fmt.Sprintf("CREATE DATABASE %s OWNER %s TABLESPACE %s",
			name, owner, pq.QuoteIdentifier(d.tablespace.String())),
		fmt.Sprintf("ALTER DATABASE %s OWNER TO %s", name, owner),
		fmt.Sprintf("REVOKE ALL ON DATABASE %s FROM PUBLIC", name),
		fmt.Sprintf("GRANT ALL PRIVILEGES ON DATABASE %s TO %s", name, owner),
	}

	for _, stmt := range statements {
		if err := d.session.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
