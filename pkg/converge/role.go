package converge

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/AliZainoul/pg-bdd-project/pkg/identifier"
	"github.com/AliZainoul/pg-bdd-project/pkg/pgcatalog"
	"github.com/AliZainoul/pg-bdd-project/pkg/secret"
)

// Role is a login role carrying the application credential. Created roles
// are immediately stripped of superuser, createdb and createrole.
type Role struct {
	name    identifier.Identifier
	secret  secret.Secret
	session *pgcatalog.Session
}

// NewRole returns the role resource for a validated name and its secret.
func NewRole(session *pgcatalog.Session, name identifier.Identifier, s secret.Secret) *Role {
	return &Role{name: name, secret: s, session: session}
}

func (r *Role) Kind() Kind {
	return KindRole
}

func (r *Role) Name() identifier.Identifier {
	return r.name
}

func (r *Role) Exists(ctx context.Context) (bool, error) {
	return r.session.RoleExists(ctx, r.name)
}

func (r *Role) Create(ctx context.Context) error {
	create := fmt.Sprintf(
		"CREATE ROLE %s LOGIN PASSWORD %s",
		pq.QuoteIdentifier(r.name.String()),
		pq.QuoteLiteral(r.secret.Reveal()),
	)
	if err := r.session.Exec(ctx, create); err != nil {
		return err
	}

	restrict := fmt.Sprintf(
		"ALTER ROLE %s NOSUPERUSER NOCREATEDB NOCREATEROLE",
		pq.QuoteIdentifier(r.name.String()),
	)
	return r.session.Exec(ctx, restrict)
}
