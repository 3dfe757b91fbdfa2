package integration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cucumber/godog"
	"github.com/lib/pq"

	"github.com/AliZainoul/pg-bdd-project/pkg/config"
	"github.com/AliZainoul/pg-bdd-project/pkg/converge"
	"github.com/AliZainoul/pg-bdd-project/pkg/db"
	"github.com/AliZainoul/pg-bdd-project/pkg/identifier"
	"github.com/AliZainoul/pg-bdd-project/pkg/keyring"
	"github.com/AliZainoul/pg-bdd-project/pkg/logging"
	"github.com/AliZainoul/pg-bdd-project/pkg/pgcatalog"
	"github.com/AliZainoul/pg-bdd-project/pkg/provision"
	"github.com/AliZainoul/pg-bdd-project/pkg/secret"
	"github.com/AliZainoul/pg-bdd-project/pkg/vault"
)

const (
	scenarioRole       = "it_role"
	scenarioDatabase   = "it_db"
	scenarioTablespace = "it_space"
)

const (
	roleCountQuery       = "SELECT count(*) FROM pg_catalog.pg_roles WHERE rolname = $1"
	databaseCountQuery   = "SELECT count(*) FROM pg_catalog.pg_database WHERE datname = $1"
	tablespaceCountQuery = "SELECT count(*) FROM pg_catalog.pg_tablespace WHERE spcname = $1"
	databaseOwnerQuery   = "SELECT pg_catalog.pg_get_userbyid(datdba) FROM pg_catalog.pg_database WHERE datname = $1"
)

// StepsContext holds state shared between the step definitions of one
// scenario.
type StepsContext struct {
	tc       *TestContext
	cfg      *config.Config
	password string
	result   *provision.Result
	runErr   error
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{tc: tc}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Step(`^a fresh server and empty local state$`, s.freshState)
	sc.Step(`^a completed provisioning pass with password "([^"]*)"$`, s.completedPass)
	sc.Step(`^the database and tablespace were dropped$`, s.databaseAndTablespaceDropped)

	sc.Step(`^I run a provisioning pass with password "([^"]*)"$`, s.runPass)

	sc.Step(`^the pass succeeds$`, s.passSucceeds)
	sc.Step(`^the pass fails with a weak password error$`, s.passFailsWithWeakPassword)
	sc.Step(`^the role, tablespace and database exist$`, s.allObjectsExist)
	sc.Step(`^the role, tablespace and database are absent$`, s.allObjectsAbsent)
	sc.Step(`^the database is owned by the role$`, s.databaseOwnedByRole)
	sc.Step(`^the vault holds the password for the role$`, s.vaultHoldsPassword)
	sc.Step(`^the keyring holds exactly one key$`, s.keyringHoldsOneKey)
	sc.Step(`^every object was already present$`, s.everyObjectAlreadyPresent)
	sc.Step(`^the role was not created again$`, s.roleNotCreatedAgain)
	sc.Step(`^the database and tablespace were created again$`, s.databaseAndTablespaceCreatedAgain)
}

// freshState resets the catalog and gives the scenario its own keyring,
// vault and tablespace root.
func (s *StepsContext) freshState() error {
	if err := s.tc.DropAll(scenarioRole, scenarioDatabase, scenarioTablespace); err != nil {
		return err
	}

	workDir, err := os.MkdirTemp("", "pgbdd-it-*")
	if err != nil {
		return err
	}

	s.cfg = &config.Config{
		Role:           scenarioRole,
		Database:       scenarioDatabase,
		Tablespace:     scenarioTablespace,
		TablespaceRoot: filepath.Join(workDir, "tablespaces"),
		Superuser:      "postgres",
		SystemUser:     "postgres",
		DSN:            s.tc.DSN,
		VaultDir:       filepath.Join(workDir, "credentials"),
		KeyringDir:     filepath.Join(workDir, "keyring"),
		LogLevel:       "info",
	}
	if err := s.cfg.Validate(); err != nil {
		return err
	}
	s.password = ""
	s.result = nil
	s.runErr = nil

	// The server resolves tablespace locations against its own filesystem,
	// so the location has to exist inside the container as well.
	location := filepath.Join(s.cfg.TablespaceRoot, scenarioTablespace)
	return s.tc.PrepareServerDir(context.Background(), location)
}

// runPass drives one full provisioning run and records its result. A failed
// run is not an error here, the outcome steps decide what was expected.
func (s *StepsContext) runPass(password string) error {
	ctx := context.Background()

	plan, err := provision.PlanFromConfig(s.cfg)
	if err != nil {
		return err
	}

	// Scenarios hold at most one key, so resolution never consults a
	// selector.
	resolution, err := keyring.Resolve(keyring.NewStore(s.cfg.KeyringDir), nil)
	if err != nil {
		return err
	}

	session, err := pgcatalog.Open(ctx, db.Config{DSN: s.cfg.SuperuserDSN()})
	if err != nil {
		return err
	}
	defer func() { _ = session.Close() }()

	log := logging.New(io.Discard, s.cfg.LogLevel)
	orchestrator := provision.NewOrchestrator(
		plan,
		session,
		vault.New(s.cfg.VaultDir, resolution.Key, log),
		nil, // every scenario configures a password, the prompter is never consulted
		nil,
		log,
	)
	orchestrator.Password = secret.New(password)
	orchestrator.KeyGenerated = resolution.Generated

	s.password = password
	s.result, s.runErr = orchestrator.Run(ctx)
	return nil
}

func (s *StepsContext) completedPass(password string) error {
	if err := s.runPass(password); err != nil {
		return err
	}
	if s.runErr != nil {
		return fmt.Errorf("setup pass failed: %w", s.runErr)
	}
	return nil
}

func (s *StepsContext) databaseAndTablespaceDropped() error {
	stmts := []string{
		"DROP DATABASE " + pq.QuoteIdentifier(scenarioDatabase),
		"DROP TABLESPACE " + pq.QuoteIdentifier(scenarioTablespace),
	}
	for _, stmt := range stmts {
		if _, err := s.tc.Admin.Exec(stmt); err != nil {
			return fmt.Errorf("%s: %w", stmt, err)
		}
	}
	return nil
}

func (s *StepsContext) passSucceeds() error {
	if s.runErr != nil {
		return fmt.Errorf("pass failed: %w", s.runErr)
	}
	return nil
}

func (s *StepsContext) passFailsWithWeakPassword() error {
	var weak *secret.WeakError
	if !errors.As(s.runErr, &weak) {
		return fmt.Errorf("expected a weak password failure, got %v", s.runErr)
	}
	return nil
}

func (s *StepsContext) objectExists(query, name string) (bool, error) {
	var count int
	if err := s.tc.Admin.QueryRow(query, name).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *StepsContext) allObjectsExist() error {
	return s.checkPresence(true)
}

func (s *StepsContext) allObjectsAbsent() error {
	return s.checkPresence(false)
}

func (s *StepsContext) checkPresence(want bool) error {
	checks := []struct {
		query string
		name  string
	}{
		{roleCountQuery, scenarioRole},
		{tablespaceCountQuery, scenarioTablespace},
		{databaseCountQuery, scenarioDatabase},
	}
	for _, c := range checks {
		exists, err := s.objectExists(c.query, c.name)
		if err != nil {
			return err
		}
		if exists != want {
			return fmt.Errorf("%s: exists=%v, want %v", c.name, exists, want)
		}
	}
	return nil
}

func (s *StepsContext) databaseOwnedByRole() error {
	var owner string
	if err := s.tc.Admin.QueryRow(databaseOwnerQuery, scenarioDatabase).Scan(&owner); err != nil {
		return err
	}
	if owner != scenarioRole {
		return fmt.Errorf("database %s is owned by %s, want %s", scenarioDatabase, owner, scenarioRole)
	}
	return nil
}

// vaultHoldsPassword checks the entry file's mode and decrypts it back to
// the password the pass was configured with.
func (s *StepsContext) vaultHoldsPassword() error {
	identity := identifier.MustValidate(scenarioRole)

	path := filepath.Join(s.cfg.VaultDir, scenarioRole+".conf.gpg")
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("expected a vault entry at %s: %w", path, err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		return fmt.Errorf("vault entry has mode %o, want 600", perm)
	}

	resolution, err := keyring.Resolve(keyring.NewStore(s.cfg.KeyringDir), nil)
	if err != nil {
		return err
	}
	vlt := vault.New(s.cfg.VaultDir, resolution.Key, logging.Nop())

	value, found, err := vlt.Retrieve(identity)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no vault entry for %s", identity)
	}
	if value.Reveal() != s.password {
		return errors.New("vault entry does not round-trip to the configured password")
	}
	return nil
}

func (s *StepsContext) keyringHoldsOneKey() error {
	entries, err := keyring.NewStore(s.cfg.KeyringDir).List()
	if err != nil {
		return err
	}
	if len(entries) != 1 {
		return fmt.Errorf("keyring holds %d keys, want 1", len(entries))
	}
	return nil
}

func (s *StepsContext) everyObjectAlreadyPresent() error {
	if s.result == nil {
		return errors.New("no pass has run")
	}
	if len(s.result.Outcomes) != 3 {
		return fmt.Errorf("pass produced %d outcomes, want 3", len(s.result.Outcomes))
	}
	for _, o := range s.result.Outcomes {
		if o.Created {
			return fmt.Errorf("%s %s was created again", o.Kind, o.Name)
		}
		if o.State != converge.StateVerified {
			return fmt.Errorf("%s %s ended in state %s, want %s", o.Kind, o.Name, o.State, converge.StateVerified)
		}
	}
	return nil
}

func (s *StepsContext) roleNotCreatedAgain() error {
	return s.checkCreated(converge.KindRole, false)
}

func (s *StepsContext) databaseAndTablespaceCreatedAgain() error {
	if err := s.checkCreated(converge.KindTablespace, true); err != nil {
		return err
	}
	return s.checkCreated(converge.KindDatabase, true)
}

func (s *StepsContext) checkCreated(kind converge.Kind, want bool) error {
	if s.result == nil {
		return errors.New("no pass has run")
	}
	for _, o := range s.result.Outcomes {
		if o.Kind != kind {
			continue
		}
		if o.Created != want {
			return fmt.Errorf("%s %s: created=%v, want %v", o.Kind, o.Name, o.Created, want)
		}
		return nil
	}
	return fmt.Errorf("no outcome recorded for kind %s", kind)
}
