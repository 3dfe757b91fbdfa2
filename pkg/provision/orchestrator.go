package provision

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/user"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/AliZainoul/pg-bdd-project/pkg/audit"
	"github.com/AliZainoul/pg-bdd-project/pkg/converge"
	"github.com/AliZainoul/pg-bdd-project/pkg/logging"
	"github.com/AliZainoul/pg-bdd-project/pkg/pgcatalog"
	"github.com/AliZainoul/pg-bdd-project/pkg/prompt"
	"github.com/AliZainoul/pg-bdd-project/pkg/secret"
	"github.com/AliZainoul/pg-bdd-project/pkg/vault"
)

// promptAttempts bounds the interactive retry loop.
const promptAttempts = 3

// Result summarizes a completed run.
type Result struct {
	RunID    string
	Outcomes []*converge.Outcome

	// SecretStored reports whether a vault entry was written during this
	// run. It stays false when the run reused the stored entry.
	SecretStored bool
}

// Orchestrator drives one provisioning run: role, then tablespace, then
// database, strictly in that order, fail-fast, no rollback. On success the
// role's secret is sealed into the vault before Run returns.
type Orchestrator struct {
	Plan     *Plan
	Session  *pgcatalog.Session
	Vault    *vault.Vault
	Prompter prompt.Prompter

	// Password is the secret supplied by configuration or environment.
	// When zero the run falls back to the vault and then to the prompter.
	Password secret.Secret

	// KeyGenerated marks that key resolution created the recipient key,
	// so the run records it in the audit trail.
	KeyGenerated bool

	engine  *converge.Engine
	auditor *audit.Auditor
	log     *logging.Logger
	runID   string

	finalizeOnce sync.Once
}

// NewOrchestrator wires an orchestrator around an open session and vault.
// A run identifier is minted here and carried by every log line and audit
// event of the run.
func NewOrchestrator(
	plan *Plan,
	session *pgcatalog.Session,
	vlt *vault.Vault,
	prompter prompt.Prompter,
	auditor *audit.Auditor,
	log *logging.Logger,
) *Orchestrator {
	if log == nil {
		log = logging.Nop()
	}
	runID := uuid.NewString()
	runLog := log.WithRun(runID)

	return &Orchestrator{
		Plan:     plan,
		Session:  session,
		Vault:    vlt,
		Prompter: prompter,
		engine:   converge.NewEngine(runLog),
		auditor:  auditor,
		log:      runLog,
		runID:    runID,
	}
}

// RunID returns the correlation identifier minted for this orchestrator.
func (o *Orchestrator) RunID() string {
	return o.runID
}

// Run converges the plan. The first failing step aborts the rest; already
// created objects are left in place, a re-run is the recovery path.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	result := &Result{RunID: o.runID}
	defer o.Finalize(ctx)

	err := o.run(ctx, result)

	o.auditor.Log(audit.RunCompletedEvent{
		RunID:        o.runID,
		Role:         o.Plan.Role.String(),
		Database:     o.Plan.Database.String(),
		Tablespace:   o.Plan.Tablespace.String(),
		Success:      err == nil,
		ErrorMessage: errMessage(err),
	})

	if err == nil {
		o.log.Successf("%s is owned by %s on tablespace %s", o.Plan.Database, o.Plan.Role, o.Plan.Tablespace)
	}
	return result, err
}

func (o *Orchestrator) run(ctx context.Context, result *Result) error {
	if o.KeyGenerated {
		o.log.Infof("generated recipient key %s", o.Vault.Recipient().Fingerprint())
		o.auditor.Log(audit.KeyGeneratedEvent{
			RunID:       o.runID,
			Fingerprint: o.Vault.Recipient().Fingerprint(),
		})
	}

	s, fromVault, err := o.resolveSecret()
	if err != nil {
		return err
	}

	if err := o.ensure(ctx, result, converge.NewRole(o.Session, o.Plan.Role, s)); err != nil {
		return err
	}

	if err := o.prepareLocation(); err != nil {
		return err
	}
	if err := o.ensure(ctx, result, converge.NewTablespace(o.Session, o.Plan.Tablespace, o.Plan.Location)); err != nil {
		return err
	}

	if err := o.ensure(ctx, result, converge.NewDatabase(o.Session, o.Plan.Database, o.Plan.Role, o.Plan.Tablespace)); err != nil {
		return err
	}

	if fromVault {
		o.log.Debugf("vault entry for %s is already current", o.Plan.Role)
		return nil
	}
	if err := o.storeSecret(s); err != nil {
		return err
	}
	result.SecretStored = true
	return nil
}

// ensure runs one resource through the engine and records the outcome.
func (o *Orchestrator) ensure(ctx context.Context, result *Result, res converge.Resource) error {
	outcome, err := o.engine.Ensure(ctx, res)
	if outcome != nil {
		result.Outcomes = append(result.Outcomes, outcome)
	}

	o.auditor.Log(audit.ObjectEnsuredEvent{
		RunID:        o.runID,
		Kind:         res.Kind().String(),
		Name:         res.Name().String(),
		Created:      outcome != nil && outcome.Created,
		Success:      err == nil,
		ErrorMessage: errMessage(err),
	})
	if err != nil {
		return err
	}

	if outcome.Created {
		o.log.Successf("created %s %s", outcome.Kind, outcome.Name)
	} else {
		o.log.Successf("%s %s already present", outcome.Kind, outcome.Name)
	}
	return nil
}

// resolveSecret picks the role's secret: configuration first, then the
// vault, then the prompter. The second return value reports that the value
// came from the vault and needs no re-store.
func (o *Orchestrator) resolveSecret() (secret.Secret, bool, error) {
	if !o.Password.IsZero() {
		if err := secret.Check(o.Password); err != nil {
			return secret.Secret{}, false, err
		}
		o.log.Debug("using the configured login value")
		return o.Password, false, nil
	}

	stored, found, err := o.Vault.Retrieve(o.Plan.Role)
	if err != nil {
		return secret.Secret{}, false, err
	}
	if found {
		o.log.Debugf("using the vault entry for %s", o.Plan.Role)
		return stored, true, nil
	}

	o.log.Debugf("no vault entry for %s, asking interactively", o.Plan.Role)
	s, err := o.promptSecret()
	return s, false, err
}

// promptSecret asks for the secret twice and re-checks the policy, up to
// promptAttempts times.
func (o *Orchestrator) promptSecret() (secret.Secret, error) {
	var lastErr error
	for attempt := 1; attempt <= promptAttempts; attempt++ {
		entered, err := o.Prompter.ReadSecret(fmt.Sprintf("Password for role %s: ", o.Plan.Role))
		if err != nil {
			return secret.Secret{}, err
		}
		confirmed, err := o.Prompter.ReadSecret("Confirm password: ")
		if err != nil {
			return secret.Secret{}, err
		}

		if !entered.Equal(confirmed) {
			lastErr = errors.New("the two entries do not match")
			o.log.Warn("the two entries do not match")
			continue
		}
		if err := secret.Check(entered); err != nil {
			lastErr = err
			var weak *secret.WeakError
			if errors.As(err, &weak) {
				o.log.Warnf("not acceptable: needs %s", strings.Join(weak.Missing, ", "))
			}
			continue
		}
		return entered, nil
	}
	return secret.Secret{}, fmt.Errorf("no acceptable value entered after %d attempts: %w", promptAttempts, lastErr)
}

// prepareLocation creates the tablespace directory ahead of the CREATE
// TABLESPACE statement. The server requires the directory to exist and be
// owned by its own system user.
func (o *Orchestrator) prepareLocation() error {
	if err := os.MkdirAll(o.Plan.Location, 0o700); err != nil {
		return fmt.Errorf("failed to create tablespace directory %s: %w", o.Plan.Location, err)
	}
	o.log.Debugf("tablespace directory %s is in place", o.Plan.Location)
	o.chownLocation()
	return nil
}

// chownLocation hands the tablespace directory to the configured system
// user, best effort. When it cannot, the server will report its own error
// on CREATE TABLESPACE.
func (o *Orchestrator) chownLocation() {
	u, err := user.Lookup(o.Plan.SystemUser)
	if err != nil {
		o.log.Warnf("system user %s not found, leaving %s owned by the current user", o.Plan.SystemUser, o.Plan.Location)
		return
	}

	uid, uidErr := strconv.Atoi(u.Uid)
	gid, gidErr := strconv.Atoi(u.Gid)
	if uidErr != nil || gidErr != nil {
		o.log.Warnf("system user %s has non-numeric ids, leaving %s owned by the current user", o.Plan.SystemUser, o.Plan.Location)
		return
	}

	if err := os.Chown(o.Plan.Location, uid, gid); err != nil {
		o.log.Warnf("cannot change ownership of %s to %s: %v", o.Plan.Location, o.Plan.SystemUser, err)
	}
}

// storeSecret seals the secret into the vault under the role identity.
func (o *Orchestrator) storeSecret(s secret.Secret) error {
	err := o.Vault.Store(o.Plan.Role, s)

	o.auditor.Log(audit.SecretStoredEvent{
		RunID:          o.runID,
		Identity:       o.Plan.Role.String(),
		Path:           o.Vault.Path(o.Plan.Role),
		KeyFingerprint: o.Vault.Recipient().Fingerprint(),
		Success:        err == nil,
		ErrorMessage:   errMessage(err),
	})
	if err != nil {
		return err
	}

	o.log.Successf("vault entry for %s written", o.Plan.Role)
	return nil
}

// Finalize emits the diagnostic snapshot once. Run defers it, and the CLI
// defers it again around its exit paths; only the first call reports.
// Snapshot problems are logged and never change the run's outcome.
func (o *Orchestrator) Finalize(ctx context.Context) {
	o.finalizeOnce.Do(func() {
		snap, err := o.Session.Snapshot(ctx, o.Plan.Role, o.Plan.Database, o.Plan.Tablespace)
		if err != nil {
			o.log.Debugf("diagnostic snapshot unavailable: %v", err)
			return
		}
		o.log.Infof("server roles: %s", strings.Join(snap.Roles, ", "))
		o.log.Infof("server tablespaces: %s", strings.Join(snap.Tablespaces, ", "))
		o.log.Infof("server databases: %s", strings.Join(snap.Databases, ", "))
		o.log.Infof("catalog state: role %s %s, tablespace %s %s, database %s %s",
			o.Plan.Role, presence(snap.RoleExists),
			o.Plan.Tablespace, presence(snap.TablespaceExists),
			o.Plan.Database, presence(snap.DatabaseExists),
		)
	})
}

func presence(exists bool) string {
	if exists {
		return "present"
	}
	return "absent"
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
