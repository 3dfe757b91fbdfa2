package converge

import (
	"context"
	"fmt"

	"github.com/AliZainoul/pg-bdd-project/pkg/identifier"
	"github.com/AliZainoul/pg-bdd-project/pkg/logging"
)

// CreationError reports that the server rejected an object's creation
// statements.
type CreationError struct {
	Kind Kind
	Name identifier.Identifier
	Err  error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("failed to create %s %s: %v", e.Kind, e.Name, e.Err)
}

func (e *CreationError) Unwrap() error {
	return e.Err
}

// VerificationError reports that an object could not be confirmed present.
// Err is nil when the catalog simply did not show the object after its
// creation succeeded.
type VerificationError struct {
	Kind Kind
	Name identifier.Identifier
	Err  error
}

func (e *VerificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to verify %s %s: %v", e.Kind, e.Name, e.Err)
	}
	return fmt.Sprintf("%s %s is still absent after creation", e.Kind, e.Name)
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}

// Outcome describes what one Ensure call did.
type Outcome struct {
	Kind  Kind
	Name  identifier.Identifier
	State State
	// Created is false when the object was already present and nothing
	// was mutated.
	Created bool
}

// Engine converges one resource at a time.
type Engine struct {
	log *logging.Logger
}

// NewEngine returns an engine logging through log.
func NewEngine(log *logging.Logger) *Engine {
	if log == nil {
		log = logging.Nop()
	}
	return &Engine{log: log}
}

// Ensure drives a resource to Verified or reports why it could not get
// there. An object that already exists is never touched; one that had to
// be created must be observable in the catalog before Ensure returns
// success.
func (e *Engine) Ensure(ctx context.Context, res Resource) (*Outcome, error) {
	outcome := &Outcome{Kind: res.Kind(), Name: res.Name(), State: StateUnknown}

	exists, err := res.Exists(ctx)
	if err != nil {
		outcome.State = StateFailed
		return outcome, &VerificationError{Kind: res.Kind(), Name: res.Name(), Err: err}
	}
	outcome.State = StateChecked

	if exists {
		e.log.Debugf("%s %s already exists, leaving it untouched", res.Kind(), res.Name())
		outcome.State = StateVerified
		return outcome, nil
	}

	e.log.Debugf("creating %s %s", res.Kind(), res.Name())
	outcome.State = StateCreating
	if err := res.Create(ctx); err != nil {
		outcome.State = StateFailed
		return outcome, &CreationError{Kind: res.Kind(), Name: res.Name(), Err: err}
	}
	outcome.State = StateCreated
	outcome.Created = true

	verified, err := res.Exists(ctx)
	if err != nil {
		outcome.State = StateFailed
		return outcome, &VerificationError{Kind: res.Kind(), Name: res.Name(), Err: err}
	}
	if !verified {
		outcome.State = StateFailed
		return outcome, &VerificationError{Kind: res.Kind(), Name: res.Name()}
	}

	outcome.State = StateVerified
	return outcome, nil
}
