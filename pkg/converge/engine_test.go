package converge

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/AliZainoul/pg-bdd-project/pkg/identifier"
)

func TestEnsureExistingObjectIsUntouched(t *testing.T) {
	res := NewMockResource(KindRole, "app_role")
	res.On("Exists", mock.Anything).Return(true, nil).Once()

	outcome, err := NewEngine(nil).Ensure(context.Background(), res)
	require.NoError(t, err)

	assert.Equal(t, StateVerified, outcome.State)
	assert.False(t, outcome.Created)
	assert.Equal(t, KindRole, outcome.Kind)
	assert.Equal(t, "app_role", outcome.Name.String())

	res.AssertNotCalled(t, "Create", mock.Anything)
	res.AssertExpectations(t)
}

func TestEnsureCreatesAbsentObject(t *testing.T) {
	res := NewMockResource(KindTablespace, "app_tablespace")
	res.On("Exists", mock.Anything).Return(false, nil).Once()
	res.On("Create", mock.Anything).Return(nil).Once()
	res.On("Exists", mock.Anything).Return(true, nil).Once()

	outcome, err := NewEngine(nil).Ensure(context.Background(), res)
	require.NoError(t, err)

	assert.Equal(t, StateVerified, outcome.State)
	assert.True(t, outcome.Created)

	res.AssertExpectations(t)
}

func TestEnsureCreationFailure(t *testing.T) {
	res := NewMockResource(KindDatabase, "app_db")
	res.On("Exists", mock.Anything).Return(false, nil).Once()
	res.On("Create", mock.Anything).Return(errors.New("permission denied")).Once()

	outcome, err := NewEngine(nil).Ensure(context.Background(), res)
	require.Error(t, err)

	var creationErr *CreationError
	require.ErrorAs(t, err, &creationErr)
	assert.Equal(t, KindDatabase, creationErr.Kind)
	assert.Contains(t, err.Error(), "failed to create database app_db")
	assert.Equal(t, StateFailed, outcome.State)

	res.AssertExpectations(t)
}

func TestEnsureObjectStillAbsentAfterCreation(t *testing.T) {
	res := NewMockResource(KindRole, "app_role")
	res.On("Exists", mock.Anything).Return(false, nil).Once()
	res.On("Create", mock.Anything).Return(nil).Once()
	res.On("Exists", mock.Anything).Return(false, nil).Once()

	outcome, err := NewEngine(nil).Ensure(context.Background(), res)
	require.Error(t, err)

	var verificationErr *VerificationError
	require.ErrorAs(t, err, &verificationErr)
	assert.NoError(t, verificationErr.Err)
	assert.Contains(t, err.Error(), "still absent after creation")
	assert.Equal(t, StateFailed, outcome.State)

	res.AssertExpectations(t)
}

func TestEnsureInitialCheckFailure(t *testing.T) {
	checkErr := errors.New("connection reset")

	res := NewMockResource(KindRole, "app_role")
	res.On("Exists", mock.Anything).Return(false, checkErr).Once()

	outcome, err := NewEngine(nil).Ensure(context.Background(), res)
	require.Error(t, err)

	var verificationErr *VerificationError
	require.ErrorAs(t, err, &verificationErr)
	assert.ErrorIs(t, err, checkErr)
	assert.Equal(t, StateFailed, outcome.State)

	res.AssertNotCalled(t, "Create", mock.Anything)
	res.AssertExpectations(t)
}

func TestEnsureRecheckFailure(t *testing.T) {
	checkErr := errors.New("connection reset")

	res := NewMockResource(KindDatabase, "app_db")
	res.On("Exists", mock.Anything).Return(false, nil).Once()
	res.On("Create", mock.Anything).Return(nil).Once()
	res.On("Exists", mock.Anything).Return(false, checkErr).Once()

	outcome, err := NewEngine(nil).Ensure(context.Background(), res)
	require.Error(t, err)

	var verificationErr *VerificationError
	require.ErrorAs(t, err, &verificationErr)
	assert.ErrorIs(t, err, checkErr)
	assert.Equal(t, StateFailed, outcome.State)

	res.AssertExpectations(t)
}

// fakeResource remembers what was done to it, for exercising repeat runs.
type fakeResource struct {
	kind        Kind
	name        identifier.Identifier
	exists      bool
	createCalls int
}

func (f *fakeResource) Kind() Kind                  { return f.kind }
func (f *fakeResource) Name() identifier.Identifier { return f.name }

func (f *fakeResource) Exists(ctx context.Context) (bool, error) {
	return f.exists, nil
}

func (f *fakeResource) Create(ctx context.Context) error {
	f.createCalls++
	f.exists = true
	return nil
}

func TestEnsureIsIdempotent(t *testing.T) {
	res := &fakeResource{kind: KindRole, name: identifier.MustValidate("app_role")}
	engine := NewEngine(nil)

	first, err := engine.Ensure(context.Background(), res)
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.Equal(t, StateVerified, first.State)

	second, err := engine.Ensure(context.Background(), res)
	require.NoError(t, err)
	assert.False(t, second.Created, "second run must not mutate anything")
	assert.Equal(t, StateVerified, second.State)

	assert.Equal(t, 1, res.createCalls)
}
