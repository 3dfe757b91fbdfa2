package converge

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/AliZainoul/pg-bdd-project/pkg/identifier"
)

// MockResource implements Resource for testing using testify/mock. Kind and
// Name are fixed at construction; only the calls that touch the server are
// mocked.
type MockResource struct {
	mock.Mock

	kind Kind
	name identifier.Identifier
}

func NewMockResource(kind Kind, name string) *MockResource {
	return &MockResource{kind: kind, name: identifier.MustValidate(name)}
}

func (m *MockResource) Kind() Kind {
	return m.kind
}

func (m *MockResource) Name() identifier.Identifier {
	return m.name
}

func (m *MockResource) Exists(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockResource) Create(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
