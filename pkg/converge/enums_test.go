package converge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindStringValues(t *testing.T) {
	assert.Equal(t, "role", KindRole.String())
	assert.Equal(t, "tablespace", KindTablespace.String())
	assert.Equal(t, "database", KindDatabase.String())
}

func TestKindStringRoundTrip(t *testing.T) {
	for _, kind := range KindValues() {
		parsed, err := KindString(kind.String())
		require.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}

	_, err := KindString("table")
	assert.Error(t, err)
}

func TestStateStringValues(t *testing.T) {
	want := []string{"unknown", "checked", "creating", "created", "verified", "failed"}
	assert.Equal(t, want, StateStrings())

	for _, state := range StateValues() {
		assert.True(t, state.IsAState())
	}
	assert.False(t, State(99).IsAState())
}
