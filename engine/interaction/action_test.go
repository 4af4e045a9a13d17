package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testKindA      = MustDeclareActionKind("test-a")
	testKindB      = MustDeclareActionKind("test-b")
	testKindToggle = MustDeclareActionKind("test-toggle")
)

func TestBaseActionKinds(t *testing.T) {
	for _, k := range []ActionKind{ActionPan, ActionZoom, ActionRotate, ActionSelect, ActionReset} {
		assert.True(t, k.Declared(), k.String())
		assert.True(t, k.Base(), k.String())
		found, ok := LookupActionKind(k.String())
		require.True(t, ok)
		assert.Equal(t, k, found)
	}
	assert.Equal(t, "pan", ActionPan.String())
	assert.False(t, testKindA.Base())
}

func TestDeclareActionKindDuplicate(t *testing.T) {
	_, err := DeclareActionKind("pan")
	assert.ErrorIs(t, err, ErrDuplicateActionKind)
	var bce *BindingConfigurationError
	require.ErrorAs(t, err, &bce)
	assert.Equal(t, -1, bce.Index)

	_, err = DeclareActionKind("")
	assert.ErrorIs(t, err, ErrMalformedBinding)

	assert.Panics(t, func() { MustDeclareActionKind("test-a") })
}

func TestActionKindsAreDistinct(t *testing.T) {
	seen := map[ActionKind]bool{}
	for _, k := range []ActionKind{ActionPan, ActionZoom, ActionRotate, ActionSelect, ActionReset, testKindA, testKindB, testKindToggle} {
		assert.False(t, seen[k], k.String())
		seen[k] = true
	}
	assert.False(t, ActionKind(0).Declared())
	assert.False(t, ActionKind(1<<30).Declared())
}
