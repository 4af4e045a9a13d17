package visual

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-viz/engine/renderer/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func attribute(name string, dim int) shader.Declaration {
	return shader.Declaration{Name: name, Kind: shader.KindAttribute, ValueType: shader.ValueTypeFloat32, Dim: dim}
}

func TestRegistryDeclareAndLookup(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Declare(attribute("position", 2)))
	require.NoError(t, reg.Declare(shader.Declaration{Name: "scale", Kind: shader.KindUniform, Dim: 1}))

	decl, ok := reg.Lookup("position")
	require.True(t, ok)
	assert.Equal(t, 2, decl.Dim)
	assert.Equal(t, 0, reg.Order("position"))
	assert.Equal(t, 1, reg.Order("scale"))
	assert.Equal(t, -1, reg.Order("missing"))
	assert.Equal(t, 2, reg.Len())

	_, ok = reg.Lookup("missing")
	assert.False(t, ok)
}

func TestRegistryDuplicateName(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Declare(attribute("position", 2)))

	err := reg.Declare(shader.Declaration{Name: "position", Kind: shader.KindUniform, Dim: 2})
	assert.ErrorIs(t, err, ErrDuplicateName)

	err = reg.reserve("position")
	assert.ErrorIs(t, err, ErrDuplicateName)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistryTextureShape(t *testing.T) {
	reg := NewRegistry()

	err := reg.Declare(shader.Declaration{Name: "tex", Kind: shader.KindTexture, TextureShape: [2]int{0, 4}, Components: 4, Ndim: 2})
	assert.ErrorIs(t, err, ErrInvalidShape)

	err = reg.Declare(shader.Declaration{Name: "tex", Kind: shader.KindTexture, TextureShape: [2]int{4, 4}, Components: 5, Ndim: 2})
	assert.ErrorIs(t, err, ErrInvalidDeclaration)

	err = reg.Declare(shader.Declaration{Name: "tex", Kind: shader.KindTexture, TextureShape: [2]int{1, 64}, Components: 4, Ndim: 2})
	assert.ErrorIs(t, err, ErrInvalidDeclaration)

	require.NoError(t, reg.Declare(shader.Declaration{Name: "tex", Kind: shader.KindTexture, TextureShape: [2]int{1, 64}, Components: 4, Ndim: 1}))
}

func TestRegistryDimensionRange(t *testing.T) {
	reg := NewRegistry()
	for _, dim := range []int{0, 5} {
		err := reg.Declare(attribute("a", dim))
		assert.ErrorIs(t, err, ErrInvalidDeclaration, "dim %d", dim)
	}
	err := reg.Declare(attribute("", 2))
	assert.ErrorIs(t, err, ErrInvalidDeclaration)
	assert.Zero(t, reg.Len())
}

func TestRegistryDeclarationsIsCopy(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Declare(attribute("position", 2)))

	decls := reg.Declarations()
	decls[0].Name = "changed"

	_, ok := reg.Lookup("position")
	assert.True(t, ok)
	assert.Equal(t, "position", reg.Declarations()[0].Name)
}
