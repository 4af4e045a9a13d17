package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-viz/engine/renderer/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileProgramIssuesDistinctRefs(t *testing.T) {
	h := NewHeadlessBackend()

	a, err := h.CompileProgram("vs", "fs")
	require.NoError(t, err)
	b, err := h.CompileProgram("vs", "fs")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	require.NoError(t, h.Release(a))
	_, ok := h.Program(a)
	assert.False(t, ok)
	_, ok = h.Program(b)
	assert.True(t, ok, "releasing one program freed another")
}

func TestNewBackendHeadless(t *testing.T) {
	b, err := NewBackend(BackendTypeHeadless, nil, WithHeadlessOptions(WithHeadlessDialect(shader.GLSL())))
	require.NoError(t, err)
	assert.Equal(t, "headless", b.Name())
	assert.Equal(t, "glsl", b.Dialect().Name())
}

func TestParseBackendType(t *testing.T) {
	for _, bt := range []BackendType{BackendTypeWGPU, BackendTypeOpenGL, BackendTypeHeadless} {
		got, err := ParseBackendType(bt.String())
		require.NoError(t, err)
		assert.Equal(t, bt, got)
	}
	_, err := ParseBackendType("vulkan")
	assert.Error(t, err)
}

func TestEncodeValues(t *testing.T) {
	assert.Len(t, encodeValues(shader.ValueTypeFloat32, []float32{1, 2}), 8)

	ints := encodeValues(shader.ValueTypeInt32, []float32{-1})
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff}, ints)

	uints := encodeValues(shader.ValueTypeUint32, []float32{-5, 2})
	assert.Equal(t, []byte{0, 0, 0, 0, 2, 0, 0, 0}, uints)
}
