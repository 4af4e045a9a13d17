package visual

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-viz/common"
	"github.com/Carmen-Shannon/oxy-viz/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viz/engine/renderer/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradient(rows, cols, comps int) common.Array {
	data := make([]float32, rows*cols*comps)
	for i := range data {
		data[i] = float32(i%256) / 255
	}
	return common.MustArray(data, rows, cols, comps)
}

func TestTextureVisualSamplingPath(t *testing.T) {
	cases := []struct {
		name     string
		shape    [2]int
		ndim     int
		wgslDecl string
		sample   string
	}{
		{"row", [2]int{1, 64}, 1, "texture_1d<f32>", "(varying_tex_coords).x"},
		{"column", [2]int{64, 1}, 1, "texture_1d<f32>", "(varying_tex_coords).x"},
		{"square", [2]int{64, 64}, 2, "texture_2d<f32>", "tex_sampler_sampler, varying_tex_coords)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			def := &TextureVisual{Texture: gradient(tc.shape[0], tc.shape[1], 4)}
			v, err := New(def, shader.WGSL())
			require.NoError(t, err)
			assert.Equal(t, tc.ndim, def.Ndim())

			prog := v.Program()
			assert.Contains(t, prog.FragmentSource, tc.wgslDecl)
			assert.Contains(t, prog.FragmentSource, tc.sample)
		})
	}
}

func TestTextureVisualGLSLPath(t *testing.T) {
	def := &TextureVisual{Texture: gradient(1, 64, 3)}
	v, err := New(def, shader.GLSL())
	require.NoError(t, err)
	assert.Contains(t, v.Program().FragmentSource, "uniform sampler1D tex_sampler;")
	assert.Contains(t, v.Program().FragmentSource, "texture(tex_sampler, (varying_tex_coords).x)")

	def = &TextureVisual{Texture: gradient(64, 64, 3)}
	v, err = New(def, shader.GLSL())
	require.NoError(t, err)
	assert.Contains(t, v.Program().FragmentSource, "uniform sampler2D tex_sampler;")
}

func TestTextureVisualDefaultPoints(t *testing.T) {
	// wide texture: full width, height shrunk by the aspect ratio
	v, err := New(&TextureVisual{Texture: gradient(32, 64, 4)}, shader.WGSL())
	require.NoError(t, err)
	pos, ok := v.Data(shader.AttributePosition)
	require.True(t, ok)
	assert.Equal(t, []float32{-1, -0.5, 1, -0.5, -1, 0.5, 1, 0.5}, pos.Data)

	// tall texture
	v, err = New(&TextureVisual{Texture: gradient(64, 32, 4)}, shader.WGSL())
	require.NoError(t, err)
	pos, _ = v.Data(shader.AttributePosition)
	assert.Equal(t, []float32{-0.5, -1, 0.5, -1, -0.5, 1, 0.5, 1}, pos.Data)
}

func TestTextureVisualPointsCompound(t *testing.T) {
	v, backend := newBound(t, &TextureVisual{Texture: gradient(8, 8, 4), Points: []float32{1, 1, -1, -1}})
	assert.Equal(t, 4, v.Size())
	assert.Equal(t, renderer.PrimitiveTriangleStrip, v.PrimitiveType())

	pos, _ := v.Data(shader.AttributePosition)
	assert.Equal(t, []float32{-1, -1, 1, -1, -1, 1, 1, 1}, pos.Data)

	require.NoError(t, v.UpdateData(TexturePointsName, [4]float32{0, 0, 2, 3}))
	_, data, _ := backend.Buffer(v.refs[shader.AttributePosition])
	assert.Equal(t, []float32{0, 0, 2, 0, 0, 3, 2, 3}, data.Data)

	assert.ErrorIs(t, v.UpdateData(TexturePointsName, []float32{1, 2, 3}), ErrInvalidShape)
}

func TestTextureVisualTextureCompound(t *testing.T) {
	v, backend := newBound(t, &TextureVisual{Texture: gradient(8, 8, 4)})
	ref := v.refs[TextureSamplerName]

	spec, _, ok := backend.Buffer(ref)
	require.True(t, ok)
	assert.Equal(t, renderer.BufferTexture, spec.Kind)
	assert.Equal(t, []int{8, 8, 4}, spec.Shape)

	next := common.Repeat(64, 1, 0, 0, 1)
	next, err := next.Reshape(8, 8, 4)
	require.NoError(t, err)
	require.NoError(t, v.UpdateData(TextureCompoundName, next))
	_, data, _ := backend.Buffer(ref)
	assert.Equal(t, next.Data, data.Data)

	err = v.UpdateData(TextureCompoundName, gradient(4, 4, 4))
	assert.ErrorIs(t, err, renderer.ErrShapeMismatch)

	require.NoError(t, v.UpdateData(TextureCompoundName, gradient(4, 4, 4), WithResize()))
	err = v.UpdateData(TextureCompoundName, gradient(1, 16, 4), WithResize())
	assert.ErrorIs(t, err, renderer.ErrShapeMismatch)
}

func TestTextureVisualGrayscale(t *testing.T) {
	gray := common.MustArray(make([]float32, 16), 4, 4)
	def := &TextureVisual{Texture: gray}
	v, backend := newBound(t, def)

	spec, data, ok := backend.Buffer(v.refs[TextureSamplerName])
	require.True(t, ok)
	assert.Equal(t, []int{4, 4, 1}, spec.Shape)
	assert.Equal(t, []int{4, 4, 1}, data.Shape)
}

func TestTextureVisualRejectsFlatData(t *testing.T) {
	_, err := New(&TextureVisual{Texture: common.MustArray([]float32{1, 2, 3}, 3)}, shader.WGSL())
	assert.ErrorIs(t, err, ErrInvalidShape)
}

func TestTextureVisualReturnsDeclarationErrors(t *testing.T) {
	var initErr error
	def := DefinitionFunc(func(d Declarer) error {
		require.NoError(t, d.AddUniform(Variable{Name: TextureSamplerName, Dim: 1, Data: float32(0)}))
		initErr = (&TextureVisual{Texture: gradient(4, 4, 4)}).Initialize(d)
		return initErr
	})
	_, err := New(def, shader.WGSL())
	assert.ErrorIs(t, err, ErrDuplicateName)

	require.ErrorIs(t, initErr, ErrDuplicateName)
	var de *DeclarationError
	require.ErrorAs(t, initErr, &de)
	assert.Equal(t, TextureSamplerName, de.Name)
}
