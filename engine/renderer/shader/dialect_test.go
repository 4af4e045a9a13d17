package shader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texturedDecls(shape [2]int) []Declaration {
	return []Declaration{
		{Name: "position", Kind: KindAttribute, Dim: 2},
		{Name: "tex_coords", Kind: KindAttribute, Dim: 2},
		{Name: "view_scale", Kind: KindUniform, Dim: 2},
		{Name: "view_translation", Kind: KindUniform, Dim: 2},
		{Name: "view_rotation", Kind: KindUniform, Dim: 1},
		{Name: "tex_sampler", Kind: KindTexture, Dim: 4, Components: 4, TextureShape: shape, Ndim: TextureNdim(shape)},
		{Name: "varying_tex_coords", Kind: KindVarying, Dim: 2},
	}
}

func TestAssemblePreservesFragmentOrder(t *testing.T) {
	for _, d := range []Dialect{WGSL(), GLSL()} {
		t.Run(d.Name(), func(t *testing.T) {
			src := Sources{
				VertexMain:   []string{"// v1", "// v2", "// v3"},
				FragmentMain: []string{"// f1", "// f2"},
			}
			p, err := Assemble(d, texturedDecls([2]int{4, 4}), src)
			require.NoError(t, err)

			assertInOrder(t, p.VertexSource, d.MainOpen(ShaderTypeVertex, texturedDecls([2]int{4, 4})), "// v1", "// v2", "// v3", "out_position")
			assertInOrder(t, p.FragmentSource, "// f1", "// f2")
			assert.NotContains(t, p.VertexSource, "// f1")
			assert.NotContains(t, p.FragmentSource, "// v1")
		})
	}
}

func TestAssembleIsDeterministic(t *testing.T) {
	decls := texturedDecls([2]int{8, 8})
	src := Sources{VertexMain: []string{"varying_tex_coords = tex_coords;"}}
	a, err := Assemble(WGSL(), decls, src)
	require.NoError(t, err)
	b, err := Assemble(WGSL(), decls, src)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestVaryingDeclaredOnBothSides(t *testing.T) {
	decls := texturedDecls([2]int{4, 4})

	p, err := Assemble(WGSL(), decls, Sources{})
	require.NoError(t, err)
	assert.Contains(t, p.VertexSource, "@location(0) varying_tex_coords: vec2<f32>,")
	assert.Contains(t, p.FragmentSource, "@location(0) varying_tex_coords: vec2<f32>,")
	assert.Contains(t, p.VertexSource, "out.varying_tex_coords = varying_tex_coords;")
	assert.Contains(t, p.FragmentSource, "let varying_tex_coords = in.varying_tex_coords;")

	g, err := Assemble(GLSL(), decls, Sources{})
	require.NoError(t, err)
	assert.Contains(t, g.VertexSource, "out vec2 varying_tex_coords;")
	assert.Contains(t, g.FragmentSource, "in vec2 varying_tex_coords;")
}

func TestTextureSamplingPath(t *testing.T) {
	cases := []struct {
		shape    [2]int
		ndim     int
		wgslDecl string
		glslDecl string
	}{
		{[2]int{1, 64}, 1, "texture_1d<f32>", "sampler1D"},
		{[2]int{64, 1}, 1, "texture_1d<f32>", "sampler1D"},
		{[2]int{64, 64}, 2, "texture_2d<f32>", "sampler2D"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ndim, TextureNdim(tc.shape))

		decls := texturedDecls(tc.shape)
		w, err := Assemble(WGSL(), decls, Sources{})
		require.NoError(t, err)
		assert.Contains(t, w.FragmentSource, "var tex_sampler: "+tc.wgslDecl+";")
		assert.Contains(t, w.FragmentSource, "var tex_sampler_sampler: sampler;")

		g, err := Assemble(GLSL(), decls, Sources{})
		require.NoError(t, err)
		assert.Contains(t, g.FragmentSource, "uniform "+tc.glslDecl+" tex_sampler;")
	}

	assert.Equal(t, "textureSample(t, t_sampler, (uv).x)", WGSL().SampleTexture("t", "uv", 1))
	assert.Equal(t, "textureSample(t, t_sampler, uv)", WGSL().SampleTexture("t", "uv", 2))
	assert.Equal(t, "texture(t, (uv).x)", GLSL().SampleTexture("t", "uv", 1))
	assert.Equal(t, "texture(t, uv)", GLSL().SampleTexture("t", "uv", 2))
}

func TestNavigationHelperIncluded(t *testing.T) {
	p, err := Assemble(WGSL(), texturedDecls([2]int{2, 2}), Sources{})
	require.NoError(t, err)
	assert.Contains(t, p.VertexSource, "fn transform_position(p: vec2<f32>) -> vec2<f32>")
	assert.Contains(t, p.VertexSource, "var out_position = vec4<f32>(transform_position(position), 0.0, 1.0);")
	assert.NotContains(t, p.VertexSource, "@viz:include")

	static := []Declaration{{Name: "position", Kind: KindAttribute, Dim: 2}}
	p, err = Assemble(WGSL(), static, Sources{})
	require.NoError(t, err)
	assert.NotContains(t, p.VertexSource, "transform_position")
	assert.Contains(t, p.VertexSource, "var out_position = vec4<f32>(position, 0.0, 1.0);")
}

func TestAssembleRejectsUnknownInclude(t *testing.T) {
	_, err := Assemble(GLSL(), nil, Sources{VertexHeaders: []string{"//@viz:include nope"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown @viz:include snippet "nope"`)
}

func TestPreProcessorIncludesOnce(t *testing.T) {
	pp := NewPreProcessor(map[string]string{"a": "fn a() {}"})
	out, err := pp.Process("//@viz:include a\n// plain comment\n//@viz:include a")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "fn a() {}"))
	assert.Contains(t, out, "// plain comment")
	require.Len(t, pp.Included(), 1)
	assert.Equal(t, 1, pp.Included()[0].Line)

	_, err = pp.Process("//@viz:include")
	assert.Error(t, err)
	_, err = pp.Process("//@viz:define x")
	assert.Error(t, err)
}

func TestAssignSlotsNumbersKindsIndependently(t *testing.T) {
	slots := AssignSlots(texturedDecls([2]int{2, 2}))
	want := []Slot{
		{Name: "position", Kind: KindAttribute, Index: 0},
		{Name: "tex_coords", Kind: KindAttribute, Index: 1},
		{Name: "view_scale", Kind: KindUniform, Index: 0},
		{Name: "view_translation", Kind: KindUniform, Index: 1},
		{Name: "view_rotation", Kind: KindUniform, Index: 2},
		{Name: "tex_sampler", Kind: KindTexture, Index: 0},
		{Name: "varying_tex_coords", Kind: KindVarying, Index: 0},
	}
	assert.Equal(t, want, slots)
}

func assertInOrder(t *testing.T, s string, parts ...string) {
	t.Helper()
	pos := 0
	for _, p := range parts {
		i := strings.Index(s[pos:], p)
		if !assert.GreaterOrEqualf(t, i, 0, "%q not found after offset %d", p, pos) {
			return
		}
		pos += i + len(p)
	}
}
